package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	inventory "github.com/goliatone/go-inventory"
)

type confirmRequest struct {
	confirmation inventory.Confirmation
	reply        chan bool
}

// confirmRequestMsg carries a pending prompt into Update.
type confirmRequestMsg confirmRequest

// Confirmer bridges Editor.Delete, which blocks in a command goroutine,
// and the model's modal. Confirm hands the prompt to the model and waits
// for the key press or ctx.
type Confirmer struct {
	requests chan confirmRequest
}

var _ inventory.Confirmer = (*Confirmer)(nil)

// NewConfirmer builds an unbuffered confirmer. A Model must be listening
// (see New) or Confirm blocks until ctx ends.
func NewConfirmer() *Confirmer {
	return &Confirmer{requests: make(chan confirmRequest)}
}

func (c *Confirmer) Confirm(ctx context.Context, conf inventory.Confirmation) (bool, error) {
	req := confirmRequest{confirmation: conf, reply: make(chan bool, 1)}
	select {
	case c.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-req.reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// listen waits for the next prompt. The model re-arms it after each one.
func (c *Confirmer) listen() tea.Cmd {
	return func() tea.Msg {
		return confirmRequestMsg(<-c.requests)
	}
}
