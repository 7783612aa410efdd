package notify

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	inventory "github.com/goliatone/go-inventory"
)

// Fixed returns a confirmer that always answers answer.
func Fixed(answer bool) inventory.Confirmer {
	return inventory.ConfirmerFunc(func(ctx context.Context, _ inventory.Confirmation) (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		return answer, nil
	})
}

// Prompt asks on out and reads a line from in. "y", "yes" or the confirm
// label accept; anything else, including EOF, declines.
type Prompt struct {
	in  *bufio.Reader
	out io.Writer
}

var _ inventory.Confirmer = (*Prompt)(nil)

// NewPrompt builds a Prompt.
func NewPrompt(in io.Reader, out io.Writer) *Prompt {
	return &Prompt{in: bufio.NewReader(in), out: out}
}

type answer struct {
	line string
	err  error
}

// Confirm implements inventory.Confirmer. When ctx ends first the pending
// read is abandoned and its line is lost.
func (p *Prompt) Confirm(ctx context.Context, c inventory.Confirmation) (bool, error) {
	fmt.Fprintf(p.out, "%s\n%s\n[%s/%s] (y/N): ", c.Title, strings.TrimSpace(c.Text), c.ConfirmLabel, c.CancelLabel)

	answers := make(chan answer, 1)
	go func() {
		line, err := p.in.ReadString('\n')
		answers <- answer{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case a := <-answers:
		if a.err != nil && a.line == "" {
			if a.err == io.EOF {
				return false, nil
			}
			return false, a.err
		}
		return Accepts(c, a.line), nil
	}
}

// Accepts reports whether reply confirms c.
func Accepts(c inventory.Confirmation, reply string) bool {
	reply = strings.ToLower(strings.TrimSpace(reply))
	switch reply {
	case "y", "yes":
		return true
	case "":
		return false
	}
	return c.ConfirmLabel != "" && reply == strings.ToLower(c.ConfirmLabel)
}
