package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	inventory "github.com/goliatone/go-inventory"
)

// Printer writes each notification to w as soon as it arrives.
type Printer struct {
	mu       sync.Mutex
	w        io.Writer
	renderer *lipgloss.Renderer
	width    int
}

var _ inventory.Notifier = (*Printer)(nil)

// NewPrinter renders toasts for w. Colours follow w's terminal capabilities.
func NewPrinter(w io.Writer, width int) *Printer {
	return &Printer{w: w, renderer: lipgloss.NewRenderer(w), width: width}
}

// Notify implements inventory.Notifier. Write errors are dropped.
func (p *Printer) Notify(_ context.Context, n inventory.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.w, Render(p.renderer, n, p.width))
}
