// Package notify provides terminal implementations of the editor's toast
// and confirmation collaborators.
package notify

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	inventory "github.com/goliatone/go-inventory"
)

// Palette colours per severity. "dark" themed toasts use a dark background.
var (
	colorInfo    = lipgloss.Color("39")
	colorSuccess = lipgloss.Color("42")
	colorError   = lipgloss.Color("196")
	colorDarkBg  = lipgloss.Color("235")
	colorText    = lipgloss.Color("255")
)

func severityColor(s inventory.Severity) lipgloss.Color {
	switch s {
	case inventory.SeveritySuccess:
		return colorSuccess
	case inventory.SeverityError:
		return colorError
	default:
		return colorInfo
	}
}

func severityIcon(s inventory.Severity) string {
	switch s {
	case inventory.SeveritySuccess:
		return "✔"
	case inventory.SeverityError:
		return "✖"
	default:
		return "ℹ"
	}
}

// Text returns the toast body: the message, or the title when the message
// is empty.
func Text(n inventory.Notification) string {
	if strings.TrimSpace(n.Message) != "" {
		return n.Message
	}
	return n.Title
}

// Render draws n as a bordered box no wider than width. Width below 12
// disables the limit.
func Render(r *lipgloss.Renderer, n inventory.Notification, width int) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	color := severityColor(n.Severity)
	style := r.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color)
	switch n.Theme {
	case "colored":
		style = style.Background(color).Foreground(colorText)
	case "dark":
		style = style.Background(colorDarkBg).Foreground(colorText)
	}

	body := severityIcon(n.Severity) + " " + Text(n)
	if width >= 12 {
		inner := width - 4
		if xansi.StringWidth(body) > inner {
			body = xansi.Truncate(body, inner, "…")
		}
	}
	return style.Render(body)
}
