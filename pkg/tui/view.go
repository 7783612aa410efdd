package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	inventory "github.com/goliatone/go-inventory"
	"github.com/goliatone/go-inventory/pkg/notify"
)

var (
	columnTitles = [...]string{"No", "Nama Barang", "Jumlah Stock", "Harga", "Aksi"}
	columnWidths = [...]int{5, 26, 14, 18, 22}

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	cursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("237"))
	editStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	actionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	filterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	emptyRowStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Inventory"))
	if m.filter != "" {
		b.WriteString("  " + filterStyle.Render("filter: "+m.filter))
	}
	b.WriteString("\n\n")
	b.WriteString(m.viewTable())
	b.WriteString("\n")

	if m.filtering {
		b.WriteString(m.filterIn.View() + "\n")
	}
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status) + "\n")
	}
	b.WriteString(helpStyle.Render(m.help()))

	screen := b.String()
	if toasts := m.viewToasts(); toasts != "" {
		screen = lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.PlaceHorizontal(m.width, lipgloss.Right, toasts),
			screen,
		)
	}
	if m.pending != nil {
		screen += "\n\n" + renderModalBox(m.width, m.pending.confirmation)
	}
	return screen
}

func (m Model) viewTable() string {
	cells := make([]string, len(columnTitles))
	for i, title := range columnTitles {
		cells[i] = cell(headerStyle, title, columnWidths[i])
	}
	lines := []string{strings.Join(cells, " ")}

	if len(m.rows) == 0 {
		text := "Belum ada barang"
		if m.filter != "" {
			text = "Tidak ada barang yang cocok"
		}
		lines = append(lines, emptyRowStyle.Render(text))
	}
	for i, item := range m.rows {
		lines = append(lines, m.viewRow(i, item))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewRow(index int, item inventory.Item) string {
	plain := lipgloss.NewStyle()
	cells := make([]string, 0, len(columnWidths))
	cells = append(cells, cell(plain, fmt.Sprintf("%d", index+1), columnWidths[0]))

	// Rows sharing the edited id are saved together; inputs sit on the
	// cursor row only.
	editing := m.editing && index == m.cursor && m.editor.Editing(item.ID)
	shared := m.editing && !editing && m.editor.Editing(item.ID)
	if editing {
		for i := range m.inputs {
			cells = append(cells, cell(editStyle, "["+m.inputs[i].View()+"]", columnWidths[i+1]))
		}
		cells = append(cells, cell(actionStyle, "enter simpan esc batal", columnWidths[4]))
	} else {
		cells = append(cells,
			cell(plain, item.Name, columnWidths[1]),
			cell(plain, item.Stock.String(), columnWidths[2]),
			cell(plain, item.Price, columnWidths[3]),
			cell(actionStyle, "e edit d hapus", columnWidths[4]),
		)
		if shared {
			cells[len(cells)-1] = cell(editStyle, "ikut disimpan", columnWidths[4])
		}
	}

	line := strings.Join(cells, " ")
	if index == m.cursor && !editing {
		line = cursorStyle.Render(line)
	}
	return line
}

func (m Model) viewToasts() string {
	if len(m.active) == 0 {
		return ""
	}
	width := m.width / 3
	if width < 24 {
		width = 24
	}
	boxes := make([]string, len(m.active))
	for i, toast := range m.active {
		boxes[i] = notify.Render(nil, toast.Notification, width)
	}
	return lipgloss.JoinVertical(lipgloss.Right, boxes...)
}

func (m Model) help() string {
	switch {
	case m.pending != nil:
		return "enter/y konfirmasi • esc/n batal"
	case m.editing:
		return "tab pindah kolom • enter simpan • esc batal"
	case m.filtering:
		return "enter terapkan filter • esc tutup"
	}
	help := "↑/↓ pilih • a tambah • e edit • d hapus • / filter • q keluar"
	if m.filter != "" {
		help += " • esc hapus filter"
	}
	return help
}

// cell pads or truncates text to exactly width cells.
func cell(style lipgloss.Style, text string, width int) string {
	if xansi.StringWidth(text) > width {
		text = xansi.Truncate(text, width, "…")
	}
	return style.Width(width).MaxWidth(width).Render(text)
}

func renderModalBox(screenWidth int, c inventory.Confirmation) string {
	w := screenWidth - 12
	if w < 30 {
		w = 30
	}
	if w > 64 {
		w = 64
	}

	title := c.Title
	if c.Icon != "" {
		title = "⚠ " + title
	}
	confirm, cancel := c.ConfirmLabel, c.CancelLabel
	if confirm == "" {
		confirm = "Ya"
	}
	if cancel == "" {
		cancel = "Batal"
	}
	header := lipgloss.NewStyle().Bold(true).Render(title)
	buttons := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("enter/y "+confirm) +
		"   " + helpStyle.Render("esc/n "+cancel)
	content := header + "\n\n" + c.Text + "\n\n" + buttons

	return lipgloss.NewStyle().
		Width(w).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Render(content)
}
