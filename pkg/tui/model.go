// Package tui is a bubbletea front end for the inventory editor: a table
// whose rows switch to text inputs while editing, a delete confirmation
// modal and a toast stack.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	inventory "github.com/goliatone/go-inventory"
	"github.com/goliatone/go-inventory/pkg/notify"
)

const toastTick = 200 * time.Millisecond

var editFields = [...]inventory.Field{inventory.FieldName, inventory.FieldStock, inventory.FieldPrice}

type (
	opDoneMsg struct {
		op  string
		err error
	}
	queryDoneMsg struct {
		expr  string
		items []inventory.Item
		err   error
	}
	tickMsg time.Time
)

// Model is the bubbletea model. Build it with New.
type Model struct {
	ctx       context.Context
	editor    *inventory.Editor
	toasts    *notify.Queue
	confirmer *Confirmer

	rows    []inventory.Item
	cursor  int
	editing bool
	inputs  [len(editFields)]textinput.Model
	focus   int

	filtering bool
	filterIn  textinput.Model
	filter    string

	pending *confirmRequest
	active  []notify.Toast
	status  string
	busy    bool

	width  int
	height int
}

// New wires the model to an editor built with toasts as its notifier and
// confirmer as its confirmer.
func New(ctx context.Context, editor *inventory.Editor, toasts *notify.Queue, confirmer *Confirmer) Model {
	m := Model{
		ctx:       ctx,
		editor:    editor,
		toasts:    toasts,
		confirmer: confirmer,
		width:     100,
	}
	for i := range m.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Width = columnWidths[i+1] - 2
		in.Cursor.SetMode(cursor.CursorStatic)
		m.inputs[i] = in
	}
	m.filterIn = textinput.New()
	m.filterIn.Prompt = "filter> "
	m.filterIn.Placeholder = `qty(stock) < 5`
	m.filterIn.Cursor.SetMode(cursor.CursorStatic)
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.confirmer.listen(), tick())
}

func tick() tea.Cmd {
	return tea.Tick(toastTick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tickMsg:
		m.active = m.toasts.Active()
		return m, tick()
	case confirmRequestMsg:
		req := confirmRequest(msg)
		m.pending = &req
		return m, m.confirmer.listen()
	case opDoneMsg:
		m.busy = false
		m.status = ""
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		if m.editing {
			_, m.editing = m.editor.Session()
		}
		m.refresh()
		m.active = m.toasts.Active()
		return m, nil
	case queryDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		m.status = ""
		m.filter = msg.expr
		m.rows = msg.items
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}
	switch {
	case m.pending != nil:
		return m.handleModalKey(key)
	case m.editing:
		return m.handleEditKey(msg)
	case m.filtering:
		return m.handleFilterKey(msg)
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "a":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.run("add", func() error {
			_, err := m.editor.Add(m.ctx)
			return err
		})
	case "e", "enter":
		return m.beginEdit()
	case "d", "delete":
		item, ok := m.selected()
		if !ok || m.busy {
			return m, nil
		}
		m.busy = true
		return m, m.run("delete", func() error {
			_, err := m.editor.Delete(m.ctx, item.ID)
			return err
		})
	case "/":
		m.filtering = true
		m.filterIn.SetValue(m.filter)
		cmd := m.filterIn.Focus()
		return m, cmd
	case "esc":
		if m.filter != "" {
			m.filter = ""
			m.refresh()
		}
	}
	return m, nil
}

func (m Model) handleModalKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "enter", "y":
		m.pending.reply <- true
		m.pending = nil
	case "esc", "n":
		m.pending.reply <- false
		m.pending = nil
	}
	return m, nil
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	item, ok := m.selected()
	if !ok {
		return m, nil
	}
	if err := m.editor.BeginEdit(item.ID); err != nil {
		m.status = err.Error()
		return m, nil
	}
	session, _ := m.editor.Session()
	values := [len(editFields)]string{session.Name, session.Stock.String(), session.Price}
	for i := range m.inputs {
		m.inputs[i].SetValue(values[i])
		m.inputs[i].CursorEnd()
		m.inputs[i].Blur()
	}
	m.editing = true
	m.focus = 0
	m.status = ""
	cmd := m.inputs[0].Focus()
	return m, cmd
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		_ = m.editor.Cancel()
		m.editing = false
		m.refresh()
		return m, nil
	case "enter":
		m.editing = false
		m.busy = true
		return m, m.run("save", func() error {
			_, err := m.editor.Save(m.ctx)
			return err
		})
	case "tab", "down":
		cmd := m.moveFocus(1)
		return m, cmd
	case "shift+tab", "up":
		cmd := m.moveFocus(-1)
		return m, cmd
	}

	before := m.inputs[m.focus].Value()
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	// Cursor movement leaves the value alone and must not turn a numeric
	// stock into text.
	if value := m.inputs[m.focus].Value(); value != before {
		if err := m.editor.UpdateField(editFields[m.focus], value); err != nil {
			m.status = err.Error()
		}
	}
	return m, cmd
}

func (m *Model) moveFocus(delta int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	return m.inputs[m.focus].Focus()
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterIn.Blur()
		return m, nil
	case "enter":
		m.filtering = false
		m.filterIn.Blur()
		expr := m.filterIn.Value()
		if expr == "" {
			m.filter = ""
			m.refresh()
			return m, nil
		}
		m.busy = true
		editor, ctx := m.editor, m.ctx
		return m, func() tea.Msg {
			items, err := editor.Query(ctx, expr)
			return queryDoneMsg{expr: expr, items: items, err: err}
		}
	}
	var cmd tea.Cmd
	m.filterIn, cmd = m.filterIn.Update(msg)
	return m, cmd
}

// run executes fn off the update loop. Delete must not run inline because
// its confirmer waits for a key press that Update has to process.
func (m Model) run(op string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn()}
	}
}

func (m *Model) refresh() {
	if m.filter != "" {
		items, err := m.editor.Query(m.ctx, m.filter)
		if err == nil {
			m.rows = items
			m.clampCursor()
			return
		}
		m.status = err.Error()
		m.filter = ""
	}
	m.rows = m.editor.Items()
	m.clampCursor()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) selected() (inventory.Item, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return inventory.Item{}, false
	}
	return m.rows[m.cursor], true
}
