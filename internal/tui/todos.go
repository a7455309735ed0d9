package tui

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/todo"
	"github.com/idilsaglam/todo/internal/ui"
)

// Results of store operations. items is the store snapshot after the call.
type (
	todosLoadedMsg struct {
		items []model.Item
		err   error
	}
	todoAddedMsg struct {
		items []model.Item
		err   error
	}
	todoRemovedMsg struct {
		items []model.Item
		err   error
	}
)

// listItem adapts model.Item to bubbles/list.Item
type listItem struct{ model.Item }

func (i listItem) Title() string       { return i.Item.Title }
func (i listItem) Description() string { return i.Item.Description }
func (i listItem) FilterValue() string { return i.Item.Title + " " + i.Item.Description }

// cardDelegate renders each item as a two-line card.
type cardDelegate struct{}

func (d cardDelegate) Height() int                               { return 2 }
func (d cardDelegate) Spacing() int                              { return 1 }
func (d cardDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d cardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	t := theme()
	width := m.Width() - 4
	if width < 10 {
		width = 10
	}

	prefix := "  "
	title := t.Title.Render(ui.Truncate(it.Item.Title, width))
	if index == m.Index() {
		prefix = t.Selected.Render(t.SymSelected)
	}
	fmt.Fprintf(w, "%s%s\n%s%s", prefix, title, "  ", t.Card.Render(ui.Truncate(it.Item.Description, width)))
}

var (
	addKey     = key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	deleteKey  = key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete"))
	refreshKey = key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh"))
)

type todosModel struct {
	ctx     context.Context
	store   *todo.Store
	list    list.Model
	spinner spinner.Model
	loading bool

	// Inline add
	adding bool
	form   form
	busy   bool
}

func newTodosModel(ctx context.Context, store *todo.Store) todosModel {
	l := list.New(nil, cardDelegate{}, 0, 0)
	l.Title = "ToDo List"
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.Title = theme().Title
	l.FilterInput.Prompt = "/ "
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{addKey, deleteKey, refreshKey} }

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme().Accent

	return todosModel{
		ctx:     ctx,
		store:   store,
		list:    l,
		spinner: sp,
		form: newForm(
			field{label: "Title", placeholder: "Title"},
			field{label: "Description", placeholder: "Description"},
		),
	}
}

func (m todosModel) setSize(w, h int) todosModel {
	if m.adding {
		h -= 6
	}
	if w < 20 {
		w = 20
	}
	if h < 4 {
		h = 4
	}
	m.list.SetSize(w, h)
	return m
}

// capturingInput is true while keystrokes belong to a text field.
func (m todosModel) capturingInput() bool {
	return m.adding || m.list.SettingFilter()
}

// enter shows the loading state and fetches the list from the server.
func (m todosModel) enter() (todosModel, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.fetch())
}

func (m todosModel) fetch() tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		_, err := store.FetchAll(ctx)
		return todosLoadedMsg{items: store.Items(), err: err}
	}
}

func (m todosModel) add() tea.Cmd {
	ctx, store := m.ctx, m.store
	title, description := m.form.value(0), m.form.value(1)
	return func() tea.Msg {
		err := store.Add(ctx, title, description)
		return todoAddedMsg{items: store.Items(), err: err}
	}
}

func (m todosModel) remove(id string) tea.Cmd {
	ctx, store := m.ctx, m.store
	return func() tea.Msg {
		err := store.Remove(ctx, id)
		return todoRemovedMsg{items: store.Items(), err: err}
	}
}

func (m todosModel) setItems(items []model.Item) (todosModel, tea.Cmd) {
	li := make([]list.Item, 0, len(items))
	for _, it := range items {
		li = append(li, listItem{it})
	}
	cmd := m.list.SetItems(li)
	return m, cmd
}

func (m todosModel) update(msg tea.Msg) (todosModel, tea.Cmd) {
	switch msg := msg.(type) {
	case todosLoadedMsg:
		m.loading = false
		var cmd tea.Cmd
		m, cmd = m.setItems(msg.items)
		if msg.err != nil {
			return m, tea.Batch(cmd, alert("Alert", "Failed to load todos", nil))
		}
		return m, cmd

	case todoAddedMsg:
		m.busy = false
		if msg.err != nil {
			// keep what was typed so the user can retry
			text := "Failed to add todo"
			if model.IsError(msg.err, model.ErrCodeValidation) {
				text = msg.err.Error()
			}
			return m, alert("Alert", text, nil)
		}
		m.adding = false
		m.form = m.form.clear().blur()
		return m.setItems(msg.items)

	case todoRemovedMsg:
		m.busy = false
		if msg.err != nil {
			return m, alert("Alert", "Failed to delete todo", nil)
		}
		return m.setItems(msg.items)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		if m.loading || m.list.SettingFilter() {
			break
		}
		switch {
		case key.Matches(msg, addKey):
			m.adding = true
			var cmd tea.Cmd
			m.form, cmd = m.form.focusFirst()
			return m, cmd
		case key.Matches(msg, deleteKey):
			if m.busy {
				return m, nil
			}
			if it, ok := m.list.SelectedItem().(listItem); ok {
				m.busy = true
				return m, m.remove(it.ID)
			}
			return m, nil
		case key.Matches(msg, refreshKey):
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetch())
		}
	}

	if m.adding {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m todosModel) updateAdding(k tea.KeyMsg) (todosModel, tea.Cmd) {
	if m.busy {
		return m, nil
	}
	switch k.String() {
	case "enter":
		m.busy = true
		return m, m.add()
	case "esc":
		// cancel keeps the typed text, like closing the sheet
		m.adding = false
		m.form = m.form.blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(k)
	return m, cmd
}

func (m todosModel) view() string {
	t := theme()
	if m.loading {
		return m.spinner.View() + " " + t.Accent.Render("Loading todos...")
	}
	content := m.list.View()
	if len(m.list.Items()) == 0 {
		content = t.Title.Render("ToDo List") + "\n\n" + t.Muted.Render("No todos yet. Press a to add one.")
	}
	if m.adding {
		title := "Add Todo"
		if m.busy {
			title += " " + t.Pending.Render("saving...")
		}
		content += "\n" + boxStyle().Render(t.Accent.Render(title)+"\n"+m.form.view())
	}
	return content
}

func (m todosModel) help() string {
	if m.adding {
		return "enter: add todo • tab: next field • esc: cancel"
	}
	return "a: add • d: delete • r: refresh • /: filter • tab: profile • q: quit"
}
