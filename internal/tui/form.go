package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field describes one text input of a form.
type field struct {
	label       string
	placeholder string
	secret      bool
}

// form is a vertical stack of text inputs with one focused at a time.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(fields ...field) form {
	f := form{}
	for _, fd := range fields {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = fd.placeholder
		ti.CharLimit = 200
		if fd.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.labels = append(f.labels, fd.label)
		f.inputs = append(f.inputs, ti)
	}
	return f
}

// focusFirst focuses the first input and blurs the others.
func (f form) focusFirst() (form, tea.Cmd) {
	f.focus = 0
	return f.refocus()
}

func (f form) refocus() (form, tea.Cmd) {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	return f, cmd
}

func (f form) blur() form {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f
}

func (f form) clear() form {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
	return f
}

func (f form) value(i int) string { return f.inputs[i].Value() }

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "tab", "down":
			f.focus = (f.focus + 1) % len(f.inputs)
			return f.refocus()
		case "shift+tab", "up":
			f.focus = (f.focus - 1 + len(f.inputs)) % len(f.inputs)
			return f.refocus()
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f form) view() string {
	t := theme()
	var b strings.Builder
	for i, in := range f.inputs {
		label := t.Muted.Render(f.labels[i])
		if i == f.focus {
			label = t.Accent.Render(f.labels[i])
		}
		b.WriteString(label + "\n" + in.View() + "\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
