package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// dialog is a modal message box. Confirm dialogs need an explicit yes.
type dialog struct {
	title   string
	body    string
	confirm bool
	onOK    tea.Cmd
}

// showDialogMsg asks the root model to open a dialog.
type showDialogMsg struct{ d dialog }

func alert(title, body string, onOK tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		return showDialogMsg{d: dialog{title: title, body: body, onOK: onOK}}
	}
}

func confirm(title, body string, onOK tea.Cmd) tea.Cmd {
	return func() tea.Msg {
		return showDialogMsg{d: dialog{title: title, body: body, confirm: true, onOK: onOK}}
	}
}

// handle returns whether the dialog closed and the command to run.
func (d dialog) handle(k tea.KeyMsg) (bool, tea.Cmd) {
	switch k.String() {
	case "enter":
		return true, d.onOK
	case "y":
		if d.confirm {
			return true, d.onOK
		}
	case "esc":
		if d.confirm {
			return true, nil
		}
		return true, d.onOK
	case "n":
		if d.confirm {
			return true, nil
		}
	}
	return false, nil
}

func (d dialog) view(width, height int) string {
	t := theme()
	keys := "enter: OK"
	if d.confirm {
		keys = "y/enter: OK   n/esc: Cancel"
	}
	box := boxStyle().
		BorderForeground(t.BorderColor).
		Padding(1, 3).
		Render(t.Title.Render(d.title) + "\n\n" + d.body + "\n\n" + t.Help.Render(keys))
	if width == 0 || height == 0 {
		return box
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
