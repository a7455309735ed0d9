package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo/internal/account"
	"github.com/idilsaglam/todo/internal/model"
)

type loginDoneMsg struct{ err error }

type loginModel struct {
	ctx  context.Context
	acct *account.Service
	form form
	busy bool
}

func newLoginModel(ctx context.Context, acct *account.Service) loginModel {
	return loginModel{
		ctx:  ctx,
		acct: acct,
		form: newForm(
			field{label: "Username", placeholder: "Username"},
			field{label: "Password", placeholder: "Password", secret: true},
		),
	}
}

func (m loginModel) enter() (loginModel, tea.Cmd) {
	m.busy = false
	m.form = m.form.clear()
	var cmd tea.Cmd
	m.form, cmd = m.form.focusFirst()
	return m, cmd
}

func (m loginModel) update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.busy = false
		if msg.err != nil {
			return m, alert("Error", loginFailure(msg.err), nil)
		}
		m.form = m.form.clear()
		return m, alert("Success", "Login successful! Redirecting...", navigate(screenTodos))

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			m.busy = true
			return m, m.submit()
		case "ctrl+r":
			return m, navigate(screenRegister)
		case "esc":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m loginModel) submit() tea.Cmd {
	ctx, acct := m.ctx, m.acct
	username, password := m.form.value(0), m.form.value(1)
	return func() tea.Msg {
		return loginDoneMsg{err: acct.Login(ctx, username, password)}
	}
}

func loginFailure(err error) string {
	if model.IsError(err, model.ErrCodeValidation) {
		return err.Error()
	}
	if msg := model.ServerMessage(err); msg != "" {
		return msg
	}
	return "An unexpected error occurred."
}

func (m loginModel) view() string {
	t := theme()
	s := t.Title.Render("Welcome Back!") + "\n" + t.Muted.Render("Log in to your account") + "\n\n" + m.form.view()
	if m.busy {
		s += "\n\n" + t.Pending.Render("Logging in...")
	}
	return s
}

func (m loginModel) help() string {
	return "enter: login • tab: next field • ctrl+r: don't have an account? register • esc: quit"
}
