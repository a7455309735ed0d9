package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo/internal/account"
	"github.com/idilsaglam/todo/internal/model"
)

type registerDoneMsg struct{ err error }

type registerModel struct {
	ctx  context.Context
	acct *account.Service
	form form
	busy bool
}

func newRegisterModel(ctx context.Context, acct *account.Service) registerModel {
	return registerModel{
		ctx:  ctx,
		acct: acct,
		form: newForm(
			field{label: "Username", placeholder: "Username"},
			field{label: "Email", placeholder: "Email"},
			field{label: "Password", placeholder: "Password", secret: true},
		),
	}
}

func (m registerModel) enter() (registerModel, tea.Cmd) {
	m.busy = false
	m.form = m.form.clear()
	var cmd tea.Cmd
	m.form, cmd = m.form.focusFirst()
	return m, cmd
}

func (m registerModel) update(msg tea.Msg) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		m.busy = false
		if msg.err != nil {
			return m, alert("Registration Failed", registerFailure(msg.err), nil)
		}
		return m, alert("Success", "Registration successful! You can now log in.", navigate(screenLogin))

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			m.busy = true
			return m, m.submit()
		case "esc", "ctrl+l":
			return m, navigate(screenLogin)
		}
	}
	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m registerModel) submit() tea.Cmd {
	ctx, acct := m.ctx, m.acct
	username, email, password := m.form.value(0), m.form.value(1), m.form.value(2)
	return func() tea.Msg {
		return registerDoneMsg{err: acct.Register(ctx, username, email, password)}
	}
}

func registerFailure(err error) string {
	if model.IsError(err, model.ErrCodeValidation) {
		return err.Error()
	}
	if msg := model.ServerMessage(err); msg != "" {
		return msg
	}
	return "An error occurred"
}

func (m registerModel) view() string {
	t := theme()
	s := t.Title.Render("Create Account") + "\n" + t.Muted.Render("Sign up to get started") + "\n\n" + m.form.view()
	if m.busy {
		s += "\n\n" + t.Pending.Render("Registering...")
	}
	return s
}

func (m registerModel) help() string {
	return "enter: register • tab: next field • esc: already have an account? login"
}
