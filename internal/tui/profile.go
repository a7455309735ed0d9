package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todo/internal/account"
	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/todo"
)

type profileLoadedMsg struct {
	profile *model.Profile
	err     error
}

type loggedOutMsg struct {
	cleared bool
	err     error
}

type profileModel struct {
	ctx     context.Context
	acct    *account.Service
	todos   *todo.Store
	spinner spinner.Model
	loading bool
	profile *model.Profile
}

func newProfileModel(ctx context.Context, acct *account.Service, todos *todo.Store) profileModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme().Accent
	return profileModel{ctx: ctx, acct: acct, todos: todos, spinner: sp}
}

func (m profileModel) enter() (profileModel, tea.Cmd) {
	m.loading = true
	return m, tea.Batch(m.spinner.Tick, m.fetch())
}

func (m profileModel) fetch() tea.Cmd {
	ctx, acct := m.ctx, m.acct
	return func() tea.Msg {
		p, err := acct.Profile(ctx)
		return profileLoadedMsg{profile: p, err: err}
	}
}

func (m profileModel) logout() tea.Cmd {
	acct, todos := m.acct, m.todos
	return func() tea.Msg {
		cleared, err := acct.Logout()
		if err == nil {
			todos.Reset()
		}
		return loggedOutMsg{cleared: cleared, err: err}
	}
}

func (m profileModel) update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		// failures only show the empty state
		m.profile = msg.profile
		return m, nil

	case loggedOutMsg:
		if msg.err != nil {
			return m, alert("Logout", "Failed to log out: "+msg.err.Error(), nil)
		}
		m.profile = nil
		if !msg.cleared {
			return m, alert("Logout", "The token comes from TODO_TOKEN and stays active until you unset it.", navigate(screenLogin))
		}
		return m, navigate(screenLogin)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		switch msg.String() {
		case "l":
			return m, confirm("Logout", "Are you sure you want to logout?", m.logout())
		case "r":
			m.loading = true
			return m, tea.Batch(m.spinner.Tick, m.fetch())
		}
	}
	return m, nil
}

func (m profileModel) view() string {
	t := theme()
	if m.loading {
		return m.spinner.View() + " " + t.Accent.Render("Loading profile...")
	}
	if m.profile == nil {
		return t.Muted.Render("No profile data available")
	}
	card := t.Title.Render("Your Profile") + "\n" + t.Muted.Render("View your details") + "\n\n" +
		t.Accent.Render("Username:") + "\n" + m.profile.Username + "\n\n" +
		t.Accent.Render("Email:") + "\n" + m.profile.Email
	return boxStyle().Render(card)
}

func (m profileModel) help() string {
	return "l: log out • r: reload • tab: todos • q: quit"
}
