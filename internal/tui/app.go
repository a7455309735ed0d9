// Package tui holds the interactive screens: login, register, todos, profile.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/idilsaglam/todo/internal/account"
	"github.com/idilsaglam/todo/internal/todo"
)

// Services are the session-scoped handles the screens work through.
type Services struct {
	Account *account.Service
	Todos   *todo.Store
	Logger  *zap.Logger
}

type screen int

const (
	screenBoot screen = iota
	screenLogin
	screenRegister
	screenTodos
	screenProfile
	screenNotFound
)

// parseScreen maps a screen name to a screen; unknown names land on not-found.
func parseScreen(name string) screen {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return screenBoot
	case "login":
		return screenLogin
	case "register":
		return screenRegister
	case "todos":
		return screenTodos
	case "profile":
		return screenProfile
	}
	return screenNotFound
}

type navigateMsg struct{ to screen }

type sessionMsg struct{ authenticated bool }

func navigate(to screen) tea.Cmd {
	return func() tea.Msg { return navigateMsg{to: to} }
}

// App is the root model. It owns navigation and the modal dialog.
type App struct {
	ctx   context.Context
	svc   Services
	start screen

	screen        screen
	width, height int
	boot          spinner.Model
	dialog        *dialog

	login    loginModel
	register registerModel
	todos    todosModel
	profile  profileModel
}

// New builds the root model. start is a screen name; "" picks one from the session.
func New(ctx context.Context, svc Services, start string) App {
	if svc.Logger == nil {
		svc.Logger = zap.NewNop()
	}
	boot := spinner.New()
	boot.Spinner = spinner.Dot
	return App{
		ctx:      ctx,
		svc:      svc,
		start:    parseScreen(start),
		screen:   screenBoot,
		boot:     boot,
		login:    newLoginModel(ctx, svc.Account),
		register: newRegisterModel(ctx, svc.Account),
		todos:    newTodosModel(ctx, svc.Todos),
		profile:  newProfileModel(ctx, svc.Account, svc.Todos),
	}
}

// Run starts the screens on the alternate screen and blocks until quit.
func Run(ctx context.Context, svc Services, start string) error {
	p := tea.NewProgram(New(ctx, svc, start), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (a App) Init() tea.Cmd {
	if a.start != screenBoot {
		return navigate(a.start)
	}
	acct := a.svc.Account
	return tea.Batch(a.boot.Tick, func() tea.Msg {
		return sessionMsg{authenticated: acct.Authenticated()}
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.todos = a.todos.setSize(msg.Width-4, msg.Height-8)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.dialog != nil {
			closed, cmd := a.dialog.handle(msg)
			if closed {
				a.dialog = nil
			}
			return a, cmd
		}
		return a.handleKey(msg)

	case showDialogMsg:
		d := msg.d
		a.dialog = &d
		return a, nil

	case sessionMsg:
		if msg.authenticated {
			return a.goTo(screenTodos)
		}
		return a.goTo(screenLogin)

	case navigateMsg:
		return a.goTo(msg.to)

	case spinner.TickMsg:
		if a.screen == screenBoot {
			var cmd tea.Cmd
			a.boot, cmd = a.boot.Update(msg)
			return a, cmd
		}
	}
	return a.broadcast(msg)
}

// handleKey routes keys to the active screen, after global navigation keys.
func (a App) handleKey(k tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.screen {
	case screenLogin:
		a.login, cmd = a.login.update(k)
	case screenRegister:
		a.register, cmd = a.register.update(k)
	case screenTodos:
		if k.String() == "tab" && !a.todos.capturingInput() {
			return a.goTo(screenProfile)
		}
		if k.String() == "q" && !a.todos.capturingInput() {
			return a, tea.Quit
		}
		a.todos, cmd = a.todos.update(k)
	case screenProfile:
		switch k.String() {
		case "tab":
			return a.goTo(screenTodos)
		case "q":
			return a, tea.Quit
		}
		a.profile, cmd = a.profile.update(k)
	case screenNotFound:
		switch k.String() {
		case "enter":
			return a, a.home()
		case "q", "esc":
			return a, tea.Quit
		}
	}
	return a, cmd
}

// broadcast hands non-key messages (results, blinks, ticks) to every screen;
// each ignores what is not addressed to it.
func (a App) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds [4]tea.Cmd
	a.login, cmds[0] = a.login.update(msg)
	a.register, cmds[1] = a.register.update(msg)
	a.todos, cmds[2] = a.todos.update(msg)
	a.profile, cmds[3] = a.profile.update(msg)
	return a, tea.Batch(cmds[:]...)
}

func (a App) goTo(to screen) (tea.Model, tea.Cmd) {
	a.svc.Logger.Debug("navigate", zap.Int("from", int(a.screen)), zap.Int("to", int(to)))
	a.screen = to
	var cmd tea.Cmd
	switch to {
	case screenLogin:
		a.login, cmd = a.login.enter()
	case screenRegister:
		a.register, cmd = a.register.enter()
	case screenTodos:
		a.todos, cmd = a.todos.enter()
	case screenProfile:
		a.profile, cmd = a.profile.enter()
	}
	return a, cmd
}

func (a App) home() tea.Cmd {
	acct := a.svc.Account
	return func() tea.Msg {
		return sessionMsg{authenticated: acct.Authenticated()}
	}
}

func (a App) View() string {
	if a.dialog != nil {
		return a.dialog.view(a.width, a.height)
	}

	t := theme()
	var body, help string
	switch a.screen {
	case screenBoot:
		body = a.boot.View() + " Loading..."
	case screenLogin:
		body, help = a.login.view(), a.login.help()
	case screenRegister:
		body, help = a.register.view(), a.register.help()
	case screenTodos:
		body, help = a.tabs()+"\n\n"+a.todos.view(), a.todos.help()
	case screenProfile:
		body, help = a.tabs()+"\n\n"+a.profile.view(), a.profile.help()
	case screenNotFound:
		body = t.Title.Render("Page Not Found") + "\n\n" +
			"Oops! This page doesn't exist.\n\n" +
			t.Accent.Render("enter") + " Go back to the home screen"
		help = "q: quit"
	}
	if help != "" {
		body += "\n\n" + helpLine(help)
	}
	return boxStyle().Render(body)
}

func (a App) tabs() string {
	t := theme()
	todos, profile := t.Muted.Render(" Todos "), t.Muted.Render(" Profile ")
	if a.screen == screenTodos {
		todos = t.Selected.Render(" Todos ")
	} else {
		profile = t.Selected.Render(" Profile ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, todos, "  ", profile)
}
