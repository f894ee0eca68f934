// Package tui is the Bubble Tea front end: a root model that routes
// between the public auth views and the protected dashboard, driven by
// the session state.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskdeck/internal/api"
	"github.com/idilsaglam/taskdeck/internal/config"
	"github.com/idilsaglam/taskdeck/internal/session"
)

// route is which top-level view is showing. There is no route for the
// bare root: it always resolves to login or dashboard.
type route int

const (
	routeHydrating route = iota
	routeLogin
	routeRegister
	routeDash
)

// hydratedMsg resolves the initial Hydrating state, exactly once.
type hydratedMsg struct {
	state session.State
}

// App is the root model. It owns the session and decides which view may
// render; the dashboard is never rendered unauthenticated, not even for a
// frame.
type App struct {
	sess   *session.Session
	client *api.Client

	route    route
	login    loginModel
	register registerModel
	dash     dashModel

	width, height int
}

// NewApp wires the root model. The session must still be in its initial
// state; hydration happens in Init.
func NewApp(cfg config.Config, sess *session.Session, client *api.Client) App {
	return App{
		sess:     sess,
		client:   client,
		route:    routeHydrating,
		login:    newLoginModel(),
		register: newRegisterModel(),
		dash:     newDashModel(client, cfg.PageSize),
	}
}

// Run starts the program and blocks until quit.
func Run(cfg config.Config, sess *session.Session, client *api.Client) error {
	p := tea.NewProgram(NewApp(cfg, sess, client), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (a App) Init() tea.Cmd {
	return func() tea.Msg {
		return hydratedMsg{state: a.sess.Hydrate()}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		var cmd tea.Cmd
		a.dash, cmd = a.dash.resize(msg.Width, msg.Height)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case hydratedMsg:
		if msg.state == session.Authenticated {
			return a.enterDash()
		}
		a.route = routeLogin
		return a, a.login.focusCmd()

	case loginDoneMsg:
		// token persists before the protected view may appear
		if err := a.sess.Login(msg.token); err != nil {
			a.login.busy = false
			a.login.err = err.Error()
			return a, nil
		}
		return a.enterDash()

	case gotoRegisterMsg:
		a.route = routeRegister
		a.register = newRegisterModel()
		return a, a.register.focusCmd()

	case gotoLoginMsg:
		a.route = routeLogin
		a.login = newLoginModel()
		a.login.note = msg.note
		return a, a.login.focusCmd()

	case loggedOutMsg:
		// route guard: session flipped, the dashboard goes away
		err := a.sess.Logout()
		a.route = routeLogin
		a.login = newLoginModel()
		if err != nil {
			a.login.err = "Logged out, but stored credentials could not be removed: " + err.Error()
		} else {
			a.login.note = "Logged out."
		}
		return a, a.login.focusCmd()
	}

	switch a.route {
	case routeLogin:
		var cmd tea.Cmd
		a.login, cmd = a.login.update(msg, a.client)
		return a, cmd
	case routeRegister:
		var cmd tea.Cmd
		a.register, cmd = a.register.update(msg, a.client)
		return a, cmd
	case routeDash:
		var cmd tea.Cmd
		a.dash, cmd = a.dash.update(msg)
		return a, cmd
	}
	return a, nil
}

// enterDash routes to the dashboard and kicks off its first fetch.
func (a App) enterDash() (tea.Model, tea.Cmd) {
	a.route = routeDash
	var cmd tea.Cmd
	a.dash, cmd = a.dash.enter(a.width, a.height)
	return a, cmd
}

func (a App) View() string {
	switch a.route {
	case routeHydrating:
		return centered(a.width, a.height, mutedStyle.Render("Checking authentication…"))
	case routeLogin:
		return centered(a.width, a.height, a.login.view())
	case routeRegister:
		return centered(a.width, a.height, a.register.view())
	case routeDash:
		return a.dash.view()
	}
	return ""
}
