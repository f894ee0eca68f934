package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskdeck/internal/api"
)

// loginDoneMsg carries a fresh access token up to the root model.
type loginDoneMsg struct {
	token string
}

type loginErrMsg struct {
	err string
}

// gotoRegisterMsg / gotoLoginMsg switch between the public views.
type gotoRegisterMsg struct{}

type gotoLoginMsg struct {
	note string
}

type loginModel struct {
	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	err      string
	note     string
}

func newLoginModel() loginModel {
	email := textinput.New()
	email.Prompt = "> "
	email.Placeholder = "email"
	email.CharLimit = 120

	password := textinput.New()
	password.Prompt = "> "
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword

	return loginModel{email: email, password: password}
}

func (m *loginModel) focusCmd() tea.Cmd {
	return m.email.Focus()
}

func loginCmd(client *api.Client, email, password string) tea.Cmd {
	return func() tea.Msg {
		token, err := client.Login(context.Background(), email, password)
		if err != nil {
			var apiErr *api.APIError
			if errors.As(err, &apiErr) && apiErr.Message != "" {
				return loginErrMsg{err: apiErr.Message}
			}
			return loginErrMsg{err: "Login failed. Try again later."}
		}
		return loginDoneMsg{token: token}
	}
}

func (m loginModel) update(msg tea.Msg, client *api.Client) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginErrMsg:
		m.busy = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			m.focus = (m.focus + 1) % 2
			if m.focus == 0 {
				m.password.Blur()
				return m, m.email.Focus()
			}
			m.email.Blur()
			return m, m.password.Focus()
		case "enter":
			email := strings.TrimSpace(m.email.Value())
			password := m.password.Value()
			if email == "" || password == "" {
				m.err = "Email and password are required"
				return m, nil
			}
			m.busy = true
			m.err = ""
			return m, loginCmd(client, email, password)
		case "ctrl+r":
			return m, func() tea.Msg { return gotoRegisterMsg{} }
		case "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	if m.focus == 0 {
		m.email, cmd = m.email.Update(msg)
	} else {
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m loginModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Login") + "\n\n")
	if m.note != "" {
		b.WriteString(successStyle.Render(m.note) + "\n\n")
	}
	b.WriteString(labelStyle.Render("Email") + "\n" + m.email.View() + "\n\n")
	b.WriteString(labelStyle.Render("Password") + "\n" + m.password.View() + "\n")
	if m.err != "" {
		b.WriteString("\n" + errorStyle.Render("✖ "+m.err) + "\n")
	}
	if m.busy {
		b.WriteString("\n" + mutedStyle.Render("Signing in…") + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter sign in • tab switch field • ctrl+r register • esc quit"))
	return panelString(b.String())
}
