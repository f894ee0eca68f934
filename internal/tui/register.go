package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/taskdeck/internal/api"
)

type registerErrMsg struct {
	err string
}

type registerModel struct {
	name     textinput.Model
	email    textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	err      string
}

func newRegisterModel() registerModel {
	name := textinput.New()
	name.Prompt = "> "
	name.Placeholder = "name"
	name.CharLimit = 120

	email := textinput.New()
	email.Prompt = "> "
	email.Placeholder = "email"
	email.CharLimit = 120

	password := textinput.New()
	password.Prompt = "> "
	password.Placeholder = "password"
	password.CharLimit = 120
	password.EchoMode = textinput.EchoPassword

	return registerModel{name: name, email: email, password: password}
}

func (m *registerModel) focusCmd() tea.Cmd {
	return m.name.Focus()
}

func registerCmd(client *api.Client, name, email, password string) tea.Cmd {
	return func() tea.Msg {
		if err := client.Register(context.Background(), name, email, password); err != nil {
			var apiErr *api.APIError
			if errors.As(err, &apiErr) && apiErr.Message != "" {
				return registerErrMsg{err: apiErr.Message}
			}
			return registerErrMsg{err: "Registration failed. Try again later."}
		}
		return gotoLoginMsg{note: "You're registered! Log in to continue."}
	}
}

func (m registerModel) update(msg tea.Msg, client *api.Client) (registerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerErrMsg:
		m.busy = false
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "tab", "down":
			return m.setFocus((m.focus + 1) % 3)
		case "shift+tab", "up":
			return m.setFocus((m.focus + 2) % 3)
		case "enter":
			name := strings.TrimSpace(m.name.Value())
			email := strings.TrimSpace(m.email.Value())
			password := m.password.Value()
			if name == "" || email == "" || password == "" {
				m.err = "All fields are required"
				return m, nil
			}
			m.busy = true
			m.err = ""
			return m, registerCmd(client, name, email, password)
		case "ctrl+l", "esc":
			return m, func() tea.Msg { return gotoLoginMsg{} }
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case 0:
		m.name, cmd = m.name.Update(msg)
	case 1:
		m.email, cmd = m.email.Update(msg)
	default:
		m.password, cmd = m.password.Update(msg)
	}
	return m, cmd
}

func (m registerModel) setFocus(i int) (registerModel, tea.Cmd) {
	m.focus = i
	inputs := []*textinput.Model{&m.name, &m.email, &m.password}
	var cmd tea.Cmd
	for j, in := range inputs {
		if j == i {
			cmd = in.Focus()
		} else {
			in.Blur()
		}
	}
	return m, cmd
}

func (m registerModel) view() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Register") + "\n\n")
	b.WriteString(labelStyle.Render("Name") + "\n" + m.name.View() + "\n\n")
	b.WriteString(labelStyle.Render("Email") + "\n" + m.email.View() + "\n\n")
	b.WriteString(labelStyle.Render("Password") + "\n" + m.password.View() + "\n")
	if m.err != "" {
		b.WriteString("\n" + errorStyle.Render("✖ "+m.err) + "\n")
	}
	if m.busy {
		b.WriteString("\n" + mutedStyle.Render("Creating account…") + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("enter create account • tab switch field • esc back to login"))
	return panelString(b.String())
}
