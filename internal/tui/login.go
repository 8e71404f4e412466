package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentui/agentui/internal/route"
)

type loginResultMsg struct {
	err error
}

const (
	loginEmail = iota
	loginPassword
)

type loginModel struct {
	env     env
	form    form
	pending bool
	err     string
}

func newLoginModel(e env) loginModel {
	return loginModel{
		env: e,
		form: newForm(
			formField{label: "email"},
			formField{label: "password", secret: true},
		),
	}
}

func (m loginModel) Init() tea.Cmd {
	return nil
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginResultMsg:
		m.pending = false
		if msg.err != nil {
			m.err = msg.err.Error()
			m.form.set(loginPassword, "")
			m.form.focus = loginPassword
			return m, nil
		}
		m.err = ""
		return m, navigateTo(route.Dashboard)

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}
		var submit bool
		m.form, submit = m.form.update(msg)
		if submit {
			return m.submit()
		}
	}
	return m, nil
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	email := strings.TrimSpace(m.form.value(loginEmail))
	password := m.form.value(loginPassword)
	if email == "" || password == "" {
		m.err = "email and password are required"
		return m, nil
	}
	m.pending = true
	m.err = ""
	sess := m.env.sess
	return m, func() tea.Msg {
		return loginResultMsg{err: sess.Login(context.Background(), email, password)}
	}
}

func (m loginModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Sign in") + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	switch {
	case m.pending:
		b.WriteString(" " + dimStyle.Render("signing in...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	}
	return b.String()
}

func (m loginModel) helpKeys() string {
	return helpBar("tab", "next", "enter", "sign in", "ctrl+c", "quit")
}
