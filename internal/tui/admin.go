package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentui/agentui/pkg/client"
	"github.com/agentui/agentui/pkg/domain"
)

// adminPerPage is the user list page size.
const adminPerPage = 10

type usersLoadedMsg struct {
	page *domain.UserPage
	err  error
}

type userCreatedMsg struct {
	email string
	err   error
}

const (
	newUserEmail = iota
	newUserPassword
)

type adminModel struct {
	env      env
	allowed  bool
	users    []domain.User
	total    int
	page     int
	cursor   int
	loading  bool
	err      string
	creating bool
	form     form
	pending  bool
	formErr  string
	status   string
	now      func() time.Time
}

func newAdminModel(e env) adminModel {
	return adminModel{
		env:     e,
		allowed: e.sess.HasPermission(domain.ScreenLeftMenuAdmin),
		page:    1,
		now:     time.Now,
	}
}

func (m adminModel) Init() tea.Cmd {
	if !m.allowed {
		return nil
	}
	return m.load(m.page)
}

func (m adminModel) load(page int) tea.Cmd {
	e := m.env
	return func() tea.Msg {
		p, err := e.client().ListUsers(context.Background(), page, adminPerPage)
		if err != nil {
			e.log.Warn().Err(err).Int("page", page).Msg("list users")
		}
		return usersLoadedMsg{page: p, err: err}
	}
}

func (m adminModel) editing() bool {
	return m.creating
}

func (m adminModel) Update(msg tea.Msg) (adminModel, tea.Cmd) {
	if !m.allowed {
		return m, nil
	}
	switch msg := msg.(type) {
	case usersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = "Failed to load users."
			return m, nil
		}
		m.err = ""
		m.users = msg.page.Users
		m.total = msg.page.Total
		if m.cursor >= len(m.users) {
			m.cursor = 0
		}

	case userCreatedMsg:
		m.pending = false
		if msg.err != nil {
			m.formErr = "Failed to create user."
			if sm := client.ServerMessage(msg.err); sm != "" {
				m.formErr = sm
			}
			return m, nil
		}
		m.creating = false
		m.status = "User created successfully!"
		m.loading = true
		return m, m.load(m.page)

	case tea.KeyMsg:
		if m.creating {
			return m.handleFormKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m adminModel) handleKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.users)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "]":
		if m.page < pageCount(m.total, adminPerPage) {
			m.page++
			m.loading = true
			return m, m.load(m.page)
		}
	case "left", "[":
		if m.page > 1 {
			m.page--
			m.loading = true
			return m, m.load(m.page)
		}
	case "r":
		m.loading = true
		return m, m.load(m.page)
	case "n":
		m.creating = true
		m.formErr = ""
		m.form = newForm(
			formField{label: "email"},
			formField{label: "password", secret: true},
		)
	}
	return m, nil
}

func (m adminModel) handleFormKey(msg tea.KeyMsg) (adminModel, tea.Cmd) {
	if msg.String() == "esc" {
		m.creating = false
		return m, nil
	}
	if m.pending {
		return m, nil
	}
	var submit bool
	m.form, submit = m.form.update(msg)
	if !submit {
		return m, nil
	}
	email := strings.TrimSpace(m.form.value(newUserEmail))
	password := m.form.value(newUserPassword)
	if email == "" || password == "" {
		m.formErr = "email and password are required"
		return m, nil
	}
	m.pending = true
	m.formErr = ""
	e := m.env
	return m, func() tea.Msg {
		err := e.client().RegisterUser(context.Background(), email, password)
		if err != nil {
			e.log.Warn().Err(err).Str("email", email).Msg("register user")
		}
		return userCreatedMsg{email: email, err: err}
	}
}

func (m adminModel) View() string {
	if !m.allowed {
		return accessDenied(domain.ScreenLeftMenuAdmin)
	}
	var b strings.Builder
	if m.creating {
		b.WriteString("\n " + titleStyle.Render("Create user") + "\n\n")
		b.WriteString(m.form.View())
		b.WriteString("\n")
		switch {
		case m.pending:
			b.WriteString(" " + dimStyle.Render("creating...") + "\n")
		case m.formErr != "":
			b.WriteString(" " + errorStyle.Render(m.formErr) + "\n")
		}
		return b.String()
	}

	b.WriteString("\n " + titleStyle.Render("Users") + "\n\n")
	switch {
	case m.loading && len(m.users) == 0:
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
		return b.String()
	case len(m.users) == 0:
		b.WriteString(" " + dimStyle.Render("no users") + "\n")
		return b.String()
	}

	header := fmt.Sprintf("   %-32s  %-14s  %-10s  %s", "email", "password", "created", "updated")
	b.WriteString(metaStyle.Render(header) + "\n")
	now := m.now()
	for i, u := range m.users {
		cursor := " "
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
		}
		row := fmt.Sprintf(" %s %-32s  %-14s  %-10s  %s", cursor,
			truncStr(u.Email, 32), u.MaskedPassword(),
			formatStamp(u.CreatedAt, now), formatStamp(u.UpdatedAt, now))
		if i == m.cursor {
			row = selectedStyle.Render(row)
		} else {
			row = normalStyle.Render(row)
		}
		b.WriteString(row + "\n")
	}
	b.WriteString("\n " + metaStyle.Render(fmt.Sprintf("page %d of %d · %d users", m.page, pageCount(m.total, adminPerPage), m.total)) + "\n")
	if m.status != "" {
		b.WriteString("\n " + successStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m adminModel) helpKeys() string {
	if m.creating {
		return helpBar("tab", "field", "enter", "create", "esc", "cancel")
	}
	return helpBar("j/k", "nav", "[/]", "page", "n", "new user", "r", "refresh", "L", "logout", "q", "quit")
}
