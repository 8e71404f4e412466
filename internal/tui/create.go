package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentui/agentui/pkg/domain"
)

type chatbotCreatedMsg struct {
	message string
	err     error
}

const (
	createID = iota
	createVectorPath
	createPrompt
)

type createModel struct {
	env     env
	form    form
	pending bool
	err     string
	status  string
	closed  bool
	created bool
}

func newCreateModel(e env) createModel {
	f := newForm(
		formField{label: "chatbot id"},
		formField{label: "vector db path"},
		formField{label: "prompt template", multiline: true},
	)
	f.set(createPrompt, domain.DefaultPromptTemplate)
	return createModel{env: e, form: f}
}

func (m createModel) Update(msg tea.Msg) (createModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatbotCreatedMsg:
		m.pending = false
		if msg.err != nil {
			m.err = "Failed to create chatbot."
			return m, nil
		}
		m.status = msg.message
		m.created = true
		m.closed = true

	case tea.KeyMsg:
		if msg.String() == "esc" {
			m.closed = true
			return m, nil
		}
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

func (m createModel) submit() (createModel, tea.Cmd) {
	d := domain.ChatbotDetails{
		ChatbotID:      strings.TrimSpace(m.form.value(createID)),
		VectorDBPath:   strings.TrimSpace(m.form.value(createVectorPath)),
		PromptTemplate: m.form.value(createPrompt),
	}
	if d.ChatbotID == "" {
		m.err = "chatbot id is required"
		return m, nil
	}
	m.pending = true
	m.err = ""
	e := m.env
	return m, func() tea.Msg {
		message, err := e.client().CreateChatbot(context.Background(), d)
		if err != nil {
			e.log.Warn().Err(err).Str("chatbot", d.ChatbotID).Msg("create chatbot")
		}
		return chatbotCreatedMsg{message: message, err: err}
	}
}

func (m createModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("New chatbot") + "\n\n")
	b.WriteString(m.form.View())
	b.WriteString("\n")
	switch {
	case m.pending:
		b.WriteString(" " + dimStyle.Render("creating...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	}
	return b.String()
}

func (m createModel) helpKeys() string {
	return helpBar("tab", "field", "ctrl+s", "create", "esc", "cancel")
}
