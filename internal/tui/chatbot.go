package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentui/agentui/internal/route"
	"github.com/agentui/agentui/pkg/domain"
)

// -- details / edit --

type chatbotDetailsLoadedMsg struct {
	details *domain.ChatbotDetails
	err     error
}

type chatbotSavedMsg struct {
	err error
}

const (
	detailsPrompt = iota
	detailsVectorPath
)

type detailsModel struct {
	env     env
	id      string
	details *domain.ChatbotDetails
	form    form
	loading bool
	saving  bool
	err     string
	status  string
	closed  bool
}

func newDetailsModel(e env, id string) detailsModel {
	return detailsModel{
		env:     e,
		id:      id,
		loading: true,
		form: newForm(
			formField{label: "prompt template", multiline: true},
			formField{label: "vector db path"},
		),
	}
}

func (m detailsModel) Init() tea.Cmd {
	e, id := m.env, m.id
	return func() tea.Msg {
		d, err := e.client().GetChatbot(context.Background(), id)
		if err != nil {
			e.log.Warn().Err(err).Str("chatbot", id).Msg("load chatbot details")
		}
		return chatbotDetailsLoadedMsg{details: d, err: err}
	}
}

func (m detailsModel) Update(msg tea.Msg) (detailsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatbotDetailsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = "Failed to load chatbot details."
			return m, nil
		}
		d := *msg.details
		if d.VectorDBPath == "" && d.VectorDBName != "" {
			d.VectorDBPath = d.VectorDBName
		}
		m.details = &d
		m.form.set(detailsPrompt, d.PromptTemplate)
		m.form.set(detailsVectorPath, d.VectorDBPath)

	case chatbotSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.err = "Failed to save changes."
			m.status = ""
		} else {
			m.err = ""
			m.status = "Changes saved."
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.closed = true
			return m, nil
		case "ctrl+t":
			return m, navigateTo(route.TrainPath(m.id))
		}
		if m.details == nil || m.saving {
			return m, nil
		}
		var submit bool
		m.form, submit = m.form.update(msg)
		if submit {
			return m.save()
		}
	}
	return m, nil
}

func (m detailsModel) save() (detailsModel, tea.Cmd) {
	d := *m.details
	d.PromptTemplate = m.form.value(detailsPrompt)
	d.VectorDBPath = strings.TrimSpace(m.form.value(detailsVectorPath))
	if d.VectorDBName == "" {
		d.VectorDBName = d.VectorDBPath
	}
	m.saving = true
	m.err, m.status = "", ""
	e := m.env
	return m, func() tea.Msg {
		err := e.client().UpdateChatbot(context.Background(), d)
		if err != nil {
			e.log.Warn().Err(err).Str("chatbot", d.ChatbotID).Msg("update chatbot")
		}
		return chatbotSavedMsg{err: err}
	}
}

func (m detailsModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Chatbot "+m.id) + "\n\n")
	if m.loading {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}
	if m.details != nil {
		if m.details.Description != "" {
			b.WriteString(" " + normalStyle.Render(oneLine(m.details.Description)) + "\n\n")
		}
		b.WriteString(m.form.View())
		b.WriteString("\n")
	}
	switch {
	case m.saving:
		b.WriteString(" " + dimStyle.Render("saving...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	case m.status != "":
		b.WriteString(" " + successStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m detailsModel) helpKeys() string {
	return helpBar("tab", "field", "ctrl+s", "save", "ctrl+t", "train", "esc", "close")
}

// -- delete --

type chatbotDeletedMsg struct {
	id  string
	err error
}

type deleteModel struct {
	env     env
	id      string
	pending bool
	err     string
	closed  bool
	deleted bool
}

func newDeleteModel(e env, id string) deleteModel {
	return deleteModel{env: e, id: id}
}

func (m deleteModel) Update(msg tea.Msg) (deleteModel, tea.Cmd) {
	switch msg := msg.(type) {
	case chatbotDeletedMsg:
		m.pending = false
		if msg.err != nil {
			m.err = "Failed to delete chatbot."
			return m, nil
		}
		m.deleted = true
		m.closed = true

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}
		switch msg.String() {
		case "y", "Y":
			m.pending = true
			m.err = ""
			e, id := m.env, m.id
			return m, func() tea.Msg {
				err := e.client().DeleteChatbot(context.Background(), id)
				if err != nil {
					e.log.Warn().Err(err).Str("chatbot", id).Msg("delete chatbot")
				}
				return chatbotDeletedMsg{id: id, err: err}
			}
		case "n", "N", "esc":
			m.closed = true
		}
	}
	return m, nil
}

func (m deleteModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + warnStyle.Render("Delete chatbot "+m.id+"?") + "\n\n")
	b.WriteString(" " + dimStyle.Render("This cannot be undone.") + "\n\n")
	switch {
	case m.pending:
		b.WriteString(" " + dimStyle.Render("deleting...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	}
	return b.String()
}

func (m deleteModel) helpKeys() string {
	return helpBar("y", "delete", "n", "cancel")
}
