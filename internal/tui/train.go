package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentui/agentui/pkg/domain"
)

type csvUploadedMsg struct {
	message string
	err     error
}

type fieldValueAddedMsg struct {
	message    string
	documentID string
	err        error
}

type trainSection int

const (
	trainUpload trainSection = iota
	trainFieldValue
)

const (
	fvField = iota
	fvValue
)

type trainModel struct {
	env       env
	chatbotID string
	section   trainSection
	file      form
	pair      form
	pending   bool
	err       string
	status    string
}

func newTrainModel(e env, chatbotID string) trainModel {
	return trainModel{
		env:       e,
		chatbotID: chatbotID,
		file:      newForm(formField{label: "csv file"}),
		pair: newForm(
			formField{label: "field"},
			formField{label: "value", multiline: true},
		),
	}
}

func (m trainModel) Init() tea.Cmd {
	return nil
}

func (m trainModel) Update(msg tea.Msg) (trainModel, tea.Cmd) {
	switch msg := msg.(type) {
	case csvUploadedMsg:
		m.pending = false
		if msg.err != nil {
			m.err = "Failed to upload CSV file."
			if isLocalFileError(msg.err) {
				m.err = msg.err.Error()
			}
			return m, nil
		}
		m.status = msg.message
		m.file.clear()

	case fieldValueAddedMsg:
		m.pending = false
		if msg.err != nil {
			m.err = "Failed to train model."
			return m, nil
		}
		m.status = msg.message
		if msg.documentID != "" {
			m.status += " (document " + msg.documentID + ")"
		}
		m.pair.clear()

	case tea.KeyMsg:
		if m.pending {
			return m, nil
		}
		if msg.String() == "ctrl+n" {
			m.section = (m.section + 1) % 2
			return m, nil
		}
		m.err, m.status = "", ""
		var submit bool
		if m.section == trainUpload {
			m.file, submit = m.file.update(msg)
			if submit {
				return m.upload()
			}
			return m, nil
		}
		m.pair, submit = m.pair.update(msg)
		if submit {
			return m.addFieldValue()
		}
	}
	return m, nil
}

// localFileError marks failures that happen before anything is sent.
type localFileError struct{ error }

func isLocalFileError(err error) bool {
	var lfe localFileError
	return errors.As(err, &lfe)
}

func (m trainModel) upload() (trainModel, tea.Cmd) {
	path := strings.TrimSpace(m.file.value(0))
	if path == "" {
		m.err = "Please select a CSV file."
		return m, nil
	}
	if !strings.EqualFold(filepath.Ext(path), ".csv") {
		m.err = "Please select a valid CSV file."
		return m, nil
	}
	m.pending = true
	e, id := m.env, m.chatbotID
	return m, func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return csvUploadedMsg{err: localFileError{fmt.Errorf("open %s: %w", path, err)}}
		}
		defer f.Close() //nolint:errcheck // read-only
		message, err := e.client().UploadCSV(context.Background(), id, filepath.Base(path), f)
		if err != nil {
			e.log.Warn().Err(err).Str("chatbot", id).Msg("upload csv")
		}
		return csvUploadedMsg{message: message, err: err}
	}
}

func (m trainModel) addFieldValue() (trainModel, tea.Cmd) {
	fv := domain.FieldValue{
		ChatbotID: m.chatbotID,
		Field:     strings.TrimSpace(m.pair.value(fvField)),
		Value:     strings.TrimSpace(m.pair.value(fvValue)),
	}
	if fv.Field == "" || fv.Value == "" {
		m.err = "field and value are required"
		return m, nil
	}
	m.pending = true
	e := m.env
	return m, func() tea.Msg {
		resp, err := e.client().AddFieldValue(context.Background(), fv)
		if err != nil {
			e.log.Warn().Err(err).Str("chatbot", fv.ChatbotID).Msg("add field value")
			return fieldValueAddedMsg{err: err}
		}
		return fieldValueAddedMsg{message: resp.Message, documentID: resp.DocumentID}
	}
}

func (m trainModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Train "+m.chatbotID) + "\n\n")

	sections := []struct {
		title string
		s     trainSection
		body  string
	}{
		{"Upload CSV", trainUpload, m.file.View()},
		{"Add field / value", trainFieldValue, m.pair.View()},
	}
	for _, sec := range sections {
		if sec.s == m.section {
			b.WriteString(" " + accentStyle.Render("▸ "+sec.title) + "\n")
			b.WriteString(sec.body)
		} else {
			b.WriteString(" " + dimStyle.Render("  "+sec.title) + "\n")
		}
		b.WriteString("\n")
	}

	switch {
	case m.pending:
		b.WriteString(" " + dimStyle.Render("working...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	case m.status != "":
		b.WriteString(" " + successStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m trainModel) helpKeys() string {
	return helpBar("ctrl+n", "section", "tab", "field", "ctrl+s", "submit", "esc", "back")
}
