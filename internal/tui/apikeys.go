package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentui/agentui/pkg/domain"
)

type modelKeysLoadedMsg struct {
	keys []domain.ModelKey
	err  error
}

type modelKeyAddedMsg struct {
	message string
	err     error
}

// copiedMsg reports the result of a clipboard write.
type copiedMsg struct {
	what string
	err  error
}

func copyCmd(what, text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{what: what, err: clipboard.WriteAll(text)}
	}
}

const (
	keyModelName = iota
	keySecret
)

type apiKeysModel struct {
	env     env
	allowed bool
	keys    []domain.ModelKey
	visible map[int]bool
	cursor  int
	loading bool
	err     string
	adding  bool
	form    form
	pending bool
	formErr string
	status  string
}

func newAPIKeysModel(e env) apiKeysModel {
	return apiKeysModel{
		env:     e,
		allowed: e.sess.HasPermission(domain.ScreenLeftMenuAPIKeys),
		visible: make(map[int]bool),
	}
}

func (m apiKeysModel) Init() tea.Cmd {
	if !m.allowed {
		return nil
	}
	return m.load()
}

func (m apiKeysModel) load() tea.Cmd {
	e := m.env
	return func() tea.Msg {
		keys, err := e.client().ListModelKeys(context.Background())
		if err != nil {
			e.log.Warn().Err(err).Msg("list model keys")
		}
		return modelKeysLoadedMsg{keys: keys, err: err}
	}
}

func (m apiKeysModel) editing() bool {
	return m.adding
}

// displayedKey is the key as shown in row i: masked unless revealed.
func (m apiKeysModel) displayedKey(i int) string {
	k := m.keys[i].APIKey
	if m.visible[i] {
		return k
	}
	return domain.MaskSecret(k)
}

func (m apiKeysModel) Update(msg tea.Msg) (apiKeysModel, tea.Cmd) {
	if !m.allowed {
		return m, nil
	}
	switch msg := msg.(type) {
	case modelKeysLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = "Failed to load API keys. Please try again."
			return m, nil
		}
		m.err = ""
		m.keys = msg.keys
		m.visible = make(map[int]bool)
		if m.cursor >= len(m.keys) {
			m.cursor = 0
		}

	case modelKeyAddedMsg:
		m.pending = false
		if msg.err != nil {
			m.formErr = "Failed to add API key."
			return m, nil
		}
		m.adding = false
		m.status = msg.message
		m.loading = true
		return m, m.load()

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = msg.what + " copied to clipboard"
		}

	case tea.KeyMsg:
		if m.adding {
			return m.handleFormKey(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m apiKeysModel) handleKey(msg tea.KeyMsg) (apiKeysModel, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.keys)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "v":
		if m.cursor < len(m.keys) {
			m.visible[m.cursor] = !m.visible[m.cursor]
		}
	case "c":
		if m.cursor < len(m.keys) {
			return m, copyCmd("API key", m.keys[m.cursor].APIKey)
		}
	case "r":
		m.loading = true
		return m, m.load()
	case "n":
		m.adding = true
		m.formErr = ""
		m.form = newForm(
			formField{label: "model name"},
			formField{label: "api key", secret: true},
		)
	}
	return m, nil
}

func (m apiKeysModel) handleFormKey(msg tea.KeyMsg) (apiKeysModel, tea.Cmd) {
	if msg.String() == "esc" {
		m.adding = false
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
	name := strings.TrimSpace(m.form.value(keyModelName))
	key := strings.TrimSpace(m.form.value(keySecret))
	if name == "" || key == "" {
		m.formErr = "model name and api key are required"
		return m, nil
	}
	m.pending = true
	m.formErr = ""
	e := m.env
	return m, func() tea.Msg {
		message, err := e.client().AddModelKey(context.Background(), name, key)
		if err != nil {
			e.log.Warn().Err(err).Str("model", name).Msg("add model key")
		}
		return modelKeyAddedMsg{message: message, err: err}
	}
}

func (m apiKeysModel) View() string {
	if !m.allowed {
		return accessDenied(domain.ScreenLeftMenuAPIKeys)
	}
	var b strings.Builder
	if m.adding {
		b.WriteString("\n " + titleStyle.Render("Add API key") + "\n\n")
		b.WriteString(m.form.View())
		b.WriteString("\n")
		switch {
		case m.pending:
			b.WriteString(" " + dimStyle.Render("saving...") + "\n")
		case m.formErr != "":
			b.WriteString(" " + errorStyle.Render(m.formErr) + "\n")
		}
		return b.String()
	}

	b.WriteString("\n " + titleStyle.Render("Model API keys") + "\n\n")
	switch {
	case m.loading && len(m.keys) == 0:
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
		return b.String()
	case len(m.keys) == 0:
		b.WriteString(" " + dimStyle.Render("no API keys, press n to add one") + "\n")
		return b.String()
	}

	for i, k := range m.keys {
		cursor := " "
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
		}
		state := dimStyle.Render("inactive")
		if k.IsActive {
			state = successStyle.Render("active")
		}
		name := fmt.Sprintf("%-20s", truncStr(k.ModelName, 20))
		if i == m.cursor {
			name = selectedStyle.Render(name)
		} else {
			name = normalStyle.Render(name)
		}
		fmt.Fprintf(&b, " %s %s  %s  %s\n", cursor, name, dimStyle.Render(m.displayedKey(i)), state)
	}
	if m.status != "" {
		b.WriteString("\n " + successStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m apiKeysModel) helpKeys() string {
	if m.adding {
		return helpBar("tab", "field", "enter", "save", "esc", "cancel")
	}
	return helpBar("j/k", "nav", "v", "reveal", "c", "copy", "n", "add", "r", "refresh", "L", "logout", "q", "quit")
}
