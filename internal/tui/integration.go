package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentui/agentui/pkg/domain"
)

type integrationKeysLoadedMsg struct {
	keys []domain.IntegrationKey
	err  error
}

type usageLoadedMsg struct {
	report []domain.UsageReport
	err    error
}

type integrationKeyCreatedMsg struct {
	message string
	err     error
}

type integrationModel struct {
	env      env
	allowed  bool
	keys     []domain.IntegrationKey
	usage    []domain.UsageReport
	cursor   int
	loading  bool
	creating bool
	err      string
	usageErr string
	status   string
	now      func() time.Time
}

func newIntegrationModel(e env) integrationModel {
	return integrationModel{
		env:     e,
		allowed: e.sess.HasPermission(domain.ScreenLeftMenuAPIKeys),
		now:     time.Now,
	}
}

func (m integrationModel) Init() tea.Cmd {
	if !m.allowed {
		return nil
	}
	return tea.Batch(m.loadKeys(), m.loadUsage())
}

func (m integrationModel) loadKeys() tea.Cmd {
	e := m.env
	return func() tea.Msg {
		keys, err := e.client().ListIntegrationKeys(context.Background())
		if err != nil {
			e.log.Warn().Err(err).Msg("list integration keys")
		}
		return integrationKeysLoadedMsg{keys: keys, err: err}
	}
}

func (m integrationModel) loadUsage() tea.Cmd {
	e := m.env
	return func() tea.Msg {
		report, err := e.client().UsageReport(context.Background())
		if err != nil {
			e.log.Warn().Err(err).Msg("usage report")
		}
		return usageLoadedMsg{report: report, err: err}
	}
}

// curlCommand is a ready-to-run request against the public chat endpoint
// authenticated with an integration key.
func curlCommand(apiURL, key string) string {
	base := strings.TrimRight(apiURL, "/")
	return fmt.Sprintf(`curl --location '%s/user/chat' \
  --header 'x-api-key: %s' \
  --header 'Content-Type: application/json' \
  --data '{
      "chatbot_id": "CHATBOT_ID",
      "question": "YOUR QUESTION",
      "llm_model": "MODEL_NAME",
      "use_vector_db": true
    }'`, base, key)
}

func (m integrationModel) Update(msg tea.Msg) (integrationModel, tea.Cmd) {
	if !m.allowed {
		return m, nil
	}
	switch msg := msg.(type) {
	case integrationKeysLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = "Failed to load integration keys."
			return m, nil
		}
		m.err = ""
		m.keys = msg.keys
		if m.cursor >= len(m.keys) {
			m.cursor = 0
		}

	case usageLoadedMsg:
		if msg.err != nil {
			m.usageErr = "Failed to load usage report."
			return m, nil
		}
		m.usageErr = ""
		m.usage = msg.report

	case integrationKeyCreatedMsg:
		m.creating = false
		if msg.err != nil {
			m.status = ""
			m.err = "Failed to create integration key."
			return m, nil
		}
		m.status = msg.message
		m.loading = true
		return m, m.loadKeys()

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = msg.what + " copied to clipboard"
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m integrationModel) handleKey(msg tea.KeyMsg) (integrationModel, tea.Cmd) {
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
	case "c":
		if m.cursor < len(m.keys) {
			return m, copyCmd("integration key", m.keys[m.cursor].IntegrationKey)
		}
	case "u":
		if m.cursor < len(m.keys) {
			return m, copyCmd("curl command", curlCommand(m.env.apiURL, m.keys[m.cursor].IntegrationKey))
		}
	case "n":
		if m.creating {
			return m, nil
		}
		m.creating = true
		e := m.env
		return m, func() tea.Msg {
			message, err := e.client().CreateIntegrationKey(context.Background())
			if err != nil {
				e.log.Warn().Err(err).Msg("create integration key")
			}
			return integrationKeyCreatedMsg{message: message, err: err}
		}
	case "r":
		m.loading = true
		return m, tea.Batch(m.loadKeys(), m.loadUsage())
	}
	return m, nil
}

func (m integrationModel) View() string {
	if !m.allowed {
		return accessDenied(domain.ScreenLeftMenuAPIKeys)
	}
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Integration keys") + "\n\n")

	switch {
	case m.loading && len(m.keys) == 0:
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	case len(m.keys) == 0:
		b.WriteString(" " + dimStyle.Render("no integration keys, press n to create one") + "\n")
	default:
		b.WriteString(metaStyle.Render(fmt.Sprintf("   %-24s  %-14s  %s", "key", "api quota", "token quota")) + "\n")
		for i, k := range m.keys {
			cursor := " "
			if i == m.cursor {
				cursor = accentStyle.Render("▸")
			}
			key := fmt.Sprintf("%-24s", truncStr(k.IntegrationKey, 24))
			if i == m.cursor {
				key = selectedStyle.Render(key)
			} else {
				key = normalStyle.Render(key)
			}
			api := quotaStyle(domain.Quota(k.APIQuotaLeft, k.TotalAPIQuota)).
				Render(fmt.Sprintf("%-14s", fmt.Sprintf("%d/%d", k.APIQuotaLeft, k.TotalAPIQuota)))
			tok := quotaStyle(domain.Quota(k.TokenQuotaLeft, k.TotalTokenQuota)).
				Render(fmt.Sprintf("%d/%d", k.TokenQuotaLeft, k.TotalTokenQuota))
			fmt.Fprintf(&b, " %s %s  %s  %s\n", cursor, key, api, tok)
		}
	}

	b.WriteString("\n " + titleStyle.Render("Usage") + "\n")
	switch {
	case m.usageErr != "":
		b.WriteString(" " + errorStyle.Render(m.usageErr) + "\n")
	case len(m.usage) == 0:
		b.WriteString(" " + dimStyle.Render("no usage yet") + "\n")
	default:
		now := m.now()
		b.WriteString(metaStyle.Render(fmt.Sprintf("   %-20s  %8s  %10s  %s", "chatbot", "hits", "tokens", "last used")) + "\n")
		for _, u := range m.usage {
			fmt.Fprintf(&b, "   %-20s  %8d  %10d  %s\n",
				truncStr(u.ChatbotID, 20), u.Hits, u.TokenUsed, formatStamp(u.LastUsedAt, now))
		}
	}

	switch {
	case m.creating:
		b.WriteString("\n " + dimStyle.Render("creating key...") + "\n")
	case m.status != "":
		b.WriteString("\n " + successStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m integrationModel) helpKeys() string {
	return helpBar("j/k", "nav", "c", "copy key", "u", "copy curl", "n", "new key", "r", "refresh", "L", "logout", "q", "quit")
}
