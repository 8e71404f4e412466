package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/agentui/agentui/pkg/domain"
)

const (
	thinkingInterval   = 500 * time.Millisecond
	typewriterInterval = 30 * time.Millisecond
)

type modelsLoadedMsg struct {
	models []string
	err    error
}

// chatAnsweredMsg and the tick messages carry the conversation id and the
// question sequence number. Messages from a closed chat or an earlier
// question are dropped.
type chatAnsweredMsg struct {
	session string
	seq     int
	answer  string
	err     error
}

type thinkingTickMsg struct {
	session string
	seq     int
}

type typewriterTickMsg struct {
	session string
	seq     int
}

// chatModel is the "try it" harness for one chatbot.
type chatModel struct {
	env       env
	chatbotID string
	session   string // conversation id, tags log lines
	models    []string
	selected  int
	rag       bool
	question  string
	asked     string
	seq       int
	pending   bool
	dots      int
	answer    []rune
	shown     int // runes of answer revealed so far
	err       string
	closed    bool
}

func newChatModel(e env, chatbotID string) chatModel {
	return chatModel{
		env:       e,
		chatbotID: chatbotID,
		session:   uuid.NewString(),
		rag:       true,
	}
}

func (m chatModel) Init() tea.Cmd {
	e := m.env
	return func() tea.Msg {
		list, err := e.client().ListModels(context.Background())
		if err != nil {
			e.log.Warn().Err(err).Msg("load models")
			return modelsLoadedMsg{err: err}
		}
		var names []string
		for _, md := range list {
			if md.IsActive {
				names = append(names, md.ModelName)
			}
		}
		return modelsLoadedMsg{models: names}
	}
}

func (m chatModel) model() string {
	if m.selected < len(m.models) {
		return m.models[m.selected]
	}
	return ""
}

func (m chatModel) current(session string, seq int) bool {
	return session == m.session && seq == m.seq
}

func (m chatModel) Update(msg tea.Msg) (chatModel, tea.Cmd) {
	switch msg := msg.(type) {
	case modelsLoadedMsg:
		if msg.err != nil {
			m.err = "Failed to load available models."
			return m, nil
		}
		m.models = msg.models
		m.selected = 0

	case thinkingTickMsg:
		if !m.current(msg.session, msg.seq) || !m.pending {
			return m, nil
		}
		m.dots = (m.dots + 1) % 4
		return m, thinkingTick(m.session, m.seq)

	case chatAnsweredMsg:
		if !m.current(msg.session, msg.seq) {
			return m, nil
		}
		m.pending = false
		m.dots = 0
		if msg.err != nil {
			m.err = "Failed to get answer."
			return m, nil
		}
		m.answer = []rune(msg.answer)
		m.shown = 0
		if len(m.answer) == 0 {
			return m, nil
		}
		return m, typewriterTick(m.session, m.seq)

	case typewriterTickMsg:
		if !m.current(msg.session, msg.seq) || m.shown >= len(m.answer) {
			return m, nil
		}
		m.shown++
		if m.shown < len(m.answer) {
			return m, typewriterTick(m.session, m.seq)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m chatModel) handleKey(msg tea.KeyMsg) (chatModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closed = true
	case "tab":
		if len(m.models) > 0 {
			m.selected = (m.selected + 1) % len(m.models)
		}
	case "shift+tab":
		if len(m.models) > 0 {
			m.selected = (m.selected - 1 + len(m.models)) % len(m.models)
		}
	case "ctrl+r":
		m.rag = !m.rag
	case "enter":
		return m.ask()
	case "backspace":
		m.question = editRune(m.question, "backspace")
	default:
		switch msg.Type {
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				m.question = editRune(m.question, string(r))
			}
		case tea.KeySpace:
			m.question = editRune(m.question, " ")
		}
	}
	return m, nil
}

func (m chatModel) ask() (chatModel, tea.Cmd) {
	q := strings.TrimSpace(m.question)
	if q == "" || m.pending {
		return m, nil
	}
	m.seq++
	m.pending = true
	m.dots = 0
	m.err = ""
	m.answer = nil
	m.shown = 0
	m.asked = q
	m.question = ""

	e, seq := m.env, m.seq
	req := domain.ChatRequest{
		ChatbotID:   m.chatbotID,
		Question:    q,
		LLMModel:    m.model(),
		UseVectorDB: m.rag,
	}
	session := m.session
	return m, tea.Batch(thinkingTick(session, seq), func() tea.Msg {
		answer, err := e.client().Chat(context.Background(), req)
		if err != nil {
			e.log.Warn().Err(err).Str("chat_session", session).Msg("chat")
		} else {
			e.log.Debug().Str("chat_session", session).Str("chatbot", req.ChatbotID).Msg("chat answered")
		}
		return chatAnsweredMsg{session: session, seq: seq, answer: answer, err: err}
	})
}

func thinkingTick(session string, seq int) tea.Cmd {
	return tea.Tick(thinkingInterval, func(time.Time) tea.Msg {
		return thinkingTickMsg{session: session, seq: seq}
	})
}

func typewriterTick(session string, seq int) tea.Cmd {
	return tea.Tick(typewriterInterval, func(time.Time) tea.Msg {
		return typewriterTickMsg{session: session, seq: seq}
	})
}

func (m chatModel) View() string {
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Try "+m.chatbotID) + "  " + metaStyle.Render("session "+m.session[:8]) + "\n\n")

	modelLabel := dimStyle.Render("no active models")
	if name := m.model(); name != "" {
		modelLabel = accentStyle.Render(name)
	}
	ragLabel := dimStyle.Render("off")
	if m.rag {
		ragLabel = successStyle.Render("on")
	}
	b.WriteString(" " + metaStyle.Render("model ") + modelLabel + "   " + metaStyle.Render("rag ") + ragLabel + "\n\n")

	if m.asked != "" {
		b.WriteString(" " + selectedStyle.Render("Q: ") + normalStyle.Render(m.asked) + "\n")
	}
	switch {
	case m.pending:
		b.WriteString(" " + accentStyle.Render("🤖 Thinking"+strings.Repeat(".", m.dots)) + "\n")
	case m.err != "":
		b.WriteString(" " + errorStyle.Render(m.err) + "\n")
	case len(m.answer) > 0:
		b.WriteString(" " + selectedStyle.Render("A: ") + normalStyle.Render(m.answerText()) + "\n")
	}

	b.WriteString("\n " + inputPromptStyle.Render("> "))
	if m.question == "" {
		b.WriteString(inputPlaceholderStyle.Render("ask a question..."))
	} else {
		b.WriteString(m.question)
	}
	b.WriteString(accentStyle.Render("█") + "\n")
	return b.String()
}

func (m chatModel) helpKeys() string {
	return helpBar("enter", "ask", "tab", "model", "ctrl+r", "rag", "esc", "close")
}

// answerText returns the part of the answer revealed so far.
func (m chatModel) answerText() string {
	if m.shown > len(m.answer) {
		return string(m.answer)
	}
	return string(m.answer[:m.shown])
}
