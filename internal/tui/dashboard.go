package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentui/agentui/internal/route"
	"github.com/agentui/agentui/pkg/domain"
)

type chatbotsLoadedMsg struct {
	page *domain.ChatbotPage
	err  error
}

type dashMode int

const (
	dashList dashMode = iota
	dashSearch
	dashDetails
	dashDelete
	dashCreate
	dashChat
)

type dashboardModel struct {
	env      env
	allowed  bool
	chatbots []domain.Chatbot
	total    int
	page     int
	search   string
	cursor   int
	loading  bool
	demo     bool
	status   string
	mode     dashMode
	details  detailsModel
	del      deleteModel
	create   createModel
	chat     chatModel
	width    int
	height   int
}

func newDashboardModel(e env) dashboardModel {
	return dashboardModel{
		env:     e,
		allowed: e.sess.HasPermission(domain.ScreenDashboard),
		page:    1,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	if !m.allowed {
		return nil
	}
	return m.load(m.page)
}

func (m dashboardModel) load(page int) tea.Cmd {
	e := m.env
	return func() tea.Msg {
		p, err := e.client().ListChatbots(context.Background(), page, e.perPage)
		if err != nil {
			e.log.Warn().Err(err).Int("page", page).Msg("list chatbots, showing demo data")
		}
		return chatbotsLoadedMsg{page: p, err: err}
	}
}

// visible returns the chatbots matching the search term.
func (m dashboardModel) visible() []domain.Chatbot {
	if strings.TrimSpace(m.search) == "" {
		return m.chatbots
	}
	var out []domain.Chatbot
	for _, c := range m.chatbots {
		if c.Matches(m.search) {
			out = append(out, c)
		}
	}
	return out
}

func (m dashboardModel) selected() (domain.Chatbot, bool) {
	v := m.visible()
	if m.cursor < 0 || m.cursor >= len(v) {
		return domain.Chatbot{}, false
	}
	return v[m.cursor], true
}

// editing reports whether keys belong to an input or dialog.
func (m dashboardModel) editing() bool {
	return m.mode != dashList
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	if !m.allowed {
		return m, nil
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case chatbotsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.chatbots = domain.DemoChatbots
			m.total = len(domain.DemoChatbots)
			m.page = 1
			m.demo = true
		} else {
			m.chatbots = msg.page.Chatbots
			m.total = msg.page.Total
			if msg.page.Page > 0 {
				m.page = msg.page.Page
			}
			m.demo = false
		}
		if m.cursor >= len(m.visible()) {
			m.cursor = 0
		}
		return m, nil
	}

	var cmd tea.Cmd
	switch m.mode {
	case dashDetails:
		m.details, cmd = m.details.Update(msg)
		if m.details.closed {
			m.mode = dashList
		}
		return m, cmd
	case dashDelete:
		m.del, cmd = m.del.Update(msg)
		if m.del.closed {
			m.mode = dashList
			if m.del.deleted {
				m.status = "deleted " + m.del.id
				m.loading = true
				return m, m.load(m.page)
			}
		}
		return m, cmd
	case dashCreate:
		m.create, cmd = m.create.Update(msg)
		if m.create.closed {
			m.mode = dashList
			if m.create.created {
				m.status = m.create.status
				m.loading = true
				return m, m.load(m.page)
			}
		}
		return m, cmd
	case dashChat:
		m.chat, cmd = m.chat.Update(msg)
		if m.chat.closed {
			m.mode = dashList
		}
		return m, cmd
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		if m.mode == dashSearch {
			return m.handleSearchKey(key)
		}
		return m.handleKey(key)
	}
	return m, nil
}

func (m dashboardModel) handleSearchKey(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.search = ""
		m.mode = dashList
	case "enter":
		m.mode = dashList
	case "backspace":
		m.search = editRune(m.search, "backspace")
	default:
		switch msg.Type {
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				m.search = editRune(m.search, string(r))
			}
		case tea.KeySpace:
			m.search = editRune(m.search, " ")
		}
	}
	m.cursor = 0
	return m, nil
}

func (m dashboardModel) handleKey(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.visible())-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "/":
		m.mode = dashSearch
	case "right", "]":
		if m.canPage() && m.page < pageCount(m.total, m.env.perPage) {
			m.page++
			m.cursor = 0
			m.loading = true
			return m, m.load(m.page)
		}
	case "left", "[":
		if m.canPage() && m.page > 1 {
			m.page--
			m.cursor = 0
			m.loading = true
			return m, m.load(m.page)
		}
	case "r":
		m.loading = true
		return m, m.load(m.page)
	case "n":
		m.create = newCreateModel(m.env)
		m.mode = dashCreate
	case "enter", "e":
		if c, ok := m.selected(); ok {
			m.details = newDetailsModel(m.env, c.ChatbotID)
			m.mode = dashDetails
			return m, m.details.Init()
		}
	case "d":
		if c, ok := m.selected(); ok {
			m.del = newDeleteModel(m.env, c.ChatbotID)
			m.mode = dashDelete
		}
	case "c":
		if c, ok := m.selected(); ok {
			m.chat = newChatModel(m.env, c.ChatbotID)
			m.mode = dashChat
			return m, m.chat.Init()
		}
	case "t":
		if c, ok := m.selected(); ok {
			return m, navigateTo(route.TrainPath(c.ChatbotID))
		}
	}
	return m, nil
}

// canPage reports whether the pager is shown: more than one page and no
// search term narrowing the current page.
func (m dashboardModel) canPage() bool {
	return !m.demo && m.search == "" && m.total > m.env.perPage
}

func (m dashboardModel) View() string {
	if !m.allowed {
		return accessDenied(domain.ScreenDashboard)
	}
	switch m.mode {
	case dashDetails:
		return m.details.View()
	case dashDelete:
		return m.del.View()
	case dashCreate:
		return m.create.View()
	case dashChat:
		return m.chat.View()
	}

	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Chatbots"))
	if m.demo {
		b.WriteString("  " + warnStyle.Render("demo data, API unavailable"))
	}
	b.WriteString("\n")

	if m.mode == dashSearch || m.search != "" {
		b.WriteString(" " + inputPromptStyle.Render("/ ") + m.search)
		if m.mode == dashSearch {
			b.WriteString(accentStyle.Render("█"))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.loading && len(m.chatbots) == 0 {
		b.WriteString(" " + dimStyle.Render("loading...") + "\n")
		return b.String()
	}

	v := m.visible()
	if len(v) == 0 {
		if m.search != "" {
			b.WriteString(" " + dimStyle.Render("no chatbots match "+fmt.Sprintf("%q", m.search)) + "\n")
		} else {
			b.WriteString(" " + dimStyle.Render("no chatbots yet, press n to create one") + "\n")
		}
		return b.String()
	}

	descWidth := max(m.width-40, 20)
	for i, c := range v {
		cursor := " "
		id := normalStyle.Render(fmt.Sprintf("%-16s", truncStr(c.ChatbotID, 16)))
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			id = selectedStyle.Render(fmt.Sprintf("%-16s", truncStr(c.ChatbotID, 16)))
		}
		desc := dimStyle.Render(truncStr(oneLine(c.Description), descWidth))
		row := fmt.Sprintf(" %s %s  %s", cursor, id, desc)
		if i == m.cursor {
			row = selectedRowBg.Render(row)
		}
		b.WriteString(row + "\n")
	}

	if m.canPage() {
		b.WriteString("\n " + metaStyle.Render(fmt.Sprintf("page %d of %d · %d chatbots", m.page, pageCount(m.total, m.env.perPage), m.total)) + "\n")
	}
	if m.status != "" {
		b.WriteString("\n " + successStyle.Render(m.status) + "\n")
	}
	return b.String()
}

func (m dashboardModel) helpKeys() string {
	switch m.mode {
	case dashDetails:
		return m.details.helpKeys()
	case dashDelete:
		return m.del.helpKeys()
	case dashCreate:
		return m.create.helpKeys()
	case dashChat:
		return m.chat.helpKeys()
	case dashSearch:
		return helpBar("enter", "done", "esc", "clear")
	}
	if !m.allowed {
		return helpBar("L", "logout", "h", "help", "q", "quit")
	}
	return helpBar("j/k", "nav", "/", "search", "[/]", "page", "enter", "details",
		"c", "chat", "t", "train", "n", "new", "d", "delete", "L", "logout", "q", "quit")
}
