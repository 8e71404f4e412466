package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentui/agentui/internal/route"
	"github.com/agentui/agentui/pkg/domain"
)

func loadedDashboard(t *testing.T, bots []domain.Chatbot, total int) dashboardModel {
	t.Helper()
	m := newDashboardModel(testEnv(newFakeSession(true, domain.ScreenDashboard)))
	m.width = 100
	m, _ = m.Update(chatbotsLoadedMsg{page: &domain.ChatbotPage{Chatbots: bots, Total: total, Page: 1}})
	return m
}

var testBots = []domain.Chatbot{
	{ChatbotID: "support", Description: "Answers customer questions"},
	{ChatbotID: "sales", Description: "Qualifies leads"},
	{ChatbotID: "docs", Description: "Searches the developer docs"},
}

func TestDashboardAccessDenied(t *testing.T) {
	m := newDashboardModel(testEnv(newFakeSession(true)))
	if m.Init() != nil {
		t.Error("denied dashboard should not load")
	}
	if !strings.Contains(m.View(), "Access denied") {
		t.Errorf("expected access-denied view, got:\n%s", m.View())
	}
	m, cmd := m.Update(key("n"))
	if cmd != nil || m.mode != dashList {
		t.Error("denied dashboard should ignore keys")
	}
}

func TestDashboardDemoFallback(t *testing.T) {
	m := newDashboardModel(testEnv(newFakeSession(true, domain.ScreenDashboard)))
	m, _ = m.Update(chatbotsLoadedMsg{err: errors.New("connection refused")})
	if !m.demo {
		t.Fatal("expected demo mode")
	}
	if len(m.visible()) != len(domain.DemoChatbots) {
		t.Errorf("expected %d demo chatbots, got %d", len(domain.DemoChatbots), len(m.visible()))
	}
	view := m.View()
	if !strings.Contains(view, "demo data") || !strings.Contains(view, "cb_001") {
		t.Errorf("expected labelled demo data, got:\n%s", view)
	}
	if m.canPage() {
		t.Error("demo data should not page")
	}
}

func TestDashboardSearch(t *testing.T) {
	m := loadedDashboard(t, testBots, 3)
	m, _ = m.Update(key("/"))
	if m.mode != dashSearch {
		t.Fatal("expected search mode")
	}
	for _, r := range "LEAD" {
		m, _ = m.Update(key(string(r)))
	}
	v := m.visible()
	if len(v) != 1 || v[0].ChatbotID != "sales" {
		t.Fatalf("expected only sales, got %+v", v)
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.mode != dashList || m.search != "LEAD" {
		t.Errorf("enter should keep the term, got mode=%d search=%q", m.mode, m.search)
	}
	m, _ = m.Update(key("/"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.search != "" || len(m.visible()) != 3 {
		t.Error("esc should clear the search")
	}
}

func TestDashboardPaging(t *testing.T) {
	m := loadedDashboard(t, testBots, 20) // perPage 9 -> 3 pages
	if !m.canPage() {
		t.Fatal("expected pager")
	}
	m, cmd := m.Update(key("]"))
	if cmd == nil || m.page != 2 {
		t.Fatalf("expected page 2 load, got page %d", m.page)
	}
	m, _ = m.Update(key("]"))
	m, cmd = m.Update(key("]"))
	if cmd != nil || m.page != 3 {
		t.Errorf("should stop at last page, got %d", m.page)
	}
	m, _ = m.Update(key("["))
	if m.page != 2 {
		t.Errorf("expected page 2, got %d", m.page)
	}
	if !strings.Contains(m.View(), "page 2 of 3") {
		t.Errorf("expected pager line, got:\n%s", m.View())
	}
}

func TestDashboardCursorAndDialogs(t *testing.T) {
	m := loadedDashboard(t, testBots, 3)
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j"))
	if m.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.cursor)
	}

	d, _ := m.Update(key("d"))
	if d.mode != dashDelete || d.del.id != "docs" {
		t.Errorf("expected delete dialog for docs, got mode=%d id=%q", d.mode, d.del.id)
	}
	d, _ = d.Update(key("n"))
	if d.mode != dashList {
		t.Error("n should close the delete dialog")
	}

	c, _ := m.Update(key("n"))
	if c.mode != dashCreate || !c.editing() {
		t.Error("expected create dialog")
	}
	c, _ = c.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if c.mode != dashList {
		t.Error("esc should close the create dialog")
	}

	_, cmd := m.Update(key("t"))
	if cmd == nil {
		t.Fatal("expected train navigation")
	}
	if nm, ok := cmd().(navigateMsg); !ok || nm.path != route.TrainPath("docs") {
		t.Errorf("unexpected train navigation %#v", nm)
	}
}

func TestDashboardEmptyList(t *testing.T) {
	m := loadedDashboard(t, nil, 0)
	if !strings.Contains(m.View(), "no chatbots yet") {
		t.Errorf("expected empty state, got:\n%s", m.View())
	}
	if _, cmd := m.Update(key("c")); cmd != nil {
		t.Error("chat needs a selected chatbot")
	}
}

func TestDashboardReopenedChatIgnoresEarlierAnswer(t *testing.T) {
	m := loadedDashboard(t, testBots, 3)
	m, _ = m.Update(key("c"))
	if m.mode != dashChat || m.chat.chatbotID != "support" {
		t.Fatalf("expected chat on support, got mode=%d id=%q", m.mode, m.chat.chatbotID)
	}
	for _, r := range "old" {
		m, _ = m.Update(key(string(r)))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	closed := m.chat.session
	closedSeq := m.chat.seq
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.mode != dashList {
		t.Fatal("esc should close the chat")
	}

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("c"))
	if m.chat.chatbotID != "sales" {
		t.Fatalf("expected chat on sales, got %q", m.chat.chatbotID)
	}
	for _, r := range "new" {
		m, _ = m.Update(key(string(r)))
	}
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.chat.seq != closedSeq {
		t.Fatalf("sequence numbers should collide for this case, got %d and %d", m.chat.seq, closedSeq)
	}

	m, cmd := m.Update(chatAnsweredMsg{session: closed, seq: closedSeq, answer: "from support"})
	if cmd != nil || !m.chat.pending || len(m.chat.answer) != 0 {
		t.Errorf("answer from the closed chat leaked into sales: pending=%v answer=%q", m.chat.pending, string(m.chat.answer))
	}
	if strings.Contains(m.View(), "from support") {
		t.Error("view shows the earlier chat's answer")
	}
}
