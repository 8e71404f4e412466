package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestEditRune(t *testing.T) {
	tests := []struct {
		name string
		text string
		key  string
		want string
	}{
		{"append", "ab", "c", "abc"},
		{"backspace", "abc", "backspace", "ab"},
		{"backspace multibyte", "añ", "backspace", "a"},
		{"backspace empty", "", "backspace", ""},
		{"ignore named key", "ab", "enter", "ab"},
		{"newline", "a", "\n", "a\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := editRune(tt.text, tt.key); got != tt.want {
				t.Errorf("editRune(%q, %q) = %q, want %q", tt.text, tt.key, got, tt.want)
			}
		})
	}
}

func TestEditRuneClampsLength(t *testing.T) {
	full := strings.Repeat("x", maxInputLen)
	if got := editRune(full, "y"); got != full {
		t.Error("input should be clamped at maxInputLen")
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("got %q", got)
	}
	if got := truncateToHeight(s, 10); got != s {
		t.Errorf("got %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("got %q", got)
	}
}

func TestFormNavigationAndSubmit(t *testing.T) {
	f := newForm(formField{label: "email"}, formField{label: "password", secret: true})

	for _, r := range "me@x.io" {
		f, _ = f.update(key(string(r)))
	}
	f, submit := f.update(tea.KeyMsg{Type: tea.KeyEnter})
	if submit || f.focus != 1 {
		t.Fatalf("enter on first field should advance, focus=%d submit=%v", f.focus, submit)
	}
	f, _ = f.update(key("pw"))
	f, _ = f.update(tea.KeyMsg{Type: tea.KeyBackspace})
	if f.value(1) != "p" {
		t.Errorf("password = %q", f.value(1))
	}
	if _, submit = f.update(tea.KeyMsg{Type: tea.KeyEnter}); !submit {
		t.Error("enter on last field should submit")
	}
	f, _ = f.update(tea.KeyMsg{Type: tea.KeyTab})
	if f.focus != 0 {
		t.Errorf("tab should wrap, focus=%d", f.focus)
	}
	f, _ = f.update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if f.focus != 1 {
		t.Errorf("shift+tab should wrap back, focus=%d", f.focus)
	}

	v := f.View()
	if !strings.Contains(v, "me@x.io") || strings.Contains(v, "password: p") {
		t.Errorf("secret field should be masked:\n%s", v)
	}

	f.clear()
	if f.value(0) != "" || f.value(1) != "" || f.focus != 0 {
		t.Error("clear should empty all fields")
	}
}

func TestFormMultiline(t *testing.T) {
	f := newForm(formField{label: "prompt", multiline: true})
	f, _ = f.update(key("a"))
	f, submit := f.update(tea.KeyMsg{Type: tea.KeyEnter})
	if submit {
		t.Fatal("enter in a multiline field should not submit")
	}
	f, _ = f.update(tea.KeyMsg{Type: tea.KeySpace})
	f, _ = f.update(key("b"))
	if f.value(0) != "a\n b" {
		t.Errorf("value = %q", f.value(0))
	}
	if _, submit = f.update(tea.KeyMsg{Type: tea.KeyCtrlS}); !submit {
		t.Error("ctrl+s should submit")
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	m := newLoginModel(testEnv(newFakeSession(false)))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || m.err != "email and password are required" {
		t.Errorf("err = %q", m.err)
	}
	m.pending = true
	if _, cmd := m.Update(key("x")); cmd != nil {
		t.Error("keys are ignored while pending")
	}
}
