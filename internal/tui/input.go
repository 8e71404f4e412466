package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 2000

// editRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// truncateToHeight limits output to maxLines newline-delimited lines.
// Returns the original string if it fits or maxLines is <= 0.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// formField is one labelled input of a form.
type formField struct {
	label     string
	value     string
	secret    bool // rendered as bullets
	multiline bool // enter inserts a newline
}

// form is a vertical list of text inputs with one focused field.
type form struct {
	fields []formField
	focus  int
}

func newForm(fields ...formField) form {
	return form{fields: fields}
}

// update applies a key to the form. It reports true when the user asked
// to submit: ctrl+s anywhere, or enter on the last single-line field.
func (f form) update(msg tea.KeyMsg) (form, bool) {
	if len(f.fields) == 0 {
		return f, false
	}
	cur := &f.fields[f.focus]
	switch msg.String() {
	case "ctrl+s":
		return f, true
	case "tab", "down":
		f.focus = (f.focus + 1) % len(f.fields)
	case "shift+tab", "up":
		f.focus = (f.focus - 1 + len(f.fields)) % len(f.fields)
	case "enter":
		if cur.multiline {
			cur.value = editRune(cur.value, "\n")
			return f, false
		}
		if f.focus == len(f.fields)-1 {
			return f, true
		}
		f.focus++
	case "backspace":
		cur.value = editRune(cur.value, "backspace")
	default:
		switch msg.Type {
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				cur.value = editRune(cur.value, string(r))
			}
		case tea.KeySpace:
			cur.value = editRune(cur.value, " ")
		}
	}
	return f, false
}

func (f form) value(i int) string {
	return f.fields[i].value
}

func (f *form) set(i int, v string) {
	f.fields[i].value = v
}

// clear empties every field and focuses the first.
func (f *form) clear() {
	for i := range f.fields {
		f.fields[i].value = ""
	}
	f.focus = 0
}

func (f form) View() string {
	width := 0
	for _, fl := range f.fields {
		width = max(width, len(fl.label))
	}
	var b strings.Builder
	for i, fl := range f.fields {
		cursor := " "
		style := metaStyle
		if i == f.focus {
			cursor = inputPromptStyle.Render(">")
			style = selectedStyle
		}
		v := fl.value
		if fl.secret {
			v = strings.Repeat("•", utf8.RuneCountInString(v))
		}
		if i == f.focus {
			v += accentStyle.Render("█")
		}
		label := style.Render(fmt.Sprintf("%-*s", width, fl.label))
		if fl.multiline {
			lines := strings.Split(v, "\n")
			fmt.Fprintf(&b, " %s %s: %s\n", cursor, label, lines[0])
			pad := strings.Repeat(" ", width+5)
			for _, l := range lines[1:] {
				b.WriteString(pad + l + "\n")
			}
			continue
		}
		fmt.Fprintf(&b, " %s %s: %s\n", cursor, label, v)
	}
	return b.String()
}
