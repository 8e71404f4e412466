package tui

import tea "github.com/charmbracelet/bubbletea"

// navigateMsg asks the root model to switch to path.
type navigateMsg struct {
	path string
	// queued is set when the request came through a Navigator, which then
	// has to be waited on again.
	queued bool
}

func navigateTo(path string) tea.Cmd {
	return func() tea.Msg { return navigateMsg{path: path} }
}

// Navigator delivers navigation requests made outside the bubbletea loop
// (the session's post-logout redirect) to the running program.
type Navigator struct {
	ch chan string
}

// NewNavigator creates a Navigator.
func NewNavigator() *Navigator {
	return &Navigator{ch: make(chan string, 8)}
}

// Navigate queues path. It never blocks; when the queue is full the
// request is dropped.
func (n *Navigator) Navigate(path string) {
	select {
	case n.ch <- path:
	default:
	}
}

// wait blocks until a path is queued and turns it into a navigateMsg.
func (n *Navigator) wait() tea.Cmd {
	if n == nil {
		return nil
	}
	return func() tea.Msg {
		return navigateMsg{path: <-n.ch, queued: true}
	}
}
