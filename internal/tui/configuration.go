package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentui/agentui/internal/route"
	"github.com/agentui/agentui/pkg/domain"
)

// configurationModel is the shell around the configuration pages. It
// gates on LEFT_MENU_DASHBOARD; its children add their own checks.
type configurationModel struct {
	allowed bool
	keys    bool
}

func newConfigurationModel(e env) configurationModel {
	return configurationModel{
		allowed: e.sess.HasPermission(domain.ScreenLeftMenuDashboard),
		keys:    e.sess.HasPermission(domain.ScreenLeftMenuAPIKeys),
	}
}

func (m configurationModel) Update(msg tea.Msg) (configurationModel, tea.Cmd) {
	if !m.allowed || !m.keys {
		return m, nil
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "a":
			return m, navigateTo(route.APIKeys)
		case "i":
			return m, navigateTo(route.IntegrationKeys)
		}
	}
	return m, nil
}

func (m configurationModel) View() string {
	if !m.allowed {
		return accessDenied(domain.ScreenLeftMenuDashboard)
	}
	var b strings.Builder
	b.WriteString("\n " + titleStyle.Render("Configuration") + "\n\n")
	if !m.keys {
		b.WriteString(" " + dimStyle.Render("nothing to configure with your permissions") + "\n")
		return b.String()
	}
	b.WriteString(" " + helpEntry("a", "model API keys") + "\n")
	b.WriteString(" " + helpEntry("i", "integration keys") + "\n")
	return b.String()
}

func (m configurationModel) helpKeys() string {
	return helpBar("a", "api keys", "i", "integration keys", "L", "logout", "q", "quit")
}
