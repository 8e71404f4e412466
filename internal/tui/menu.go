package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentui/agentui/internal/route"
	"github.com/agentui/agentui/pkg/domain"
)

// menuItem is a node of the side menu. Items with children are groups and
// only expand or collapse.
type menuItem struct {
	label    string
	path     string
	perm     string
	children []menuItem
}

var menuTree = []menuItem{
	{label: "Dashboard", path: route.Dashboard, perm: domain.ScreenLeftMenuDashboard},
	{label: "Configuration", perm: domain.ScreenLeftMenuConfig, children: []menuItem{
		{label: "API Keys", path: route.APIKeys, perm: domain.ScreenLeftMenuAPIKeys},
		{label: "Integration Keys", path: route.IntegrationKeys, perm: domain.ScreenLeftMenuAPIKeys},
	}},
	{label: "Admin", path: route.Admin, perm: domain.ScreenLeftMenuAdmin},
}

// menuEntry is a visible row of the menu.
type menuEntry struct {
	label string
	path  string
	depth int
	group bool
}

// permissionChecker is the part of Session the menu needs.
type permissionChecker interface {
	HasPermission(screen string) bool
}

type menuModel struct {
	granted  map[string]bool
	expanded bool
	current  string
}

// sync re-evaluates permissions and expansion for the route at path. The
// configuration group opens whenever one of its routes is active.
func (m menuModel) sync(p permissionChecker, path string) menuModel {
	m.granted = make(map[string]bool)
	var walk func(items []menuItem)
	walk = func(items []menuItem) {
		for _, it := range items {
			if _, seen := m.granted[it.perm]; !seen {
				m.granted[it.perm] = p.HasPermission(it.perm)
			}
			walk(it.children)
		}
	}
	walk(menuTree)
	m.current = path
	m.expanded = isConfigurationRoute(path)
	return m
}

func isConfigurationRoute(path string) bool {
	return strings.Contains(path, route.Configuration) || strings.Contains(path, route.IntegrationKeys)
}

// entries lists the rows the user may see, in display order.
func (m menuModel) entries() []menuEntry {
	var out []menuEntry
	for _, it := range menuTree {
		if !m.granted[it.perm] {
			continue
		}
		if len(it.children) == 0 {
			out = append(out, menuEntry{label: it.label, path: it.path})
			continue
		}
		out = append(out, menuEntry{label: it.label, group: true})
		if !m.expanded {
			continue
		}
		for _, c := range it.children {
			if m.granted[c.perm] {
				out = append(out, menuEntry{label: c.label, path: c.path, depth: 1})
			}
		}
	}
	return out
}

// activate handles the 1-based menu shortcut n.
func (m menuModel) activate(n int) (menuModel, tea.Cmd) {
	es := m.entries()
	if n < 1 || n > len(es) {
		return m, nil
	}
	e := es[n-1]
	if e.group {
		m.expanded = !m.expanded
		return m, nil
	}
	return m, navigateTo(e.path)
}

func (m menuModel) View() string {
	es := m.entries()
	if len(es) == 0 {
		return dimStyle.Render("no menu entries")
	}
	var b strings.Builder
	for i, e := range es {
		key := metaStyle.Render(fmt.Sprintf("%d", i+1))
		label := e.label
		if e.group {
			if m.expanded {
				label += " ▾"
			} else {
				label += " ▸"
			}
		}
		active := !e.group && e.path == m.current
		if e.group && isConfigurationRoute(m.current) {
			active = true
		}
		indent := strings.Repeat("  ", e.depth)
		if active {
			label = accentStyle.Render(label)
		} else {
			label = dimStyle.Render(label)
		}
		fmt.Fprintf(&b, "%s %s%s\n", key, indent, label)
	}
	return strings.TrimRight(b.String(), "\n")
}
