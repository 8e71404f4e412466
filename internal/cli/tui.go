package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentui/agentui/internal/logging"
	"github.com/agentui/agentui/internal/session"
	"github.com/agentui/agentui/internal/tui"
)

// runTUI opens the interactive console. It logs to the state dir log file
// because the program owns the terminal.
func runTUI(o *options) error {
	log, closer, err := logging.OpenFile(o.cfg.LogFile(), o.level)
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck

	nav := tui.NewNavigator()
	svc := o.newSession(log, session.WithNavigator(nav))
	log.Info().Str("api_url", o.cfg.APIURL).Bool("signed_in", svc.IsLoggedIn()).Msg("console start")

	app := tui.NewApp(tui.Options{
		Session:   svc,
		API:       o.api(),
		Navigator: nav,
		PerPage:   o.cfg.PerPage,
		Logger:    log,
	})
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}
