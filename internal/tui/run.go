package tui

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ColeHockerApps/pulsetimer/internal/config"
	"github.com/ColeHockerApps/pulsetimer/internal/tracker"
)

// Run starts the full-screen app and blocks until the user quits. Edits to
// the config file at cfgPath are applied while it runs.
func Run(tr *tracker.Tracker, cfg config.Config, cfgPath string) error {
	p := tea.NewProgram(NewApp(tr, cfg, cfgPath), tea.WithAltScreen())

	stop, err := config.Watch(cfgPath, func(c config.Config, err error) {
		p.Send(configChangedMsg{cfg: c, err: err})
	})
	if err != nil {
		slog.Warn("config_event", "event", "watch_failed", "path", cfgPath, "error", err)
	} else {
		defer stop()
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
