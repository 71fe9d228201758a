package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ColeHockerApps/pulsetimer/internal/config"
)

// setupLogging points the default slog logger at a text log file, since the
// TUI owns the terminal.
func setupLogging(path, level string) (func() error, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	lvl, _ := config.ParseLevel(level)
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: lvl})))

	return func() error {
		slog.SetDefault(prev)
		return f.Close()
	}, nil
}
