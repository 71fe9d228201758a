// Package cli provides the command-line interface for pulsetimer.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ColeHockerApps/pulsetimer/internal/config"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
	"github.com/ColeHockerApps/pulsetimer/internal/tracker"
	"github.com/ColeHockerApps/pulsetimer/internal/tui"
)

// app is the state shared by one command invocation.
type app struct {
	cfgPath string
	dbPath  string

	cfg     config.Config
	store   *store.Store
	tracker *tracker.Tracker
	closers []func() error
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pulsetimer",
		Short: "pulsetimer - interval, breathing and cardio tracker",
		Long: `pulsetimer is a terminal fitness tracker: a work/rest interval timer,
a breathing timer, cardio logs with pace and speed, and daily goals.

Run without arguments to open the interactive dashboard.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			return tui.Run(a.tracker, a.cfg, a.cfgPath)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "config file (default: <data dir>/config.yaml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (overrides config)")

	root.AddCommand(
		newIntervalCmd(a),
		newBreathCmd(a),
		newPaceCmd(a),
		newLogCmd(a),
		newGoalsCmd(a),
		newPresetCmd(a),
		newExportCmd(a),
	)
	return root
}

// Execute runs the root command. An interrupt cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// setup loads the config and installs the file logger.
func (a *app) setup() error {
	if a.cfgPath == "" {
		a.cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	a.cfg = cfg

	closeLog, err := setupLogging(config.LogPath(), cfg.LogLevel)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, closeLog)
	return nil
}

// open opens the store for commands that need it.
func (a *app) open() error {
	if a.store != nil {
		return nil
	}
	s, err := store.New(a.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	a.store = s
	a.tracker = tracker.New(s)
	a.closers = append(a.closers, s.Close)
	return nil
}

func (a *app) close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	a.store = nil
	return first
}
