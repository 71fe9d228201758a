package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColeHockerApps/pulsetimer/internal/phasetimer"
	"github.com/ColeHockerApps/pulsetimer/internal/tracker"
)

func newIntervalCmd(a *app) *cobra.Command {
	var (
		work, rest time.Duration
		cycles     int
		preset     string
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "interval",
		Short: "Run a work/rest interval timer",
		Long: `Run a work/rest interval timer in the terminal, printing every phase change.
Unset flags fall back to the saved defaults. No rest is played after the last work phase.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}

			cfg := a.tracker.IntervalConfig()
			if preset != "" {
				p, err := findPreset(a, preset, phasetimer.KindWorkRest)
				if err != nil {
					return err
				}
				cfg = tracker.PresetConfig(*p)
			}

			flags := cmd.Flags()
			if flags.Changed("work") || flags.Changed("rest") || flags.Changed("cycles") {
				if !flags.Changed("work") {
					work = cfg.Duration(phasetimer.PhaseWork)
				}
				if !flags.Changed("rest") {
					rest = cfg.Duration(phasetimer.PhaseRest)
				}
				if !flags.Changed("cycles") {
					cycles = cfg.Cycles
				}
				cfg = phasetimer.WorkRest(work, rest, cycles)
			}

			if save {
				err := a.tracker.SaveIntervalDefaults(
					int(cfg.Duration(phasetimer.PhaseWork)/time.Second),
					int(cfg.Duration(phasetimer.PhaseRest)/time.Second),
					cfg.Cycles,
				)
				if err != nil {
					return err
				}
			}
			return runTimer(cmd.Context(), a, cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().DurationVar(&work, "work", 30*time.Second, "work phase length")
	cmd.Flags().DurationVar(&rest, "rest", 15*time.Second, "rest phase length (0 for none)")
	cmd.Flags().IntVar(&cycles, "cycles", 8, "number of work phases")
	cmd.Flags().StringVar(&preset, "preset", "", "use a saved interval preset")
	cmd.Flags().BoolVar(&save, "save", false, "save these values as the defaults")
	return cmd
}

func newBreathCmd(a *app) *cobra.Command {
	var (
		pattern string
		preset  string
		cycles  int
	)

	cmd := &cobra.Command{
		Use:   "breath",
		Short: "Run a breathing timer",
		Long:  `Run a guided breathing timer. Patterns: box (4-4-4-4) and 478 (4-7-8).`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}

			cfg := a.tracker.BreathConfig()
			switch {
			case preset != "":
				p, err := findPreset(a, preset, phasetimer.KindBreath)
				if err != nil {
					return err
				}
				cfg = tracker.PresetConfig(*p)
			case pattern != "":
				c, ok := phasetimer.BreathPattern(pattern)
				if !ok {
					return fmt.Errorf("unknown breathing pattern %q (want box or 478)", pattern)
				}
				cfg = c
			}
			if cycles > 0 {
				cfg.Cycles = cycles
			}
			return runTimer(cmd.Context(), a, cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "breathing pattern: box or 478 (default: saved pattern)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a saved breathing preset")
	cmd.Flags().IntVar(&cycles, "cycles", 0, "override the number of breaths")
	return cmd
}

// runTimer plays cfg on a ticker-driven timer until it finishes or ctx is
// cancelled, and records the run as a session.
func runTimer(ctx context.Context, a *app, cfg phasetimer.Config, out io.Writer) error {
	id, err := a.tracker.BeginSession(cfg)
	if err != nil {
		return err
	}

	t := phasetimer.New(phasetimer.WithInterval(a.cfg.TickInterval))
	done := make(chan struct{})
	cancel := t.Subscribe(func(s phasetimer.State) {
		if !s.PhaseChanged {
			return
		}
		switch s.Status {
		case phasetimer.StatusRunning:
			fmt.Fprintln(out, phaseLine(s))
		case phasetimer.StatusFinished:
			fmt.Fprintf(out, "done: %d/%d cycles, %s\n", s.Cycles, s.Cycles, s.TotalPlanned)
			close(done)
		}
	})
	defer cancel()

	fmt.Fprintf(out, "%s: %d cycles, %s total\n", cfg.Kind, cfg.Cycles, cfg.TotalPlanned())
	t.Start(cfg)

	select {
	case <-done:
	case <-ctx.Done():
		t.Pause()
		fmt.Fprintln(out, "stopped")
	}

	st := t.Snapshot()
	t.Reset()
	return a.tracker.RecordSession(id, st)
}

func phaseLine(s phasetimer.State) string {
	return fmt.Sprintf("[%d/%d] %-6s %s", s.Cycle, s.Cycles, s.Phase, s.PhaseDuration.Round(time.Second))
}
