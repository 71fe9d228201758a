package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColeHockerApps/pulsetimer/internal/pace"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
)

const atLayout = "2006-01-02 15:04"

func newLogCmd(a *app) *cobra.Command {
	var (
		kind     string
		distance float64
		duration time.Duration
		at       string
		notes    string
		list     int
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Add a cardio log, or list recent ones",
		Example: `  pulsetimer log --distance 5 --duration 27m
  pulsetimer log --kind ride --distance 30 --duration 1h10m --at "2026-04-02 07:30"
  pulsetimer log --list 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			u := a.cfg.Units
			out := cmd.OutOrStdout()

			if list > 0 {
				logs, err := a.store.ListCardioLogs(store.CardioFilter{Kind: kind, Limit: list})
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "DATE\tKIND\tDISTANCE\tTIME\tPACE\tSPEED")
				for _, l := range logs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						l.StartedAt.Local().Format(atLayout), l.Kind,
						pace.FormatDistance(l.DistanceKm, u),
						time.Duration(l.DurationSec*float64(time.Second)).Round(time.Second),
						pace.FormatPaceUnit(pace.SecondsPerKm(l.DistanceKm, l.DurationSec), u),
						pace.FormatSpeedUnit(pace.KmPerHour(l.DistanceKm, l.DurationSec), u),
					)
				}
				return w.Flush()
			}

			if distance < 0 || duration < 0 {
				return fmt.Errorf("distance and duration must not be negative")
			}
			if distance == 0 && duration == 0 {
				return fmt.Errorf("nothing to log: set --distance or --duration")
			}

			start := time.Now()
			if at != "" {
				t, err := time.ParseInLocation(atLayout, at, time.Local)
				if err != nil {
					return fmt.Errorf("invalid --at %q (want %q): %w", at, atLayout, err)
				}
				start = t
			}

			km := distance
			if u == pace.Miles {
				km = pace.MilesToKm(distance)
			}
			l, err := a.store.AddCardioLog(store.CardioLog{
				Kind:        kind,
				StartedAt:   start,
				DistanceKm:  km,
				DurationSec: duration.Seconds(),
				Notes:       notes,
			})
			if err != nil {
				return err
			}

			if _, err := a.tracker.RefreshGoals(start); err != nil {
				return err
			}
			fmt.Fprintf(out, "Logged %s %s in %s (%s, %s)\n",
				l.Kind, pace.FormatDistance(l.DistanceKm, u), duration,
				pace.FormatPaceUnit(pace.SecondsPerKm(l.DistanceKm, l.DurationSec), u),
				pace.FormatSpeedUnit(pace.KmPerHour(l.DistanceKm, l.DurationSec), u),
			)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&kind, "kind", "", "run, walk, ride, row, swim or other (default run)")
	f.Float64Var(&distance, "distance", 0, "distance in the configured unit")
	f.DurationVar(&duration, "duration", 0, "elapsed time")
	f.StringVar(&at, "at", "", "start time as \"YYYY-MM-DD HH:MM\" (default now)")
	f.StringVar(&notes, "notes", "", "free-form notes")
	f.IntVar(&list, "list", 0, "list the N most recent logs instead of adding one")
	return cmd
}
