package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColeHockerApps/pulsetimer/internal/pace"
)

func newPaceCmd(a *app) *cobra.Command {
	var (
		distance float64
		duration time.Duration
		units    string
	)
	cmd := &cobra.Command{
		Use:     "pace",
		Short:   "Compute pace and speed",
		Example: `  pulsetimer pace --distance 10 --duration 52m30s`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u := a.cfg.Units
			if units != "" {
				u = pace.ParseUnit(units)
			}
			km := distance
			if u == pace.Miles {
				km = pace.MilesToKm(distance)
			}
			sec := duration.Seconds()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Distance: %s\n", pace.FormatDistance(km, u))
			fmt.Fprintf(out, "Time:     %s\n", duration)
			fmt.Fprintf(out, "Pace:     %s\n", pace.FormatPaceUnit(pace.SecondsPerKm(km, sec), u))
			fmt.Fprintf(out, "Speed:    %s\n", pace.FormatSpeedUnit(pace.KmPerHour(km, sec), u))
			return nil
		},
	}
	cmd.Flags().Float64Var(&distance, "distance", 0, "distance in the configured unit")
	cmd.Flags().DurationVar(&duration, "duration", 0, "elapsed time, e.g. 25m or 1h02m")
	cmd.Flags().StringVar(&units, "units", "", "km or mi (default from config)")
	return cmd
}
