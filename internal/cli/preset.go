package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColeHockerApps/pulsetimer/internal/phasetimer"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
	"github.com/ColeHockerApps/pulsetimer/internal/tracker"
)

func newPresetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage saved timer presets",
	}
	cmd.AddCommand(newPresetListCmd(a), newPresetAddCmd(a), newPresetRmCmd(a))
	return cmd
}

func newPresetListCmd(a *app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			presets, err := a.store.ListPresets(kind)
			if err != nil {
				return err
			}
			if len(presets) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No presets.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tKIND\tPHASES\tCYCLES\tTOTAL")
			for _, p := range presets {
				cfg := tracker.PresetConfig(p)
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Kind, presetPhases(p), p.Cycles, cfg.TotalPlanned())
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only list interval or breath presets")
	return cmd
}

func newPresetAddCmd(a *app) *cobra.Command {
	var (
		kind                         string
		work, rest                   time.Duration
		inhale, hold1, exhale, hold2 time.Duration
		cycles                       int
	)
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Save a preset",
		Example: `  pulsetimer preset add tabata --work 20s --rest 10s --cycles 8
  pulsetimer preset add calm --kind breath --inhale 4s --hold1 7s --exhale 8s --cycles 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			p := store.Preset{Name: args[0], Kind: kind, Cycles: cycles}
			switch phasetimer.Kind(kind) {
			case phasetimer.KindWorkRest:
				p.Work, p.Rest = secs(work), secs(rest)
			case phasetimer.KindBreath:
				p.Inhale, p.Hold1, p.Exhale, p.Hold2 = secs(inhale), secs(hold1), secs(exhale), secs(hold2)
			default:
				return fmt.Errorf("unknown preset kind %q (want interval or breath)", kind)
			}
			saved, err := a.store.CreatePreset(p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved preset %d %q (%s)\n", saved.ID, saved.Name, tracker.PresetConfig(*saved).TotalPlanned())
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&kind, "kind", string(phasetimer.KindWorkRest), "interval or breath")
	f.DurationVar(&work, "work", 30*time.Second, "work phase")
	f.DurationVar(&rest, "rest", 15*time.Second, "rest phase")
	f.DurationVar(&inhale, "inhale", 4*time.Second, "inhale phase")
	f.DurationVar(&hold1, "hold1", 4*time.Second, "hold after inhale")
	f.DurationVar(&exhale, "exhale", 4*time.Second, "exhale phase")
	f.DurationVar(&hold2, "hold2", 4*time.Second, "hold after exhale")
	f.IntVar(&cycles, "cycles", 8, "number of cycles")
	return cmd
}

func newPresetRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid preset id %q", args[0])
			}
			return a.store.DeletePreset(id)
		},
	}
}

// findPreset looks a preset up by name or id.
func findPreset(a *app, ref string, kind phasetimer.Kind) (*store.Preset, error) {
	presets, err := a.store.ListPresets(string(kind))
	if err != nil {
		return nil, err
	}
	for i, p := range presets {
		if p.Name == ref || strconv.FormatInt(p.ID, 10) == ref {
			return &presets[i], nil
		}
	}
	return nil, fmt.Errorf("no %s preset %q", kind, ref)
}

func presetPhases(p store.Preset) string {
	if p.Kind == string(phasetimer.KindBreath) {
		return fmt.Sprintf("%d-%d-%d-%d", p.Inhale, p.Hold1, p.Exhale, p.Hold2)
	}
	return fmt.Sprintf("%ds/%ds", p.Work, p.Rest)
}

func secs(d time.Duration) int { return int(d / time.Second) }
