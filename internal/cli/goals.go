package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ColeHockerApps/pulsetimer/internal/goal"
	"github.com/ColeHockerApps/pulsetimer/internal/pace"
)

func newGoalsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goals",
		Short: "Show today's goals with progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			progress, err := a.tracker.RefreshGoals(time.Now())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(progress) == 0 {
				fmt.Fprintln(out, "No goals for today. Add one with: pulsetimer goals set --type distance --target 5")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTYPE\tPROGRESS\tTARGET\t\t")
			for _, p := range progress {
				typ := goal.Type(p.Goal.Type)
				mark := ""
				if p.Met {
					mark = "done"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s %3.0f%%\t%s\n",
					shortID(p.Goal.ID), p.Goal.Type,
					a.amount(typ, p.Goal.Progress), a.amount(typ, p.Goal.Target),
					bar(p.Percent, 20), p.Percent*100, mark)
			}
			return w.Flush()
		},
	}
	cmd.AddCommand(newGoalSetCmd(a), newGoalRmCmd(a), newCaloriesCmd(a), newExerciseCmd(a))
	return cmd
}

func newGoalSetCmd(a *app) *cobra.Command {
	var (
		typ    string
		target float64
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set a goal for today",
		Long:  "Set a goal for today. Types: duration (sec), distance (configured unit), exercises, calories (kcal), intervals.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := goal.ParseType(typ)
			if err != nil {
				return err
			}
			if target <= 0 {
				return fmt.Errorf("target must be positive")
			}
			if err := a.open(); err != nil {
				return err
			}
			if t == goal.TypeDistance && a.cfg.Units == pace.Miles {
				target = pace.MilesToKm(target)
			}
			g, err := a.tracker.SetGoal(t, target, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Goal %s: %s %s\n", shortID(g.ID), g.Type, a.amount(t, g.Target))
			return nil
		},
	}
	cmd.Flags().StringVar(&typ, "type", "", "goal type")
	cmd.Flags().Float64Var(&target, "target", 0, "target value")
	cmd.MarkFlagRequired("type")
	cmd.MarkFlagRequired("target")
	return cmd
}

func newGoalRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rm ID",
		Short: "Delete one of today's goals by id or id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			goals, err := a.store.ListGoals(time.Now())
			if err != nil {
				return err
			}
			for _, g := range goals {
				if strings.HasPrefix(g.ID, args[0]) {
					return a.store.DeleteGoal(g.ID)
				}
			}
			return fmt.Errorf("no goal %q today", args[0])
		},
	}
}

func newCaloriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "calories KCAL",
		Short: "Add calories burned today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kcal, err := strconv.ParseFloat(args[0], 64)
			if err != nil || kcal < 0 {
				return fmt.Errorf("invalid calories %q", args[0])
			}
			if err := a.open(); err != nil {
				return err
			}
			return a.tracker.AddCalories(time.Now(), kcal)
		},
	}
}

func newExerciseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exercise",
		Short: "Count one completed exercise today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			return a.tracker.CompleteExercise(time.Now())
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func (a *app) amount(t goal.Type, v float64) string {
	if t == goal.TypeDistance {
		return pace.FormatDistance(v, a.cfg.Units)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if u := t.Unit(); u != "" {
		return s + " " + u
	}
	return s
}

func bar(p float64, width int) string {
	n := int(p * float64(width))
	if n > width {
		n = width
	}
	if n < 0 {
		n = 0
	}
	return "[" + strings.Repeat("#", n) + strings.Repeat(".", width-n) + "]"
}
