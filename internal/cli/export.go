package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ColeHockerApps/pulsetimer/internal/export"
	"github.com/ColeHockerApps/pulsetimer/internal/store"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format  string
		outPath string
		kind    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export cardio logs as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			logs, err := a.store.ListCardioLogs(store.CardioFilter{Kind: kind})
			if err != nil {
				return err
			}

			switch format {
			case "csv":
				if outPath == "" {
					return export.WriteCSV(cmd.OutOrStdout(), logs, a.cfg.Units)
				}
				err = export.ToCSV(logs, a.cfg.Units, outPath)
			case "json":
				if outPath == "" {
					return export.WriteJSON(cmd.OutOrStdout(), logs, a.cfg.Units)
				}
				err = export.ToJSON(logs, a.cfg.Units, outPath)
			default:
				return fmt.Errorf("unknown format %q (want csv or json)", format)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d logs to %s\n", len(logs), outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVar(&kind, "kind", "", "only export this activity kind")
	return cmd
}
