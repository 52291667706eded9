package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/modcatalog/internal/cmd/output"
	"github.com/agentstation/modcatalog/internal/cmd/table"
	"github.com/agentstation/modcatalog/internal/history"
)

// NewHistoryCommand creates the history command.
func (a *App) NewHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:     "history [run-id]",
		GroupID: "management",
		Short:   "List recorded update runs",
		Args:    cobra.MaximumNArgs(1),
		Example: `  modcatalog history
  modcatalog history --limit 5
  modcatalog history 0b6f3a5e-6d1c-4a8e-9d55-2a1f1f4a3c2d -o yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			hist, err := a.History()
			if err != nil {
				return err
			}
			defer func() { _ = hist.Close() }()

			var runs []history.Run
			if len(args) == 1 {
				run, err := hist.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				runs = []history.Run{*run}
			} else {
				runs, err = hist.List(cmd.Context(), limit)
				if err != nil {
					return err
				}
			}

			format := output.DetectFormat(a.config.Format)
			var data any = runs
			if format == output.FormatTable {
				data = table.RunsToTableData(runs)
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to list")

	return cmd
}
