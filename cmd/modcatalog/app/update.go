package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/modcatalog"
	"github.com/agentstation/modcatalog/internal/cmd/output"
	"github.com/agentstation/modcatalog/internal/cmd/table"
	"github.com/agentstation/modcatalog/pkg/errors"
)

// NewUpdateCommand creates the update command.
func (a *App) NewUpdateCommand() *cobra.Command {
	var (
		noImporter       bool
		noHistory        bool
		retirementMonths int
	)

	cmd := &cobra.Command{
		Use:     "update",
		GroupID: "core",
		Short:   "Run one catalog update",
		Long: `Update opens the newest catalog, bundled or previously saved, and runs
the enabled collectors over it:

• Manual overrides from the overrides directory (YAML or TOML)
• Author retirement for authors inactive longer than the retirement window

When anything changed, a new catalog version is saved together with its
change notes and a snapshot of the combined overrides. Every run is
recorded in the run history database.`,
		Example: `  modcatalog update
  modcatalog update --overrides-dir ./overrides
  modcatalog update --retirement-months 6`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noImporter {
				a.config.ImporterEnabled = false
			}
			if cmd.Flags().Changed("retirement-months") {
				a.config.RetirementMonths = retirementMonths
			}
			return a.runUpdate(cmd, !noHistory)
		},
	}

	cmd.Flags().BoolVar(&noImporter, "no-importer", false, "skip the manual override importer")
	cmd.Flags().BoolVar(&noHistory, "no-history", false, "do not record the run in the history database")
	cmd.Flags().IntVar(&retirementMonths, "retirement-months", 0, "retire authors inactive for this many months")

	return cmd
}

func (a *App) runUpdate(cmd *cobra.Command, recordHistory bool) error {
	store, err := a.Store()
	if err != nil {
		return err
	}

	var recorder modcatalog.RunRecorder
	if recordHistory {
		hist, err := a.History()
		if err != nil {
			return err
		}
		defer func() {
			if cerr := hist.Close(); cerr != nil {
				a.logger.Warn().Err(cerr).Msg("Closing run history failed")
			}
		}()
		recorder = hist
	}

	updater, err := a.Updater(store, recorder)
	if err != nil {
		return err
	}

	result, err := updater.Run(cmd.Context())
	if err != nil {
		return errors.WrapResource("run", "update", "", err)
	}

	format := output.DetectFormat(a.config.Format)
	data := resultData(result)
	var out any = data
	if format != output.FormatTable {
		out = data.Map()
	}
	if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	if result.Outcome == modcatalog.OutcomeDegraded {
		return errors.WrapResource("save", "catalog", strconv.FormatUint(result.Version, 10), result.SaveErr)
	}
	return nil
}

func resultData(r *modcatalog.Result) table.Data {
	collectors := make([]string, len(r.Collectors))
	for i, id := range r.Collectors {
		collectors[i] = string(id)
	}
	rows := [][]string{
		{"Run", r.RunID},
		{"Outcome", r.Outcome.String()},
		{"Origin", string(r.Origin)},
		{"Version", strconv.FormatUint(r.Version, 10)},
		{"Collectors", strings.Join(collectors, ", ")},
		{"Changes", r.Summary.String()},
		{"Retired authors", strconv.Itoa(r.RetiredAuthors)},
		{"Duration", r.Duration().String()},
	}
	for id, err := range r.CollectorErrs {
		rows = append(rows, []string{fmt.Sprintf("Error (%s)", id), err.Error()})
	}
	if r.CatalogFile.Path != "" {
		rows = append(rows, []string{"Catalog file", r.CatalogFile.Path}, []string{"Digest", r.CatalogFile.Digest})
	}
	return table.Data{
		Headers: []string{"Property", "Value"},
		Rows:    rows,
	}
}
