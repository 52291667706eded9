package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/modcatalog/internal/cmd/output"
	"github.com/agentstation/modcatalog/internal/cmd/table"
	"github.com/agentstation/modcatalog/internal/sources/overrides"
	"github.com/agentstation/modcatalog/pkg/catalogs"
	"github.com/agentstation/modcatalog/pkg/errors"
)

// NewValidateCommand creates the validate command.
func (a *App) NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "validate [catalog-file]",
		GroupID: "management",
		Short:   "Check a catalog against its invariants",
		Long: `Validate checks the active catalog, or the given catalog file, for
dangling references, unknown statuses, duplicate identifiers and
degenerate groups. Files passed with --overrides are parsed as well.

The command fails when any error-level issue is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cat *catalogs.Catalog
				err error
			)
			if len(args) == 1 {
				cat, err = catalogs.LoadFile(args[0])
			} else {
				cat, err = a.activeCatalog()
			}
			if err != nil {
				return err
			}

			overrideFiles, err := cmd.Flags().GetStringSlice("overrides")
			if err != nil {
				return err
			}
			for _, path := range overrideFiles {
				if _, err := overrides.ReadFile(path); err != nil {
					return err
				}
			}

			issues := cat.Validate()
			if len(issues) == 0 {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Catalog version %d is valid\n", cat.Version)
				return err
			}

			format := output.DetectFormat(a.config.Format)
			var data any = issues
			if format == output.FormatTable {
				data = table.IssuesToTableData(issues)
			}
			if err := output.NewFormatter(format).Format(cmd.OutOrStdout(), data); err != nil {
				return err
			}
			if catalogs.HasErrors(issues) {
				return &errors.ValidationError{Field: "catalog", Message: fmt.Sprintf("%d issues found", len(issues))}
			}
			return nil
		},
	}

	cmd.Flags().StringSlice("overrides", nil, "override files to parse")

	return cmd
}
