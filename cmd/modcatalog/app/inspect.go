package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/modcatalog/internal/cmd/output"
	"github.com/agentstation/modcatalog/internal/cmd/table"
	"github.com/agentstation/modcatalog/pkg/catalogs"
)

// NewInspectCommand creates the inspect command.
func (a *App) NewInspectCommand() *cobra.Command {
	var listMods bool

	cmd := &cobra.Command{
		Use:     "inspect",
		GroupID: "core",
		Short:   "Show the active catalog",
		Long: `Inspect opens the active catalog, the newest of the bundled catalog and
the saved versions, and prints its statistics. With --mods every mod is
listed. JSON and YAML output print the whole catalog.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := a.activeCatalog()
			if err != nil {
				return err
			}

			format := output.DetectFormat(a.config.Format)
			var data any = cat
			if format == output.FormatTable {
				data = table.CatalogToTableData(cat)
				if listMods {
					data = table.ModsToTableData(cat)
				}
			}
			return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
		},
	}

	cmd.Flags().BoolVar(&listMods, "mods", false, "list every mod")

	return cmd
}

func (a *App) activeCatalog() (*catalogs.Catalog, error) {
	store, err := a.Store()
	if err != nil {
		return nil, err
	}
	cat, origin, err := store.Open()
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("origin", string(origin)).Uint64("version", cat.Version).Msg("Active catalog")
	return cat, nil
}
