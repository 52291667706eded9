package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(),
				"modcatalog %s\ncommit: %s\nbuilt: %s by %s\ngo: %s %s/%s\n",
				a.version, a.commit, a.date, a.builtBy,
				runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return err
		},
	}
}
