package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/modcatalog/pkg/logging"
)

// Execute runs the modcatalog CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.out)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "modcatalog",
		Short:   "Mod catalog maintenance CLI",
		Version: a.version,
		Long: `modcatalog maintains a versioned catalog of game mods, their authors,
groups and compatibility relations.

An update run merges manual overrides into the newest catalog, retires
inactive authors and saves a new catalog version with a change log when
anything changed.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "Core Commands:"})
	rootCmd.AddGroup(&cobra.Group{ID: "management", Title: "Management Commands:"})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is ./.modcatalog.yaml or $HOME/.modcatalog.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.String("catalog-dir", "", "directory holding the versioned catalogs")
	flags.String("overrides-dir", "", "directory holding the manual override files")

	rootCmd.SetVersionTemplate("modcatalog {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if path := mustGetString(cmd, "config"); path != "" {
		config, err := loadConfig(path)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		mustGetString(cmd, "format"),
		mustGetString(cmd, "log-level"),
	)
	if dir := mustGetString(cmd, "catalog-dir"); dir != "" {
		a.config.CatalogDir = dir
	}
	if dir := mustGetString(cmd, "overrides-dir"); dir != "" {
		a.config.OverridesDir = dir
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(a.NewUpdateCommand())
	rootCmd.AddCommand(a.NewInspectCommand())

	// Management commands
	rootCmd.AddCommand(a.NewValidateCommand())
	rootCmd.AddCommand(a.NewHistoryCommand())

	// Utility commands
	rootCmd.AddCommand(a.NewVersionCommand())
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
