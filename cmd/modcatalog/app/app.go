// Package app provides the application context and dependency management
// for the modcatalog CLI. It centralizes configuration, logging, and the
// construction of the catalog store, the run history and the updater.
package app

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/agentstation/modcatalog"
	"github.com/agentstation/modcatalog/internal/embedded"
	"github.com/agentstation/modcatalog/internal/history"
	"github.com/agentstation/modcatalog/internal/sources/overrides"
	"github.com/agentstation/modcatalog/pkg/errors"
	"github.com/agentstation/modcatalog/pkg/persistence"
)

// App represents the modcatalog application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	out    io.Writer
}

// New creates a new App instance with the given version information.
// The configuration is loaded from the environment and config files and
// can be replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		out:     os.Stdout,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig()
		if err != nil {
			return nil, errors.WrapResource("load", "config", "", err)
		}
		app.config = config
	}

	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Store opens the catalog store over the configured catalog directory with
// the bundled catalog as fallback.
func (a *App) Store() (*persistence.Store, error) {
	store, err := persistence.New(a.config.CatalogDir,
		persistence.WithBundled(embedded.FS, embedded.CatalogFile),
		persistence.WithLogger(a.logger),
	)
	if err != nil {
		return nil, errors.WrapResource("open", "store", a.config.CatalogDir, err)
	}
	return store, nil
}

// History opens the run history database. The caller closes it.
func (a *App) History() (*history.Store, error) {
	return history.Open(a.config.HistoryPath(), a.logger)
}

// Updater builds an updater from the configuration. The override importer
// reads the configured overrides directory; no scraper is wired into the
// CLI, so a run is driven by the importer alone.
func (a *App) Updater(store *persistence.Store, recorder modcatalog.RunRecorder) (*modcatalog.Updater, error) {
	opts := []modcatalog.Option{
		modcatalog.WithLogger(a.logger),
		modcatalog.WithScraperEnabled(a.config.ScraperEnabled),
		modcatalog.WithImporterEnabled(a.config.ImporterEnabled),
		modcatalog.WithRetirementMonths(a.config.RetirementMonths),
	}
	if a.config.OverridesDir != "" {
		opts = append(opts, modcatalog.WithImporter(overrides.New(a.config.OverridesDir)))
	}
	if recorder != nil {
		opts = append(opts, modcatalog.WithRecorder(recorder))
	}
	return modcatalog.New(store, opts...)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return &errors.ValidationError{Field: "config", Message: "cannot be nil"}
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithOutput sets where command output is written.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}
