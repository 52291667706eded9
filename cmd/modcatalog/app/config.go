package app

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/modcatalog/pkg/constants"
	"github.com/agentstation/modcatalog/pkg/errors"
)

// Default locations, relative to the working directory.
const (
	defaultCatalogDir   = "catalogs"
	defaultOverridesDir = "overrides"
	historyDBName       = "history.db"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Update run configuration
	CatalogDir       string
	OverridesDir     string
	HistoryDB        string
	ScraperEnabled   bool
	ImporterEnabled  bool
	RetirementMonths int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (handled by cobra)
// 2. Environment variables (MODCATALOG_ prefix)
// 3. .env files
// 4. Config file (./.modcatalog.yaml, then ~/.modcatalog.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	return loadConfig(os.Getenv("MODCATALOG_CONFIG"))
}

func loadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix("modcatalog")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("catalog_dir", defaultCatalogDir)
	v.SetDefault("overrides_dir", defaultOverridesDir)
	v.SetDefault("history_db", "")
	v.SetDefault("scraper_enabled", true)
	v.SetDefault("importer_enabled", true)
	v.SetDefault("retirement_months", constants.DefaultRetirementMonths)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading "+configFile, err)
		}
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".modcatalog")

		// A missing config file is fine
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.NewConfigError("config", "reading config file", err)
			}
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		CatalogDir:       v.GetString("catalog_dir"),
		OverridesDir:     v.GetString("overrides_dir"),
		HistoryDB:        v.GetString("history_db"),
		ScraperEnabled:   v.GetBool("scraper_enabled"),
		ImporterEnabled:  v.GetBool("importer_enabled"),
		RetirementMonths: v.GetInt("retirement_months"),

		// Empty LOG_LEVEL leaves the choice to -v/-q
		LogLevel:  os.Getenv("LOG_LEVEL"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the values that cannot be defaulted.
func (c *Config) Validate() error {
	if c.CatalogDir == "" {
		return errors.NewConfigError("catalog_dir", "must not be empty", nil)
	}
	if c.RetirementMonths <= 0 {
		return errors.NewConfigError("retirement_months", "must be positive", nil)
	}
	return nil
}

// HistoryPath returns the run history database path. It defaults to a
// file inside the catalog directory.
func (c *Config) HistoryPath() string {
	if c.HistoryDB != "" {
		return c.HistoryDB
	}
	return filepath.Join(c.CatalogDir, historyDBName)
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags to ensure flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, format, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if format != "" {
		c.Format = format
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
func loadEnvFiles() {
	// .env.local overrides .env
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
