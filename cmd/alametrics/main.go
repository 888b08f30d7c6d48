// Package main provides the alametrics CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/config"
	"github.com/AtlasOfLivingAustralia/ala-metrics-and-impact/internal/pipeline"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	humanOutput bool
	configPath  string
	verbose     bool
	workers     int
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "alametrics",
	Short: "Reconcile ALA publications with registry and metrics data",
	Long: `alametrics reconciles the publications that cite Atlas of Living Australia
data across the GBIF literature registry, the Zotero reference library and the
PlumX, Altmetric and Scopus metrics services.

Tables are read and written as CSV. Command summaries are JSON by default;
use --human for text.

Credentials are read from the config file, a .env file, or the environment:
  ELSEVIER_API_KEY    PlumX and Scopus
  ALTMETRIC_API_KEY   Altmetric (optional)
  ZOTERO_API_KEY      Zotero group library
  ZOTERO_LIBRARY_ID   Zotero group id`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/alametrics/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug detail to stderr")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "Publications processed concurrently (default from config)")
	rootCmd.Version = Version
}

// mustLoadConfig loads configuration and checks the credentials of the
// given services, exits on error.
func mustLoadConfig(services ...config.Service) config.Config {
	if err := config.LoadEnv(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	cfg.ApplyEnv(os.LookupEnv)
	if workers > 0 {
		cfg.Workers = workers
	}

	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "invalid config %s: %v", path, err)
	}
	if err := cfg.Require(services...); err != nil {
		exitWithError(ExitConfigError, "%v\n\n%s", err, config.HelpfulConfigMessage())
	}
	return cfg
}

// newLogger returns the stderr logger at the configured level.
func newLogger(cfg config.Config) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "alametrics",
	})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}

// mustPipeline loads configuration and builds the pipeline.
func mustPipeline(services ...config.Service) *pipeline.Pipeline {
	cfg := mustLoadConfig(services...)
	return pipeline.New(cfg, pipeline.WithLogger(newLogger(cfg)))
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
