// Package cmd implements the opendapi command line interface.
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/WovenCollab/OpenDAPI/internal/cmd/output"
	"github.com/WovenCollab/OpenDAPI/internal/config"
	"github.com/WovenCollab/OpenDAPI/pkg/logging"
)

var (
	configFile   string
	outputFormat string
	verbose      bool
	quiet        bool

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
	// BuiltBy is the build system identifier.
	BuiltBy = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "opendapi",
	Short: "Keep data descriptors in sync with live data models",
	Long: heredoc.Doc(`
		OpenDAPI maintains machine-checkable descriptors for datasets, teams,
		datastores, and business purposes next to the code that produces the
		data. Each run regenerates the descriptors from the configured data
		models, folds hand edits back into the generated state, and validates
		every file against its schema contract.

		Configuration lives in opendapi.yaml at the repository root; run
		"opendapi init" to create one.
	`),
	PersistentPreRunE: setupCommand,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(version, commit, date, builtBy string) {
	Version = version
	Commit = commit
	Date = date
	BuiltBy = builtBy

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./opendapi.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, wide, json, or yaml")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
}

// setupCommand is called before any command runs.
func setupCommand(_ *cobra.Command, _ []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}
	outputFormat = string(output.DetectFormat(string(format)))

	configureLogging()
	return nil
}

// loadProject loads and validates the repository configuration. Commands
// that reconcile descriptors call it; init and version do not need one.
func loadProject() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configureLogging sets up the logging system based on flags and environment.
func configureLogging() {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	if quiet {
		level = zerolog.WarnLevel
	}
	if envLevel := os.Getenv("LOG_LEVEL"); envLevel != "" {
		if parsed, err := zerolog.ParseLevel(envLevel); err == nil {
			level = parsed
		}
	}

	cfg := &logging.Config{
		Level:     level.String(),
		Format:    os.Getenv("LOG_FORMAT"),
		Output:    os.Getenv("LOG_OUTPUT"),
		AddCaller: level <= zerolog.DebugLevel,
	}
	if cfg.Format == "" {
		cfg.Format = "auto"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}

	logging.Configure(cfg)
}
