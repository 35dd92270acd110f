package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/config"
	"github.com/FerdinandUkwayi/cals-legal-summarization/internal/observability/logging"
)

var (
	// outputFormat controls output format (text, json).
	outputFormat string

	// verbose routes service logs to stderr.
	verbose bool
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "cals",
	Short: "Context-aware legal summarization",
	Long: `cals summarizes legal documents offline with the configured model
backend, scores summaries against references and manages the database schema.

Configuration is read from the same environment variables as the API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&outputFormat, "format", "text",
		"Output format: text, json",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"Write progress logs to stderr",
	)

	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadConfig reads the environment and installs the CLI logger.
func loadConfig(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, newLogger(cmd, cfg), nil
}

func newLogger(cmd *cobra.Command, cfg config.Config) *slog.Logger {
	logger := slog.New(slog.DiscardHandler)
	if verbose {
		logger = logging.NewLogger(logging.Options{
			Level:  cfg.LogLevel,
			Format: "text",
			Output: cmd.ErrOrStderr(),
		})
	}
	slog.SetDefault(logger)
	return logger
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// outputJSON writes v as indented JSON to w.
func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}
