package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pixie79/data-modelling-sdk-sub000/internal/cli/config"
	"github.com/pixie79/data-modelling-sdk-sub000/pkg/contract"
	"github.com/pixie79/data-modelling-sdk-sub000/pkg/importer"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg    *config.Config
	Logger *slog.Logger
}

// NewCommandContext assembles the configuration and logger for a command.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	return &CommandContext{
		Cfg:    getConfig(),
		Logger: config.GetLogger(cmd.Context()),
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		DefaultFormat: getEnvOrDefault("DMSDK_DEFAULT_FORMAT", config.DefaultFormat),
		Strict:        os.Getenv("DMSDK_STRICT") == "true",
		Verbose:       os.Getenv("DMSDK_VERBOSE") == "true",
		Output:        getEnvOrDefault("DMSDK_OUTPUT", config.DefaultOutput),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// loadTable reads one contract document, detects its dialect, and imports
// it. Hard failures come back as the error; soft diagnostics ride on the
// returned table. A derived identity is surfaced as a warning because
// cross-document relationships pointing at it may be orphaned.
func loadTable(path string, logger *slog.Logger) (*contract.Table, importer.Format, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	format, err := importer.Detect(data)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}

	tbl, _, err := importer.Import(data)
	if err != nil {
		return nil, format, fmt.Errorf("%s: %w", path, err)
	}

	if tbl.IDDerived {
		logger.Warn("document carries no explicit identity; derived a stable id from the table name",
			"file", path, "table", tbl.Name, "id", tbl.ID.String())
	}

	return tbl, format, nil
}
