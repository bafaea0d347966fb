// Package commands provides the docsniff subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/docsniff/internal/cli/config"
	"github.com/leapstack-labs/docsniff/internal/cli/output"
	"github.com/leapstack-labs/docsniff/internal/state"
)

// CommandContext holds common dependencies for command execution.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext. A non-empty format overrides
// the configured output mode.
func NewCommandContext(cmd *cobra.Command, format string) *CommandContext {
	cfg := getConfig()
	mode := output.Mode(cfg.OutputFormat)
	if format != "" {
		mode = output.Mode(format)
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}
}

// getConfig returns the loaded configuration, or defaults when the command
// runs without the root command (tests).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cwd, _ := os.Getwd()
	return &config.Config{
		Paths:        []string{"."},
		Extensions:   config.DefaultExtensions,
		Exclude:      config.DefaultExclude,
		OutputFormat: config.DefaultOutput,
		StatePath:    filepath.Join(cwd, config.DefaultStateFile),
		Jobs:         config.DefaultJobs,
		ProjectRoot:  cwd,
	}
}

// openStore opens the run history database, creating its directory.
func openStore(cfg *config.Config, logger *slog.Logger) (*state.SQLiteStore, error) {
	if dir := filepath.Dir(cfg.StatePath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore(logger)
	if err := store.Open(cfg.StatePath); err != nil {
		return nil, err
	}
	return store, nil
}
