package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/docsniff/internal/lsp"
)

// NewLSPCommand creates the lsp command.
func NewLSPCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the language server",
		Long: `Start a Language Server Protocol server on stdin/stdout.

Open PHP documents are linted on open, change and save with the project
configuration. Tag names are completed after "@" inside doc comments and
hovering a tag shows its policy.`,
		Example: `  # Configure your editor to run:
  docsniff lsp`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd, "")
			server := lsp.NewServer(cmd.InOrStdin(), cmd.OutOrStdout(), lsp.Options{
				LintConfig: buildLintConfig(cmdCtx.Cfg, &LintOptions{}),
				Extensions: cmdCtx.Cfg.Extensions,
				Version:    version,
				Logger:     cmdCtx.Logger,
			})
			return server.Run()
		},
	}
}
