package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/docsniff/internal/cli/config"
	"github.com/leapstack-labs/docsniff/internal/cli/output"
	"github.com/leapstack-labs/docsniff/internal/discover"
	"github.com/leapstack-labs/docsniff/internal/state"
	"github.com/leapstack-labs/docsniff/pkg/lint"
	_ "github.com/leapstack-labs/docsniff/pkg/lint/rules" // register sniffs
)

// LintOptions holds options for the lint command.
type LintOptions struct {
	Format   string   // Output format: text, markdown, json
	Disable  []string // Rule IDs to disable
	Severity string   // Minimum severity to report
	Rules    []string // Only run these rules
	Metrics  bool     // Show the metrics summary
	Record   bool     // Store the run in the history database
	Watch    bool     // Re-lint on change
}

// NewLintCommand creates the lint command.
func NewLintCommand() *cobra.Command {
	opts := &LintOptions{}

	cmd := &cobra.Command{
		Use:   "lint [path...]",
		Short: "Check PHP doc comments",
		Long: `Check the doc comments of PHP files against the configured tag policies.

Paths may be files or directories; directories are walked recursively and
filtered by the configured extensions and exclude globs. Without arguments the
paths from docsniff.yaml are linted.

The command exits non-zero when any finding at or above --severity remains.`,
		Example: `  # Lint the project
  docsniff lint

  # Lint one directory, errors only
  docsniff lint src/ --severity error

  # Skip the file comment rule
  docsniff lint --disable DC02

  # Only run the class comment rule
  docsniff lint --rule DC01

  # Store the run for 'docsniff history'
  docsniff lint --record

  # Re-lint on every change
  docsniff lint --watch

  # Machine-readable output
  docsniff lint --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable (comma-separated)")
	cmd.Flags().StringVar(&opts.Severity, "severity", "warning", "Minimum severity to report: error, warning, info, hint")
	cmd.Flags().StringSliceVar(&opts.Rules, "rule", nil, "Only run these rule IDs (comma-separated)")
	cmd.Flags().BoolVar(&opts.Metrics, "metrics", false, "Show the metrics summary")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "Record the run in the history database")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-lint changed files until interrupted")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"error", "warning", "info", "hint"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runLint(cmd *cobra.Command, args []string, opts *LintOptions) error {
	cmdCtx := NewCommandContext(cmd, opts.Format)
	cfg := cmdCtx.Cfg
	logger := cmdCtx.Logger

	if _, ok := lint.ParseSeverity(opts.Severity); !ok {
		return fmt.Errorf("invalid severity %q", opts.Severity)
	}
	for _, id := range opts.Rules {
		if _, ok := lint.GetByID(strings.TrimSpace(id)); !ok {
			return fmt.Errorf("rule %q not found", id)
		}
	}

	roots := args
	if len(roots) == 0 {
		roots = cfg.Paths
	}
	discOpts := discover.Options{Extensions: cfg.Extensions, Exclude: cfg.Exclude}

	analyzer := lint.NewAnalyzer(buildLintConfig(cfg, opts),
		lint.WithLogger(logger),
		lint.WithJobs(cfg.Jobs))

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.Watch {
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watch(ctx, cmdCtx, analyzer, roots, discOpts, opts)
	}

	files, err := discover.Files(ctx, roots, discOpts)
	if err != nil {
		return err
	}
	logger.Debug("discovered files", slog.Int("count", len(files)))

	started := time.Now()
	results, err := analyzer.AnalyzeFiles(ctx, files)
	if err != nil {
		return err
	}
	elapsed := time.Since(started)

	if opts.Record {
		if err := recordRun(ctx, cmdCtx, results, started, elapsed); err != nil {
			return err
		}
	}

	if renderLintResults(cmdCtx.Renderer, len(files), results, opts) {
		return fmt.Errorf("lint issues found")
	}
	return nil
}

// buildLintConfig merges the lint section of docsniff.yaml with CLI
// overrides, which take precedence.
func buildLintConfig(projectCfg *config.Config, opts *LintOptions) *lint.Config {
	var lc *config.LintConfig
	if projectCfg != nil {
		lc = projectCfg.Lint
	}
	lintCfg := lint.ConfigFromLint(lc)

	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}

	// If --rule specified, disable all others
	if len(opts.Rules) > 0 {
		enabled := make(map[string]bool)
		for _, id := range opts.Rules {
			enabled[strings.TrimSpace(id)] = true
		}
		for _, s := range lint.GetAll() {
			if !enabled[s.ID()] {
				lintCfg.Disable(s.ID())
			}
		}
	}

	return lintCfg
}

// filterBySeverity drops findings less severe than threshold. Files keep
// their entry so metrics survive filtering.
func filterBySeverity(results []lint.FileResult, threshold string) []lint.FileResult {
	limit, ok := lint.ParseSeverity(threshold)
	if !ok {
		limit = lint.SeverityWarning
	}

	filtered := make([]lint.FileResult, 0, len(results))
	for _, r := range results {
		var diags []lint.Diagnostic
		for _, d := range r.Diagnostics {
			if d.Severity <= limit {
				diags = append(diags, d)
			}
		}
		r.Diagnostics = diags
		filtered = append(filtered, r)
	}
	return filtered
}

func renderLintResults(r *output.Renderer, analyzed int, results []lint.FileResult, opts *LintOptions) bool {
	var metrics []lint.MetricSummary
	if opts.Metrics {
		metrics = lint.Aggregate(results).Summary()
	}
	out := output.NewLintOutput(analyzed, filterBySeverity(results, opts.Severity), metrics)
	return r.LintResults(out)
}

// newRunRecord summarizes results for the history database. Counts are
// taken before severity filtering.
func newRunRecord(results []lint.FileResult, started time.Time, elapsed time.Duration) state.RunRecord {
	rec := state.RunRecord{
		Run: state.Run{
			StartedAt: started,
			Duration:  elapsed,
			Files:     len(results),
		},
	}

	sources := make(map[string]int)
	for _, res := range results {
		for _, d := range res.Diagnostics {
			sources[d.Source()]++
			switch d.Severity {
			case lint.SeverityError:
				rec.Errors++
			case lint.SeverityWarning:
				rec.Warnings++
			default:
				rec.Notices++
			}
		}
	}
	for src, n := range sources {
		rec.Findings = append(rec.Findings, state.SourceCount{Source: src, Count: n})
	}
	sort.Slice(rec.Findings, func(i, j int) bool { return rec.Findings[i].Source < rec.Findings[j].Source })

	for _, m := range lint.Aggregate(results).Summary() {
		for _, v := range m.Values {
			rec.Metrics = append(rec.Metrics, state.MetricCount{Name: m.Name, Value: v.Value, Count: v.Count})
		}
	}
	return rec
}

func recordRun(ctx context.Context, cmdCtx *CommandContext, results []lint.FileResult, started time.Time, elapsed time.Duration) error {
	store, err := openStore(cmdCtx.Cfg, cmdCtx.Logger)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	run, err := store.RecordRun(ctx, newRunRecord(results, started, elapsed))
	if err != nil {
		return err
	}
	cmdCtx.Logger.Info("recorded run", slog.String("id", run.ID))
	return nil
}
