package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/docsniff/internal/cli/output"
	"github.com/leapstack-labs/docsniff/internal/state"
)

// HistoryOptions holds options for the history command.
type HistoryOptions struct {
	Limit  int
	Format string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	opts := &HistoryOptions{}
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded lint runs",
		Long: `Show lint runs stored with 'docsniff lint --record'.

Without arguments the most recent runs are listed. With a run ID the run's
finding counts per source and its metrics are shown.`,
		Example: `  # List the last 20 runs
  docsniff history

  # Show one run
  docsniff history 3f2b8c1e-...

  # All runs as JSON
  docsniff history --limit 0 --format json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd, opts.Format)
			store, err := openStore(cmdCtx.Cfg, cmdCtx.Logger)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if len(args) > 0 {
				return showRun(cmd, cmdCtx.Renderer, store, args[0])
			}
			return listRuns(cmd, cmdCtx.Renderer, store, opts.Limit)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, json, markdown")

	return cmd
}

func listRuns(cmd *cobra.Command, r *output.Renderer, store state.Store, limit int) error {
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		if runs == nil {
			runs = []state.Run{}
		}
		return r.JSON(runs)
	}

	if len(runs) == 0 {
		r.Muted("No runs recorded yet. Use 'docsniff lint --record'.")
		return nil
	}

	r.Header(1, "Lint History")
	rows := make([][]any, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []any{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Duration.Round(time.Millisecond).String(),
			run.Files,
			run.Errors,
			run.Warnings,
			run.Notices,
		})
	}
	r.Table([]string{"Run", "Started", "Duration", "Files", "Errors", "Warnings", "Notices"}, rows)
	return nil
}

func showRun(cmd *cobra.Command, r *output.Renderer, store state.Store, id string) error {
	rec, err := store.GetRun(cmd.Context(), id)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(rec)
	}

	r.Header(1, "Run "+rec.ID)
	r.Printf("Started %s, took %s, %d files: %d errors, %d warnings, %d notices\n\n",
		rec.StartedAt.Local().Format(time.DateTime),
		rec.Duration.Round(time.Millisecond),
		rec.Files, rec.Errors, rec.Warnings, rec.Notices)

	if len(rec.Findings) > 0 {
		r.Header(2, "Findings")
		rows := make([][]any, 0, len(rec.Findings))
		for _, f := range rec.Findings {
			rows = append(rows, []any{f.Source, f.Count})
		}
		r.Table([]string{"Source", "Count"}, rows)
		r.Println("")
	}

	if len(rec.Metrics) > 0 {
		r.Header(2, "Metrics")
		rows := make([][]any, 0, len(rec.Metrics))
		for _, m := range rec.Metrics {
			rows = append(rows, []any{m.Name, m.Value, m.Count})
		}
		r.Table([]string{"Metric", "Value", "Count"}, rows)
	}

	if len(rec.Findings) == 0 && len(rec.Metrics) == 0 {
		r.Muted(fmt.Sprintf("Run %s recorded no findings or metrics", rec.ID))
	}
	return nil
}
