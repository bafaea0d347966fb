package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/leapstack-labs/docsniff/internal/discover"
	"github.com/leapstack-labs/docsniff/pkg/lint"
)

// watchDelay batches the burst of events editors emit for one save.
const watchDelay = 150 * time.Millisecond

// watch lints roots once, then re-lints changed files until ctx is done.
func watch(ctx context.Context, cmdCtx *CommandContext, analyzer *lint.Analyzer, roots []string, discOpts discover.Options, opts *LintOptions) error {
	r := cmdCtx.Renderer
	logger := cmdCtx.Logger

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	dirs, err := discover.Dirs(ctx, roots, discOpts)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	logger.Debug("watching", slog.Int("dirs", len(dirs)))

	files, err := discover.Files(ctx, roots, discOpts)
	if err != nil {
		return err
	}
	lintChanged := func(paths []string) {
		results, err := analyzer.AnalyzeFiles(ctx, paths)
		if err != nil {
			r.Error(err.Error())
			return
		}
		renderLintResults(r, len(paths), results, opts)
	}

	lintChanged(files)
	r.Muted("Watching for changes (Ctrl+C to stop)")

	return watchLoop(ctx, w, acceptor(roots, discOpts), watchDelay, func(changed []string) {
		var existing []string
		for _, path := range changed {
			if _, err := os.Stat(path); err == nil {
				existing = append(existing, path)
			}
		}
		if len(existing) == 0 {
			return
		}
		r.StatusLine(time.Now().Format(time.TimeOnly), "", fmt.Sprintf("%d changed", len(existing)))
		lintChanged(existing)
	})
}

// acceptor reports whether an event path belongs to one of roots.
func acceptor(roots []string, opts discover.Options) func(string) bool {
	return func(path string) bool {
		for _, root := range roots {
			info, err := os.Stat(root)
			if err != nil {
				continue
			}
			if !info.IsDir() {
				if filepath.Clean(root) == filepath.Clean(path) {
					return true
				}
				continue
			}
			if opts.Accepts(root, path) {
				return true
			}
		}
		return false
	}
}

// watchLoop collects file events and calls onChange with the sorted set of
// accepted paths once no event arrived for delay. New directories are added
// to the watcher. It returns nil when ctx is done.
func watchLoop(ctx context.Context, w *fsnotify.Watcher, accept func(string) bool, delay time.Duration, onChange func([]string)) error {
	pending := make(map[string]struct{})
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.Add(ev.Name)
					continue
				}
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !accept(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			fire = time.After(delay)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch failed: %w", err)

		case <-fire:
			fire = nil
			changed := make([]string, 0, len(pending))
			for path := range pending {
				changed = append(changed, path)
			}
			clear(pending)
			sort.Strings(changed)
			onChange(changed)
		}
	}
}
