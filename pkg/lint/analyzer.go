package lint

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/docsniff/pkg/lexer"
	"github.com/leapstack-labs/docsniff/pkg/token"
)

// FileResult holds everything one file produced.
type FileResult struct {
	Path        string       `json:"path"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Metrics     *Metrics     `json:"-"`
}

// HasErrors reports whether any diagnostic is an error.
func (r FileResult) HasErrors() bool {
	for _, d := range r.Diagnostics {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Analyzer runs the registered sniffs against PHP source files.
type Analyzer struct {
	config *Config
	logger *slog.Logger
	jobs   int

	once     sync.Once
	setupErr error
	listen   map[token.Kind][]boundSniff
}

type boundSniff struct {
	id      string
	process ProcessFunc
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithLogger sets the logger used for progress output.
func WithLogger(logger *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithJobs limits how many files AnalyzeFiles processes at once.
// Values below 1 mean one job per file.
func WithJobs(n int) AnalyzerOption {
	return func(a *Analyzer) { a.jobs = n }
}

// NewAnalyzer creates a new analyzer with optional configuration.
func NewAnalyzer(config *Config, opts ...AnalyzerOption) *Analyzer {
	if config == nil {
		config = NewConfig()
	}
	a := &Analyzer{
		config: config,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// setup resolves every enabled sniff once, applying its rule options.
func (a *Analyzer) setup() error {
	a.once.Do(func() {
		a.listen = make(map[token.Kind][]boundSniff)
		for _, s := range GetAll() {
			if a.config.IsDisabled(s.ID()) {
				a.logger.Debug("sniff disabled", slog.String("rule", s.ID()))
				continue
			}
			process, err := s.Setup(a.config.GetRuleOptions(s.ID()))
			if err != nil {
				a.setupErr = fmt.Errorf("rule %s: %w", s.ID(), err)
				return
			}
			if process == nil {
				continue
			}
			for _, k := range s.Tokens() {
				a.listen[k] = append(a.listen[k], boundSniff{id: s.ID(), process: process})
			}
		}
	})
	return a.setupErr
}

// AnalyzeSource lints src as if it were the file at path.
func (a *Analyzer) AnalyzeSource(path string, src []byte) (FileResult, error) {
	if err := a.setup(); err != nil {
		return FileResult{}, err
	}

	stream := lexer.Tokenize(src)
	collector := &Collector{}
	metrics := NewMetrics()
	file := NewFile(path, stream, NewDedupReporter(collector), metrics)

	bound := make(map[string]*File)
	for i, tok := range stream.Tokens() {
		for _, s := range a.listen[tok.Kind] {
			f, ok := bound[s.id]
			if !ok {
				f = file.forRule(s.id, a.config.GetSeverity)
				bound[s.id] = f
			}
			s.process(f, i)
		}
	}

	a.logger.Debug("analyzed file",
		slog.String("path", path),
		slog.Int("tokens", stream.Len()),
		slog.Int("diagnostics", collector.Len()))

	return FileResult{
		Path:        path,
		Diagnostics: collector.Diagnostics(),
		Metrics:     metrics,
	}, nil
}

// AnalyzeFile reads and lints the file at path.
func (a *Analyzer) AnalyzeFile(path string) (FileResult, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return a.AnalyzeSource(path, src)
}

// AnalyzeFiles lints paths concurrently and returns the results ordered by
// path. The first error cancels the remaining work.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, paths []string) ([]FileResult, error) {
	if err := a.setup(); err != nil {
		return nil, err
	}

	results := make([]FileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	if a.jobs > 0 {
		g.SetLimit(a.jobs)
	}

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := a.AnalyzeFile(path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results, nil
}

// Aggregate merges the metrics of every result.
func Aggregate(results []FileResult) *Metrics {
	total := NewMetrics()
	for _, r := range results {
		total.Merge(r.Metrics)
	}
	return total
}
