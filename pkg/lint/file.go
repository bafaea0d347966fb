package lint

import (
	"fmt"

	"github.com/leapstack-labs/docsniff/pkg/token"
)

// File is the view a sniff gets of one source file: the token stream plus
// the reporting and metrics sinks. A File is handed to one sniff at a time;
// the stream it wraps is shared and read-only.
type File struct {
	Path string

	stream   *token.Stream
	reporter Reporter
	metrics  MetricsRecorder

	ruleID   string
	severity func(source string, sev Severity) Severity
	seen     map[metricKey]struct{}
}

type metricKey struct {
	index int
	name  string
}

// NewFile creates a File that reports into reporter and records metrics into
// metrics. Either sink may be nil.
func NewFile(path string, stream *token.Stream, reporter Reporter, metrics MetricsRecorder) *File {
	return &File{
		Path:     path,
		stream:   stream,
		reporter: reporter,
		metrics:  metrics,
		seen:     make(map[metricKey]struct{}),
	}
}

// forRule returns a File that stamps diagnostics with ruleID.
func (f *File) forRule(ruleID string, severity func(string, Severity) Severity) *File {
	c := *f
	c.ruleID = ruleID
	c.severity = severity
	return &c
}

// Stream returns the token stream.
func (f *File) Stream() *token.Stream {
	return f.stream
}

// DeclarationName resolves the name declared at index, e.g. a class name.
func (f *File) DeclarationName(index int) string {
	return f.stream.DeclarationName(index)
}

// AddError reports an error anchored at the token at index.
// The message is a format string; data are its arguments.
func (f *File) AddError(message string, index int, code string, data ...any) {
	f.add(SeverityError, message, index, code, data)
}

// AddWarning reports a warning anchored at the token at index.
func (f *File) AddWarning(message string, index int, code string, data ...any) {
	f.add(SeverityWarning, message, index, code, data)
}

// Add reports a finding with an explicit severity.
func (f *File) Add(sev Severity, message string, index int, code string, data ...any) {
	f.add(sev, message, index, code, data)
}

func (f *File) add(sev Severity, message string, index int, code string, data []any) {
	if f.reporter == nil {
		return
	}

	msg := message
	if len(data) > 0 {
		msg = fmt.Sprintf(message, data...)
	}

	d := Diagnostic{
		RuleID:   f.ruleID,
		Code:     code,
		Severity: sev,
		Message:  msg,
		Index:    index,
		Data:     data,
	}
	if tok, ok := f.stream.At(index); ok {
		d.Pos = tok.Pos
	}
	if f.severity != nil {
		d.Severity = f.severity(d.Source(), d.Severity)
	}
	if f.ruleID != "" {
		d.DocumentationURL = BuildDocURL(f.ruleID)
	}

	f.reporter.Report(d)
}

// RecordMetric records a metric value for the token at index. A metric is
// counted at most once per token and name. A missing sink is not an error.
func (f *File) RecordMetric(index int, name, value string) {
	if f.metrics == nil {
		return
	}
	key := metricKey{index: index, name: name}
	if _, ok := f.seen[key]; ok {
		return
	}
	f.seen[key] = struct{}{}
	f.metrics.RecordMetric(index, name, value)
}
