package lint

import (
	"fmt"
	"sort"
	"sync"
)

// Reporter is the minimal contract for receiving diagnostics from sniffs.
// Implementations: Collector (stores them), DedupReporter (filters repeats),
// ReporterFunc (adapts a function).
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to the Reporter interface.
type ReporterFunc func(d Diagnostic)

// Report calls fn(d).
func (fn ReporterFunc) Report(d Diagnostic) {
	fn(d)
}

// Collector stores every diagnostic it receives. It is safe for concurrent use.
type Collector struct {
	mu    sync.Mutex
	diags []Diagnostic
}

// Report appends d.
func (c *Collector) Report(d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// Diagnostics returns the collected diagnostics ordered by token index.
// Diagnostics at the same index keep their report order.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Index < out[j].Index
	})
	return out
}

// Len returns the number of collected diagnostics.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.diags)
}

type dedupKey struct {
	source string
	sev    Severity
	index  int
	msg    string
	data   string
}

// DedupReporter wraps another Reporter and suppresses duplicate diagnostics
// with the same source, severity, token index, message and data.
type DedupReporter struct {
	mu   sync.Mutex
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique diagnostics to next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

// Report forwards d unless an identical diagnostic was already forwarded.
func (r *DedupReporter) Report(d Diagnostic) {
	key := dedupKey{
		source: d.Source(),
		sev:    d.Severity,
		index:  d.Index,
		msg:    d.Message,
		data:   fmt.Sprint(d.Data...),
	}

	r.mu.Lock()
	if _, ok := r.seen[key]; ok {
		r.mu.Unlock()
		return
	}
	r.seen[key] = struct{}{}
	r.mu.Unlock()

	if r.next != nil {
		r.next.Report(d)
	}
}
