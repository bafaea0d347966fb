package lint

import (
	"sort"
	"sync"
)

// MetricsRecorder receives aggregate metrics such as
// "Class has doc comment" = "yes".
type MetricsRecorder interface {
	RecordMetric(index int, name, value string)
}

// Metrics counts metric values by name. It is safe for concurrent use.
type Metrics struct {
	mu     sync.Mutex
	counts map[string]map[string]int
}

// NewMetrics creates an empty metric set.
func NewMetrics() *Metrics {
	return &Metrics{counts: make(map[string]map[string]int)}
}

// RecordMetric counts one occurrence of value for name.
func (m *Metrics) RecordMetric(_ int, name, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(name, value, 1)
}

func (m *Metrics) add(name, value string, n int) {
	values, ok := m.counts[name]
	if !ok {
		values = make(map[string]int)
		m.counts[name] = values
	}
	values[value] += n
}

// Count returns how often value was recorded for name.
func (m *Metrics) Count(name, value string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name][value]
}

// Merge adds every count from other into m.
func (m *Metrics) Merge(other *Metrics) {
	if other == nil || other == m {
		return
	}
	other.mu.Lock()
	snapshot := make(map[string]map[string]int, len(other.counts))
	for name, values := range other.counts {
		cp := make(map[string]int, len(values))
		for v, n := range values {
			cp[v] = n
		}
		snapshot[name] = cp
	}
	other.mu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	for name, values := range snapshot {
		for v, n := range values {
			m.add(name, v, n)
		}
	}
}

// MetricValue is one value of a metric with its share of the total.
type MetricValue struct {
	Value   string  `json:"value"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// MetricSummary aggregates every value recorded for one metric name.
type MetricSummary struct {
	Name   string        `json:"name"`
	Total  int           `json:"total"`
	Values []MetricValue `json:"values"`
}

// Summary returns metrics sorted by name, values sorted by count descending.
func (m *Metrics) Summary() []MetricSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]MetricSummary, 0, len(m.counts))
	for name, values := range m.counts {
		s := MetricSummary{Name: name}
		for _, n := range values {
			s.Total += n
		}
		for v, n := range values {
			pct := 0.0
			if s.Total > 0 {
				pct = float64(n) * 100 / float64(s.Total)
			}
			s.Values = append(s.Values, MetricValue{Value: v, Count: n, Percent: pct})
		}
		sort.Slice(s.Values, func(i, j int) bool {
			if s.Values[i].Count != s.Values[j].Count {
				return s.Values[i].Count > s.Values[j].Count
			}
			return s.Values[i].Value < s.Values[j].Value
		})
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
