// Package state keeps the history of lint runs in SQLite.
package state

import (
	"context"
	"time"
)

// Run is one recorded lint run.
type Run struct {
	ID        string        `json:"id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Files     int           `json:"files"`
	Errors    int           `json:"errors"`
	Warnings  int           `json:"warnings"`
	Notices   int           `json:"notices"` // info and hint findings
}

// MetricCount is how often one metric value was recorded during a run.
type MetricCount struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// SourceCount is how often one diagnostic source ("DC01.Missing") fired.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// RunRecord is everything stored for a run.
type RunRecord struct {
	Run
	Metrics  []MetricCount `json:"metrics"`
	Findings []SourceCount `json:"findings"`
}

// Store persists lint runs.
type Store interface {
	// RecordRun stores rec and returns the run with its assigned ID.
	RecordRun(ctx context.Context, rec RunRecord) (*Run, error)
	// ListRuns returns the most recent runs first, at most limit.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	// GetRun returns a run with its metrics and findings.
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	// Close releases the database.
	Close() error
}
