package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// RecordRun stores a finished run with its metrics and finding counts.
func (s *SQLiteStore) RecordRun(ctx context.Context, rec RunRecord) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := rec.Run
	run.ID = generateID()
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	run.StartedAt = run.StartedAt.UTC()

	s.logger.Debug("recording run", slog.String("id", run.ID), slog.Int("files", run.Files))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, duration_ms, files, errors, warnings, notices)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.Duration.Milliseconds(), run.Files, run.Errors, run.Warnings, run.Notices,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	for _, m := range rec.Metrics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_metrics (run_id, name, value, count) VALUES (?, ?, ?, ?)`,
			run.ID, m.Name, m.Value, m.Count,
		); err != nil {
			return nil, fmt.Errorf("failed to insert metric %s: %w", m.Name, err)
		}
	}

	for _, f := range rec.Findings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO run_findings (run_id, source, count) VALUES (?, ?, ?)`,
			run.ID, f.Source, f.Count,
		); err != nil {
			return nil, fmt.Errorf("failed to insert finding %s: %w", f.Source, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit run: %w", err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs first. A limit below 1 returns all.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit < 1 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, duration_ms, files, errors, warnings, notices
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

// GetRun retrieves a run by ID with its metrics and findings.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, duration_ms, files, errors, warnings, notices
		 FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, err
	}

	rec := &RunRecord{Run: *run}
	if rec.Metrics, err = s.runMetrics(ctx, id); err != nil {
		return nil, err
	}
	if rec.Findings, err = s.runFindings(ctx, id); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *SQLiteStore) runMetrics(ctx context.Context, id string) ([]MetricCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, value, count FROM run_metrics WHERE run_id = ? ORDER BY name, count DESC, value`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run metrics: %w", err)
	}
	defer rows.Close()

	var out []MetricCount
	for rows.Next() {
		var m MetricCount
		if err := rows.Scan(&m.Name, &m.Value, &m.Count); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) runFindings(ctx context.Context, id string) ([]SourceCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, count FROM run_findings WHERE run_id = ? ORDER BY count DESC, source`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run findings: %w", err)
	}
	defer rows.Close()

	var out []SourceCount
	for rows.Next() {
		var f SourceCount
		if err := rows.Scan(&f.Source, &f.Count); err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var durationMS int64
	err := row.Scan(&run.ID, &run.StartedAt, &durationMS, &run.Files, &run.Errors, &run.Warnings, &run.Notices)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}
	run.Duration = time.Duration(durationMS) * time.Millisecond
	return &run, nil
}
