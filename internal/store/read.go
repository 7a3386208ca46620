package store

import (
	"context"
	"fmt"
	"time"
)

// RunRecord is one row of run history.
type RunRecord struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Tool      string    `json:"tool"`
	Pattern   string    `json:"pattern"`
	Total     int       `json:"total"`
	OKCount   int       `json:"ok_count"`
	Failures  int       `json:"failures"`
	Passed    bool      `json:"passed"`
	Error     string    `json:"error,omitempty"`
}

// BandRecord is one band row of a recorded run.
type BandRecord struct {
	Band     string  `json:"band"`
	OK       bool    `json:"ok"`
	ExitCode int     `json:"exit_code"`
	Command  string  `json:"command"`
	Attempts int     `json:"attempts"`
	Log      string  `json:"log"`
	Seconds  float64 `json:"seconds"`
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means
// no limit.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
		SELECT run_id, started_at, tool, pattern, total, ok_count, failures, passed, error
		FROM runs
		ORDER BY run_id DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		var started string
		var passed int
		if err := rows.Scan(&r.RunID, &started, &r.Tool, &r.Pattern, &r.Total, &r.OKCount, &r.Failures, &passed, &r.Error); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		if ts, parseErr := time.Parse(time.RFC3339Nano, started); parseErr == nil {
			r.StartedAt = ts
		}
		r.Passed = passed != 0
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ListBands returns the band results of one recorded run, sorted
// alphabetically by band path.
func (s *Store) ListBands(ctx context.Context, runID string) ([]BandRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT band, ok, exit_code, command, attempts, log, seconds
		FROM band_results
		WHERE run_id = ?
		ORDER BY band
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("list bands %s: %w", runID, err)
	}
	defer rows.Close()

	var bands []BandRecord
	for rows.Next() {
		var b BandRecord
		var ok int
		if err := rows.Scan(&b.Band, &ok, &b.ExitCode, &b.Command, &b.Attempts, &b.Log, &b.Seconds); err != nil {
			return nil, fmt.Errorf("list bands %s: scan: %w", runID, err)
		}
		b.OK = ok != 0
		bands = append(bands, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bands %s: %w", runID, err)
	}
	return bands, nil
}
