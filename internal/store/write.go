package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/bandprobe/internal/suite"
)

// RecordRun inserts a suite summary and its band results in one
// transaction. Duplicate run IDs are rejected: run IDs are UUIDv7, so a
// collision means the caller recorded the same run twice.
func (s *Store) RecordRun(ctx context.Context, sum *suite.Summary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, started_at, tool, pattern, total, ok_count, failures, passed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sum.RunID,
		sum.StartedAt.UTC().Format(time.RFC3339Nano),
		strings.Join(sum.Tool, " "),
		sum.Pattern,
		sum.Total,
		sum.OKCount,
		sum.Failures,
		boolToInt(sum.OK),
		sum.Error,
	)
	if err != nil {
		return fmt.Errorf("record run %s: %w", sum.RunID, err)
	}

	for _, res := range sum.Results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO band_results
			(run_id, band, ok, exit_code, command, attempts, log, seconds)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`,
			sum.RunID,
			res.Band,
			boolToInt(res.OK),
			res.ExitCode,
			strings.Join(res.Command, " "),
			res.Attempts,
			res.Log,
			res.Seconds,
		)
		if err != nil {
			return fmt.Errorf("record band %s/%s: %w", sum.RunID, res.Band, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run %s: commit: %w", sum.RunID, err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
