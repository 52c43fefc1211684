// Package storage persists completed scan runs in PostgreSQL
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mcavalcanti/radar/internal/contracts"
)

// ErrScanNotFound is returned when a run ID has no stored scan
var ErrScanNotFound = fmt.Errorf("scan not found")

// ScanRepository handles scan history persistence
type ScanRepository struct {
	pool *pgxpool.Pool
}

// NewScanRepository creates a new scan repository
func NewScanRepository(pool *pgxpool.Pool) *ScanRepository {
	return &ScanRepository{pool: pool}
}

// EnsureSchema creates the scan history table when missing
func (r *ScanRepository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS scan_runs (
			run_id          TEXT PRIMARY KEY,
			started_at      TIMESTAMPTZ NOT NULL,
			duration_ms     BIGINT NOT NULL,
			total_requested INT NOT NULL,
			total_succeeded INT NOT NULL,
			total_failed    INT NOT NULL,
			results         JSONB NOT NULL,
			failures        JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scan_runs_started_at
			ON scan_runs (started_at DESC);
	`

	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create scan schema: %w", err)
	}
	return nil
}

// SaveScan stores a completed scan run
func (r *ScanRepository) SaveScan(ctx context.Context, summary *contracts.ScanSummary) error {
	resultsJSON, err := json.Marshal(summary.Results)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	failuresJSON, err := json.Marshal(summary.Failures)
	if err != nil {
		return fmt.Errorf("failed to marshal failures: %w", err)
	}

	query := `
		INSERT INTO scan_runs (
			run_id, started_at, duration_ms,
			total_requested, total_succeeded, total_failed,
			results, failures
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (run_id) DO NOTHING
	`

	_, err = r.pool.Exec(ctx, query,
		summary.RunID, summary.StartedAt, summary.Duration.Milliseconds(),
		summary.TotalRequested, summary.TotalSucceeded, summary.TotalFailed,
		resultsJSON, failuresJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to save scan: %w", err)
	}

	return nil
}

// ListScans returns the most recent scan runs, newest first
func (r *ScanRepository) ListScans(ctx context.Context, limit int) ([]contracts.ScanSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT run_id, started_at, duration_ms,
		       total_requested, total_succeeded, total_failed,
		       results, failures
		FROM scan_runs
		ORDER BY started_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	summaries := make([]contracts.ScanSummary, 0, limit)

	for rows.Next() {
		summary, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return summaries, nil
}

// GetScan retrieves a single scan run by its ID
func (r *ScanRepository) GetScan(ctx context.Context, runID string) (*contracts.ScanSummary, error) {
	query := `
		SELECT run_id, started_at, duration_ms,
		       total_requested, total_succeeded, total_failed,
		       results, failures
		FROM scan_runs
		WHERE run_id = $1
	`

	row := r.pool.QueryRow(ctx, query, runID)
	summary, err := scanRow(row)
	if err == pgx.ErrNoRows {
		return nil, ErrScanNotFound
	}
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// scanRow maps one scan_runs row onto a summary
func scanRow(row pgx.Row) (*contracts.ScanSummary, error) {
	var summary contracts.ScanSummary
	var durationMs int64
	var resultsJSON, failuresJSON []byte

	err := row.Scan(
		&summary.RunID, &summary.StartedAt, &durationMs,
		&summary.TotalRequested, &summary.TotalSucceeded, &summary.TotalFailed,
		&resultsJSON, &failuresJSON,
	)
	if err == pgx.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	summary.Duration = time.Duration(durationMs) * time.Millisecond

	if err := json.Unmarshal(resultsJSON, &summary.Results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal results: %w", err)
	}
	if err := json.Unmarshal(failuresJSON, &summary.Failures); err != nil {
		return nil, fmt.Errorf("failed to unmarshal failures: %w", err)
	}

	return &summary, nil
}
