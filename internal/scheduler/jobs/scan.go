// Package jobs contains the concrete scheduled jobs
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/internal/scanner"
	"github.com/mcavalcanti/radar/internal/universe"
	"github.com/mcavalcanti/radar/pkg/logger"
)

// scanDeadline bounds one scheduled scan run
const scanDeadline = 30 * time.Minute

// ScheduledScan scans a set of universe categories on a cron schedule and
// persists the summary when a store is configured.
type ScheduledScan struct {
	scanner    *scanner.Scanner
	store      contracts.ScanStore
	logger     *logger.Logger
	categories []string
	filters    contracts.FilterSpec
	schedule   string
}

// NewScheduledScan creates a scheduled scan job. An empty categories list
// scans the whole catalog.
func NewScheduledScan(
	s *scanner.Scanner,
	store contracts.ScanStore,
	log *logger.Logger,
	categories []string,
	filters contracts.FilterSpec,
	schedule string,
) *ScheduledScan {
	return &ScheduledScan{
		scanner:    s,
		store:      store,
		logger:     log,
		categories: categories,
		filters:    filters,
		schedule:   schedule,
	}
}

// Name returns the job name
func (j *ScheduledScan) Name() string {
	return "scheduled_scan"
}

// Schedule returns the cron expression
func (j *ScheduledScan) Schedule() string {
	return j.schedule
}

// Run executes one scan over the configured categories
func (j *ScheduledScan) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, scanDeadline)
	defer cancel()

	symbols := universe.Symbols(j.categories...)
	if len(j.categories) == 0 {
		symbols = universe.All()
	}
	if len(symbols) == 0 {
		return fmt.Errorf("no symbols for categories %v", j.categories)
	}

	summary, err := j.scanner.Scan(ctx, symbols, j.filters)
	if err != nil {
		return fmt.Errorf("scheduled scan failed: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"run_id":    summary.RunID,
		"requested": summary.TotalRequested,
		"succeeded": summary.TotalSucceeded,
		"failed":    summary.TotalFailed,
		"duration":  summary.Duration,
	}).Info("Scheduled scan completed")

	if j.store != nil {
		if err := j.store.SaveScan(ctx, summary); err != nil {
			return fmt.Errorf("failed to persist scheduled scan: %w", err)
		}
	}

	return nil
}
