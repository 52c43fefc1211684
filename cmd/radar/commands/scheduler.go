package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/internal/scanner"
	"github.com/mcavalcanti/radar/internal/scheduler"
	"github.com/mcavalcanti/radar/internal/scheduler/jobs"
	"github.com/mcavalcanti/radar/internal/storage"
	"github.com/mcavalcanti/radar/pkg/database"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run scheduled scans",
	Long: `Starts the scheduler daemon and runs the nightly market scan on a
cron schedule. Requires a database to persist scan history.

Example:
  go run ./cmd/radar scheduler start
  go run ./cmd/radar scheduler start --cron "0 0 22 * * 1-5" --categories usa_tech`,
}

var schedulerStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the scheduler daemon",
	RunE:  runScheduler,
}

var (
	schedCron       string
	schedCategories []string
	schedMinScore   float64
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)

	schedulerStartCmd.Flags().StringVar(&schedCron, "cron", "0 30 21 * * 1-5", "cron expression (with seconds)")
	schedulerStartCmd.Flags().StringSliceVar(&schedCategories, "categories", nil, "categories to scan (default: all)")
	schedulerStartCmd.Flags().Float64Var(&schedMinScore, "min-score", 50, "minimum final score to keep")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()
	log := app.logger

	if app.cfg.Database.URL == "" {
		return fmt.Errorf("scheduler requires DATABASE_URL for scan history")
	}

	db, err := database.New(app.cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	repo := storage.NewScanRepository(db.Pool)
	if err := repo.EnsureSchema(context.Background()); err != nil {
		return fmt.Errorf("prepare scan schema: %w", err)
	}

	scan := scanner.New(app.newAnalyzer(), log,
		scanner.WithConcurrency(app.cfg.Scanner.Concurrency),
		scanner.WithPeriod(app.cfg.Scanner.DefaultPeriod),
		scanner.WithFetchTimeout(app.cfg.Provider.FetchTimeout),
	)

	filters := contracts.FilterSpec{MinScore: schedMinScore}
	job := jobs.NewScheduledScan(scan, repo, log, schedCategories, filters, schedCron)

	sched := scheduler.New(log)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	log.Info("Scheduler running, press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sched.Stop()
	return nil
}
