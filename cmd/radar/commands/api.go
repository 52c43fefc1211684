package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcavalcanti/radar/internal/api"
	"github.com/mcavalcanti/radar/internal/api/handlers"
	"github.com/mcavalcanti/radar/internal/comparator"
	"github.com/mcavalcanti/radar/internal/contracts"
	"github.com/mcavalcanti/radar/internal/scanner"
	"github.com/mcavalcanti/radar/internal/storage"
	"github.com/mcavalcanti/radar/pkg/database"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                 - Health check
  GET  /metrics                - Prometheus metrics
  GET  /api/analyze/{symbol}   - Full single-symbol analysis
  POST /api/compare            - Side-by-side comparison
  POST /api/scan               - Synchronous scan
  GET  /api/scan/ws            - Scan with streamed progress
  GET  /api/scan/history       - Recent scan runs
  GET  /api/scan/runs/{id}     - One stored scan run
  GET  /api/universe           - Catalog categories
  GET  /api/universe/search    - Catalog search

Example:
  go run ./cmd/radar api
  go run ./cmd/radar api --port 8080`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	app, err := newAppContext()
	if err != nil {
		return err
	}
	defer app.close()

	if apiPort != "" {
		app.cfg.Port = apiPort
	}
	log := app.logger

	m := app.metrics

	// scan history is optional; without a database scans still run
	var store contracts.ScanStore
	var db *database.DB
	if app.cfg.Database.URL != "" {
		db, err = database.New(app.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		repo := storage.NewScanRepository(db.Pool)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			return fmt.Errorf("prepare scan schema: %w", err)
		}
		store = repo
		log.Info("Connected to database")
	} else {
		log.Warn("DATABASE_URL not set, scan history disabled")
	}

	analyzer := app.newAnalyzer()

	scanOpts := []scanner.Option{
		scanner.WithConcurrency(app.cfg.Scanner.Concurrency),
		scanner.WithPeriod(app.cfg.Scanner.DefaultPeriod),
		scanner.WithFetchTimeout(app.cfg.Provider.FetchTimeout),
	}
	if m != nil {
		scanOpts = append(scanOpts, scanner.WithMetrics(m))
	}
	scan := scanner.New(analyzer, log, scanOpts...)

	analysisHandler := handlers.NewAnalysisHandler(analyzer, comparator.New(analyzer, log), log)
	scanHandler := handlers.NewScanHandler(scan, store, log)
	universeHandler := handlers.NewUniverseHandler()
	scanSocket := api.NewScanSocket(analyzer, log, scanOpts...)

	router := api.NewRouter(analysisHandler, scanHandler, universeHandler, scanSocket, db, m, log)
	server := api.New(app.cfg, log, router)

	// graceful shutdown on SIGINT/SIGTERM
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.WithField("signal", sig.String()).Info("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
