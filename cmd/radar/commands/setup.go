package commands

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcavalcanti/radar/internal/analyzer"
	"github.com/mcavalcanti/radar/internal/provider/yahoo"
	"github.com/mcavalcanti/radar/internal/scoring"
	"github.com/mcavalcanti/radar/pkg/config"
	"github.com/mcavalcanti/radar/pkg/logger"
	"github.com/mcavalcanti/radar/pkg/metrics"
	"github.com/mcavalcanti/radar/pkg/redis"
)

// appContext bundles the pieces every command needs
type appContext struct {
	cfg      *config.Config
	logger   *logger.Logger
	policy   *scoring.Policy
	provider *yahoo.Client
	redis    *redis.Client
	metrics  *metrics.Metrics
}

// newAppContext loads config and wires the provider stack
func newAppContext() (*appContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
		cfg.LogFormat = "console"
	}

	log := logger.New(cfg)

	policy := scoring.Default()
	if cfg.PolicyFile != "" {
		policy, err = scoring.Load(cfg.PolicyFile)
		if err != nil {
			return nil, fmt.Errorf("load scoring policy: %w", err)
		}
		hash, err := policy.Hash()
		if err != nil {
			return nil, fmt.Errorf("hash scoring policy: %w", err)
		}
		log.WithFields(map[string]interface{}{
			"file": cfg.PolicyFile,
			"hash": hash[:12],
		}).Info("Loaded scoring policy")
	}

	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	opts := []yahoo.Option{}
	if rdb.Enabled() {
		opts = append(opts,
			yahoo.WithCache(redis.NewCache(rdb, "radar")),
			yahoo.WithSharedRateLimit(redis.NewRateLimiter(rdb, "radar")),
		)
	}
	if m != nil {
		opts = append(opts, yahoo.WithMetrics(m))
	}
	provider := yahoo.New(cfg.Provider, log, opts...)

	return &appContext{
		cfg:      cfg,
		logger:   log,
		policy:   policy,
		provider: provider,
		redis:    rdb,
		metrics:  m,
	}, nil
}

// newAnalyzer builds an analyzer with sentiment enabled
func (app *appContext) newAnalyzer() *analyzer.Analyzer {
	return analyzer.New(app.provider, app.policy, app.logger,
		analyzer.WithSentiment(app.provider),
		analyzer.WithMinHistory(app.cfg.Scanner.MinHistory),
	)
}

// close releases shared resources
func (app *appContext) close() {
	if app.redis != nil {
		app.redis.Close()
	}
}
