package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"SmallCapLab/internal/handler/api"
	icache "SmallCapLab/internal/service/cache"
	pkgch "SmallCapLab/pkg/clickhouse"
	"SmallCapLab/pkg/config"
	xhttp "SmallCapLab/pkg/http"
	pkgkafka "SmallCapLab/pkg/kafka"
	applogger "SmallCapLab/pkg/logger"
)

const (
	janitorInterval = time.Minute
	limiterIdle     = 10 * time.Minute
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handler    *api.Handler
	cache      icache.BytesCache
	chClient   *pkgch.Client
	producer   *pkgkafka.Producer
	httpServer *xhttp.Server
}

// New creates a new App instance. chClient and producer may be nil.
func New(
	cfg *config.Config,
	logger *applogger.Logger,
	handler *api.Handler,
	cache icache.BytesCache,
	chClient *pkgch.Client,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:      cfg,
		logger:   logger,
		handler:  handler,
		cache:    cache,
		chClient: chClient,
		producer: producer,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return a.RunContext(ctx)
}

// RunContext starts the HTTP server and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetrics(a.cfg.Metrics.Enabled, a.cfg.Metrics.Path),
		xhttp.WithCORS(a.cfg.Server.CORSOrigins...),
		xhttp.WithSlowThreshold(a.cfg.Server.SlowThreshold),
		xhttp.WithLogger(a.logger),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("smallcap lab started",
		applogger.String("env", a.cfg.Environment),
		applogger.String("quote_source", a.cfg.Quotes.Source),
		applogger.Strings("exchanges", a.cfg.Quotes.Exchanges),
		applogger.Bool("regime", a.cfg.Regime.ServiceURL != "" && a.chClient != nil),
	)

	go a.janitor(ctx)

	<-ctx.Done()
	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// janitor periodically drops idle rate limit buckets and expired cache entries.
func (a *App) janitor(ctx context.Context) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	purger, _ := a.cache.(interface{ Purge() int })
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if a.handler != nil {
				a.handler.SweepLimiter(limiterIdle)
			}
			if purger != nil {
				purger.Purge()
			}
		}
	}
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	a.logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	// Flush aggregated error logs while the producer is still open.
	a.logger.RemoveCollector()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.logger.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
