package di

import (
	"context"
	"fmt"
	"time"

	"SmallCapLab/internal/domain/repository"
	domsvc "SmallCapLab/internal/domain/service"
	"SmallCapLab/internal/handler/api"
	internalrepo "SmallCapLab/internal/repository"
	"SmallCapLab/internal/service/cache"
	"SmallCapLab/internal/service/fmp"
	svcmetrics "SmallCapLab/internal/service/metrics"
	"SmallCapLab/internal/service/quotesource"
	"SmallCapLab/internal/services/analytics"
	"SmallCapLab/internal/usecase"
	pkgch "SmallCapLab/pkg/clickhouse"
	"SmallCapLab/pkg/config"
	pkgkafka "SmallCapLab/pkg/kafka"
	applogger "SmallCapLab/pkg/logger"
	"SmallCapLab/pkg/metrics"
	"SmallCapLab/pkg/server"
)

// QuoteSources maps every configured exchange to its guarded quote source.
type QuoteSources map[repository.Exchange]repository.QuoteSource

// ProvideKafkaProducer creates a Kafka producer, or nil when no brokers are set.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithWriteTimeout(cfg.Kafka.WriteTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLogger creates the application logger. Error logs are aggregated and
// shipped to Kafka when a collect topic and a producer are available.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	if producer != nil && cfg.Log.CollectTopic != "" {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Log.CollectInterval,
			CountThreshold: cfg.Log.CollectCount,
			Topic:          cfg.Log.CollectTopic,
			Publisher:      producer,
		})
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideClickHouseClient connects to ClickHouse when a host is configured and
// returns nil otherwise.
func ProvideClickHouseClient(cfg *config.Config, l *applogger.Logger) (*pkgch.Client, error) {
	if cfg.ClickHouse.Host == "" {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, pkgch.Schema(cfg.ClickHouse.Database, cfg.Quotes.Table, cfg.Regime.Table)); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	l.Info("clickhouse connected", applogger.String("db", cfg.ClickHouse.Database))
	return client, nil
}

// ProvideQuoteSources builds the configured quote source once and shares it,
// behind the rate limiter and per-exchange breakers, across every exchange.
func ProvideQuoteSources(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) (QuoteSources, error) {
	var base repository.QuoteSource
	switch cfg.Quotes.Source {
	case config.QuoteSourceFMP:
		base = fmp.New(
			fmp.WithBaseURL(cfg.FMP.BaseURL),
			fmp.WithAPIKey(cfg.FMP.APIKey),
			fmp.WithTimeout(cfg.FMP.Timeout),
		)
	case config.QuoteSourceClickHouse:
		if ch == nil {
			return nil, fmt.Errorf("quote source %q requires clickhouse", cfg.Quotes.Source)
		}
		base = internalrepo.NewCHQuoteSource(ch, cfg.Quotes.Table)
	default:
		return nil, fmt.Errorf("unknown quote source %q", cfg.Quotes.Source)
	}

	guarded := quotesource.NewGuarded(base, quotesource.Settings{
		RatePerSecond: cfg.Quotes.RatePerSecond,
		RateBurst:     cfg.Quotes.RateBurst,
		MaxFailures:   cfg.Quotes.Breaker.MaxFailures,
		OpenTimeout:   cfg.Quotes.Breaker.OpenTimeout,
	}, l)

	sources := make(QuoteSources, len(cfg.Quotes.Exchanges))
	for _, ex := range cfg.Quotes.Exchanges {
		sources[repository.NormalizeExchange(ex)] = guarded
	}
	return sources, nil
}

// ProvideScreener creates the screening use case. Configured exchanges are
// merged in the order they are listed.
func ProvideScreener(cfg *config.Config, sources QuoteSources, m repository.Metrics, l *applogger.Logger) *usecase.Screener {
	order := make([]repository.Exchange, 0, len(cfg.Quotes.Exchanges))
	for _, ex := range cfg.Quotes.Exchanges {
		order = append(order, repository.NormalizeExchange(ex))
	}
	return usecase.NewScreener(sources,
		usecase.WithPriority(order),
		usecase.WithFetchTimeout(cfg.Quotes.FetchTimeout),
		usecase.WithScreenerMetrics(m),
		usecase.WithScreenerLogger(l),
	)
}

// ProvideConfidenceProvider returns the regime backed provider when both the
// regime service and the candle store are available, nil otherwise.
func ProvideConfidenceProvider(cfg *config.Config, ch *pkgch.Client, l *applogger.Logger) domsvc.ConfidenceProvider {
	if cfg.Regime.ServiceURL == "" || ch == nil {
		return nil
	}
	store := internalrepo.NewCHFeatureStore(ch, cfg.Regime.Table)
	store.SetLogger(l)
	detector := analytics.NewHTTPRegimeDetector(cfg.Regime.ServiceURL, cfg.Regime.Timeout)
	return usecase.NewRegimeConfidence(store, detector, cfg.Regime.Lookback)
}

// ProvideSignalUseCase creates the sizing use case.
func ProvideSignalUseCase(provider domsvc.ConfidenceProvider, m repository.Metrics, l *applogger.Logger) *usecase.SignalUseCase {
	return usecase.NewSignalUseCase(provider, m, l)
}

// ProvideResponseCache returns Redis when enabled, an in-process cache otherwise.
func ProvideResponseCache(cfg *config.Config, l *applogger.Logger) cache.BytesCache {
	if !cfg.Redis.Enabled {
		return cache.NewTTLCache()
	}
	rc := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Redis.Prefix,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Ping(ctx); err != nil {
		l.Warn("redis unreachable, using in-process cache", applogger.String("addr", cfg.Redis.Addr), applogger.Error(err))
		return cache.NewTTLCache()
	}
	return rc
}

// ProvideHTTPHandler creates the API handler.
func ProvideHTTPHandler(
	cfg *config.Config,
	l *applogger.Logger,
	screener *usecase.Screener,
	signal *usecase.SignalUseCase,
	c cache.BytesCache,
) *api.Handler {
	svcmetrics.Register()
	return api.NewHandler(l, screener, signal, c, api.Options{
		ScreenCacheTTL: cfg.Screen.CacheTTL,
		ScreenLimit:    api.RateLimit{Burst: cfg.RateLimit.Screen.Burst, PerSecond: cfg.RateLimit.Screen.PerSecond},
		SignalLimit:    api.RateLimit{Burst: cfg.RateLimit.Signal.Burst, PerSecond: cfg.RateLimit.Signal.PerSecond},
	})
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	h *api.Handler,
	c cache.BytesCache,
	ch *pkgch.Client,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, l, h, c, ch, producer)
}
