package di

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/handler/api"
	"StockPulse/internal/handler/ws"
	mid "StockPulse/internal/middleware"
	internalrepo "StockPulse/internal/repository"
	icache "StockPulse/internal/service/cache"
	"StockPulse/internal/services/providers"
	"StockPulse/internal/services/sentiment"
	"StockPulse/internal/services/signal"
	"StockPulse/internal/usecase"
	pkgcache "StockPulse/pkg/cache"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	xhttp "StockPulse/pkg/http"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	pkgqueue "StockPulse/pkg/queue"
	"StockPulse/pkg/server"

	"github.com/redis/go-redis/v9"
)

// ProvideLogger creates the application logger. Console output in
// development, JSON in production.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", db),
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s.signals ("+
			"event_id String, symbol String, action String, confidence Float64, score Float64, "+
			"reasoning String, latest_close Float64, price_change Float64, ma5 Float64, ma20 Float64, "+
			"trend_strength Float64, sentiment_compound Float64, volume_ratio Float64, volatility_trend Float64, "+
			"generated_at DateTime) ENGINE=ReplacingMergeTree ORDER BY (symbol, generated_at)", db),
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSignalStore creates the ClickHouse signal repository.
func ProvideSignalStore(chClient *pkgch.Client, cfg *config.Config) repository.SignalStore {
	return internalrepo.NewCHSignalStore(chClient, cfg.ClickHouse.Database+".signals")
}

// ProvideSignalPublisher creates the Kafka publisher repository.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaSignalsHandler registers the handler for the signals topic.
func ProvideKafkaSignalsHandler(store repository.SignalStore, metrics repository.Metrics, cfg *config.Config) *usecase.KafkaSignalsHandler {
	return usecase.NewKafkaSignalsHandler(cfg.Kafka.Topic, store, metrics)
}

// ProvideMarketDataProvider selects the price history source from config.
func ProvideMarketDataProvider(cfg *config.Config) (domsvc.MarketDataProvider, error) {
	switch cfg.Providers.MarketData.Provider {
	case config.MarketDataAlphaVantage:
		return providers.NewAlphaVantageProvider(cfg), nil
	case config.MarketDataYahoo:
		return providers.NewYahooProvider(), nil
	default:
		return nil, fmt.Errorf("unknown market data provider: %s", cfg.Providers.MarketData.Provider)
	}
}

// ProvideNewsProvider selects the headline source from config.
func ProvideNewsProvider(cfg *config.Config) (domsvc.NewsProvider, error) {
	switch cfg.Providers.News.Provider {
	case config.NewsProviderNewsAPI:
		return providers.NewNewsAPIProvider(cfg), nil
	case config.NewsProviderGoogleNews:
		return providers.NewGoogleNewsProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unknown news provider: %s", cfg.Providers.News.Provider)
	}
}

// ProvideProfileProvider creates the Finnhub company profile client.
func ProvideProfileProvider(cfg *config.Config) domsvc.ProfileProvider {
	return providers.NewFinnhubProvider(cfg)
}

// ProvideSentimentAnalyzer creates the lexicon-based sentiment analyzer.
func ProvideSentimentAnalyzer() domsvc.SentimentAnalyzer {
	return sentiment.NewAnalyzer()
}

// ProvideSignalGenerator maps scoring weights and thresholds from config.
// An unset weights block falls back to the shipped tuning.
func ProvideSignalGenerator(cfg *config.Config) domsvc.SignalGenerator {
	gcfg := signal.Config{
		Weights: signal.Weights{
			Sentiment:  cfg.Signals.Weights.Sentiment,
			PriceTrend: cfg.Signals.Weights.PriceTrend,
			Volume:     cfg.Signals.Weights.Volume,
			Volatility: cfg.Signals.Weights.Volatility,
		},
		ScoreThreshold:           cfg.Signals.Thresholds.Score,
		SentimentThreshold:       cfg.Signals.Thresholds.Sentiment,
		PriceTrendThreshold:      cfg.Signals.Thresholds.PriceTrend,
		VolumeThreshold:          cfg.Signals.Thresholds.Volume,
		VolatilityTrendThreshold: cfg.Signals.Thresholds.VolatilityTrend,
	}
	if gcfg.Weights == (signal.Weights{}) {
		gcfg = signal.DefaultConfig()
	}
	return signal.NewGenerator(gcfg)
}

// ProvideCache creates the read-through cache: layered Redis+memory when
// Redis is enabled, in-process memory otherwise.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.RedisEnabled {
		return pkgcache.NewMemoryCache(), nil
	}
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(cfg.Cache.Redis.Host),
		pkgcache.WithRedisPort(cfg.Cache.Redis.Port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		pkgcache.WithRedisPool(cfg.Cache.Redis.PoolSize, cfg.Cache.Redis.MinIdleConns, cfg.Cache.Redis.PoolTimeout),
		pkgcache.WithRedisPrefix("stockpulse"),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc), nil
}

// ProvideAlertQueue creates the Redis-backed alert worker queue. Returns
// nil when alerts are disabled; callers treat a nil queue as "no alerts".
func ProvideAlertQueue(cfg *config.Config, lgr *applogger.Logger) *pkgqueue.RedisQueue {
	if !cfg.Alerts.Enabled {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	qcfg := &pkgqueue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		QueueSize:  cfg.Queue.QueueSize,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}
	q := pkgqueue.NewRedisQueue(lgr, qcfg, client, pkgqueue.ModeProducerConsumer,
		pkgqueue.WithKeyPrefix("stockpulse:queue"))
	q.RegisterJobs([]pkgqueue.Job{
		usecase.NewAlertJob(lgr),
		usecase.NewErrorReportJob(lgr),
	})
	return q
}

// ProvideSignalService creates the signal generation use case.
func ProvideSignalService(
	market domsvc.MarketDataProvider,
	news domsvc.NewsProvider,
	analyzer domsvc.SentimentAnalyzer,
	gen domsvc.SignalGenerator,
	metrics repository.Metrics,
	c pkgcache.Service,
	cfg *config.Config,
) *usecase.SignalService {
	svc := usecase.NewSignalService(market, news, analyzer, gen, metrics,
		cfg.Signals.HistoryBars, cfg.Signals.NewsLimit)
	svc.SetCache(c, cfg.Cache.TTL.Signal, cfg.Cache.TTL.News)
	return svc
}

// ProvideSignalBoard creates the multi-symbol board use case.
func ProvideSignalBoard(svc *usecase.SignalService) *usecase.SignalBoardUseCase {
	return usecase.NewSignalBoardUseCase(svc)
}

// ProvideMarketData creates the candles/profile/market-status use case.
func ProvideMarketData(
	market domsvc.MarketDataProvider,
	profile domsvc.ProfileProvider,
	c pkgcache.Service,
	cfg *config.Config,
) *usecase.MarketDataUseCase {
	uc := usecase.NewMarketDataUseCase(market, profile)
	uc.SetCache(c, cfg.Cache.TTL.Bars, cfg.Cache.TTL.Profile)
	return uc
}

// ProvideSignalProcessor creates the backend router for generated signals.
func ProvideSignalProcessor(
	pub repository.Publisher,
	store repository.SignalStore,
	metrics repository.Metrics,
	alertQueue *pkgqueue.RedisQueue,
	cfg *config.Config,
) *usecase.SignalProcessor {
	proc := usecase.NewSignalProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
	if alertQueue != nil {
		proc.SetAlerts(alertQueue, cfg.Alerts.MinConfidence)
	}
	return proc
}

// ProvideSignalRefresher creates the periodic refresh loop.
func ProvideSignalRefresher(
	svc *usecase.SignalService,
	proc *usecase.SignalProcessor,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.SignalRefresher {
	// Build middleware pipeline between refresher and backend
	pipe := mid.NewPublishPipeline(proc, metrics,
		mid.WithMinGap(time.Second),
		mid.WithBufferSize(256),
	)
	return usecase.NewSignalRefresher(svc, proc, metrics, pipe,
		cfg.Signals.Symbols, cfg.Signals.RefreshInterval)
}

// ProvideDashboardHandler creates the Echo HTTP handler.
func ProvideDashboardHandler(
	lgr *applogger.Logger,
	svc *usecase.SignalService,
	board *usecase.SignalBoardUseCase,
	market *usecase.MarketDataUseCase,
	store repository.SignalStore,
	cfg *config.Config,
) xhttp.Handler {
	h := api.NewDashboardHandler(lgr, svc, board, market, cfg.Backend.Type, cfg.Signals.Symbols)
	h.SetStore(store)
	if cfg.Cache.RedisEnabled {
		h.SetCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     fmt.Sprintf("%s:%d", cfg.Cache.Redis.Host, cfg.Cache.Redis.Port),
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		}))
	} else {
		h.SetCache(icache.NewTTLCache())
	}
	return h
}

// ProvideHub creates the websocket broadcast hub.
func ProvideHub() *ws.Hub {
	return ws.NewHub()
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	refresher *usecase.SignalRefresher,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSignalsHandler,
	chClient *pkgch.Client,
	httpHandler xhttp.Handler,
	hub *ws.Hub,
	alertQueue *pkgqueue.RedisQueue,
	metrics repository.Metrics,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NewHookChain(usecase.NewIngestHook(metrics)))
	}
	app := server.New(cfg, refresher, consumer, kh, chClient)
	app.SetHTTPHandler(httpHandler)
	app.SetHub(hub)
	if alertQueue != nil {
		app.SetAlertQueue(alertQueue)
	}
	// attach signal processor to app for closing resources via refresher
	if refresher != nil {
		app.SignalProc = refresher.Processor()
	}
	return app
}
