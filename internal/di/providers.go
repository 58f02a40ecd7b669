package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"TradeCoin/internal/domain/repository"
	"TradeCoin/internal/handler/api"
	mid "TradeCoin/internal/middleware"
	internalrepo "TradeCoin/internal/repository"
	icache "TradeCoin/internal/service/cache"
	"TradeCoin/internal/service/feed"
	"TradeCoin/internal/service/ratelimit"
	"TradeCoin/internal/usecase"
	pkgcache "TradeCoin/pkg/cache"
	pkgch "TradeCoin/pkg/clickhouse"
	"TradeCoin/pkg/config"
	pkgkafka "TradeCoin/pkg/kafka"
	"TradeCoin/pkg/logger"
	"TradeCoin/pkg/metrics"
	"TradeCoin/pkg/queue"
	"TradeCoin/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return logger.New(&logger.Config{Level: "info", Format: format, Output: "stdout"})
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
		"CREATE DATABASE IF NOT EXISTS " + db,
		"CREATE TABLE IF NOT EXISTS " + db + `.signals (
			id String,
			ts DateTime64(3),
			symbol String,
			sentiment String,
			confidence Int32,
			est_change_pct Int32,
			action String,
			leverage Float64,
			risk String,
			reasoning String,
			entry_start String,
			entry_end String,
			exit_start String,
			exit_end String,
			price Float64
		) ENGINE=MergeTree ORDER BY (symbol, ts)`,
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

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRedisCache connects to Redis when enabled; a nil return means
// the in-process fallbacks are used instead.
func ProvideRedisCache(cfg *config.Config) (*pkgcache.RedisCache, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}
	host, portStr, err := net.SplitHostPort(cfg.Redis.Addr)
	if err != nil {
		return nil, fmt.Errorf("redis addr: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("redis port: %w", err)
	}
	return pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
}

// ProvideSignalStorage creates the ClickHouse signal history repository.
func ProvideSignalStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	return internalrepo.NewClickHouseSignalStore(chClient.DB(), cfg.ClickHouse.Database+".signals")
}

// ProvideSignalPublisher creates the Kafka publisher repository.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)
}

// ProvideUsageCounter tracks per-user daily consumption in Redis. Without
// Redis the feed still works, only usage accounting is skipped.
func ProvideUsageCounter(rc *pkgcache.RedisCache, log *logger.Logger) repository.UsageCounter {
	if rc == nil {
		return nil
	}
	return internalrepo.NewRedisUsageCounter(rc.Client(), log)
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

// ProvideKafkaSignalsHandler registers the raw-signal topic handler.
func ProvideKafkaSignalsHandler(store repository.Storage, m repository.Metrics, cfg *config.Config) *usecase.KafkaSignalsHandler {
	return usecase.NewKafkaSignalsHandler(cfg.Kafka.Topic, store, m)
}

// ProvideSignalFeed selects the upstream feed transport from config.
func ProvideSignalFeed(cfg *config.Config) repository.SignalFeed {
	if cfg.Feed.Mode == "stream" {
		return feed.NewStream(cfg.Feed.WebSocketURL, cfg.Feed.ReconnectDelay, cfg.Feed.PingInterval)
	}
	return feed.NewPoller(cfg.Feed.BaseURL, cfg.Feed.PollInterval, cfg.Feed.Timeout)
}

// ProvideSignalProcessor creates the canonical signal processor use case.
func ProvideSignalProcessor(
	pub repository.Publisher,
	store repository.Storage,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.SignalProcessor {
	return usecase.NewSignalProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideNotifier enqueues alert jobs for high-confidence signals when
// notifications are enabled and Redis is available.
func ProvideNotifier(cfg *config.Config, rc *pkgcache.RedisCache, log *logger.Logger) *usecase.Notifier {
	if !cfg.Notifications.Enabled || rc == nil {
		return nil
	}
	q := queue.NewRedisPublisher(log, rc.Client())
	return usecase.NewNotifier(q, cfg.Notifications.MinConfidence)
}

// ProvideSignalCollector creates the collector that drives the ingest path.
func ProvideSignalCollector(
	f repository.SignalFeed,
	proc *usecase.SignalProcessor,
	m repository.Metrics,
	log *logger.Logger,
	notifier *usecase.Notifier,
) *usecase.SignalCollector {
	ing := usecase.NewRawIngestor(proc, m, log)
	if notifier != nil {
		ing.SetNotifier(notifier)
	}
	// Build middleware pipeline between the upstream feed and the backend
	pipe := mid.NewIngestPipeline(ing, m,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewSignalCollector(f, ing, m, pipe)
}

// ProvideSignalsFeedUseCase creates the query-side use case.
func ProvideSignalsFeedUseCase(store repository.Storage, usage repository.UsageCounter, m repository.Metrics) *usecase.SignalsFeedUseCase {
	return usecase.NewSignalsFeedUseCase(store, usage, m)
}

// ProvideApp assembles the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	collector *usecase.SignalCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSignalsHandler,
	chClient *pkgch.Client,
	handler *api.SignalsEchoHandler,
	proc *usecase.SignalProcessor,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, log, collector, consumer, kh, chClient, handler)
	app.SignalProc = proc
	return app
}

// ProvideHTTPHandler builds the Echo handler with per-tier rate limiting
// and short-lived response caching.
func ProvideHTTPHandler(
	log *logger.Logger,
	feedUC *usecase.SignalsFeedUseCase,
	store repository.Storage,
	rc *pkgcache.RedisCache,
) *api.SignalsEchoHandler {
	var bytesCache icache.BytesCache
	if rc != nil {
		// Memory-over-redis: hot responses served from the in-process
		// layer, redis keeps replicas consistent across restarts.
		bytesCache = icache.NewServiceCache(pkgcache.NewLayeredCache(rc))
	} else {
		bytesCache = icache.NewTTLCache()
	}
	return api.NewSignalsEchoHandler(log, feedUC, store, ratelimit.New(), bytesCache)
}
