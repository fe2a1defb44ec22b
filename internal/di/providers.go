package di

import (
	"context"
	"fmt"
	"time"

	"FundPulse/internal/domain/repository"
	"FundPulse/internal/handler/api"
	internalrepo "FundPulse/internal/repository"
	"FundPulse/internal/service/stream"
	"FundPulse/internal/usecase"
	pkgcache "FundPulse/pkg/cache"
	pkgch "FundPulse/pkg/clickhouse"
	"FundPulse/pkg/config"
	xhttp "FundPulse/pkg/http"
	pkgkafka "FundPulse/pkg/kafka"
	applogger "FundPulse/pkg/logger"
	"FundPulse/pkg/metrics"
	"FundPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideClickHouseClient creates a ClickHouse client and ensures the schema.
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

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stmts := append(
		[]string{fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.ClickHouse.Database)},
		internalrepo.SchemaStatements(navTable(cfg))...,
	)
	if err := client.InitSchema(ctx, stmts); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

func navTable(cfg *config.Config) string {
	return cfg.ClickHouse.Database + ".nav_history"
}

// ProvideNavStore creates the ClickHouse NAV store.
func ProvideNavStore(chClient *pkgch.Client, cfg *config.Config) repository.NavStore {
	return internalrepo.NewClickHouseNavStore(chClient.DB(), navTable(cfg), cfg.ClickHouse.BatchSize)
}

// ProvideCache creates the snapshot cache: Redis when enabled, memory otherwise.
func ProvideCache(cfg *config.Config) (pkgcache.Service, error) {
	if cfg.Cache.Redis.Enabled {
		c, err := pkgcache.NewRedisCache(
			pkgcache.WithRedisAddr(cfg.Cache.Redis.Addr),
			pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
			pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return pkgcache.NewMemoryCache(), nil
}

// ProvideAlertPublisher creates the Kafka alert publisher, or a noop when
// alerting is disabled.
func ProvideAlertPublisher(cfg *config.Config) (repository.AlertPublisher, error) {
	if !cfg.Alerts.Enabled {
		return internalrepo.NoopAlertPublisher{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Alerts.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Alerts.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Alerts.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Alerts.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Alerts.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Alerts.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Alerts.Kafka.Producer.WriteTimeout, cfg.Alerts.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Alerts.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Alerts.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaAlertPublisher(producer, cfg.Alerts.Kafka.Topic), nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideAnalysisUseCase creates the analysis use case from config.
func ProvideAnalysisUseCase(
	store repository.NavStore,
	cache pkgcache.Service,
	alerts repository.AlertPublisher,
	m repository.Metrics,
	log *applogger.Logger,
	cfg *config.Config,
) *usecase.AnalysisUseCase {
	return usecase.NewAnalysisUseCase(store, cache, alerts, m, log, usecase.AnalysisOptions{
		Window:                cfg.Analysis.Window,
		MinPeriods:            cfg.Analysis.MinPeriods,
		ZscoreThreshold:       cfg.Analysis.ZscoreThreshold,
		HighSeverityThreshold: cfg.Analysis.HighSeverityThreshold,
		AnomalyLookbackDays:   cfg.Analysis.AnomalyLookbackDays,
		MaxDetailPoints:       cfg.Analysis.MaxDetailPoints,
		SnapshotTTL:           cfg.Cache.SnapshotTTL,
	})
}

// ProvideIngestUseCase creates the CSV ingestion use case.
func ProvideIngestUseCase(store repository.NavStore, analysis *usecase.AnalysisUseCase, log *applogger.Logger) *usecase.IngestUseCase {
	return usecase.NewIngestUseCase(store, analysis, log)
}

// ProvideSeeder creates the sample-data seeder.
func ProvideSeeder(store repository.NavStore, log *applogger.Logger, cfg *config.Config) *usecase.SeederUseCase {
	return usecase.NewSeederUseCase(store, log, cfg.Data.Seed, cfg.Data.SchemeCount)
}

// ProvideSimulator creates the WebSocket stream simulator.
func ProvideSimulator(analysis *usecase.AnalysisUseCase, log *applogger.Logger) *stream.Simulator {
	return stream.NewSimulator(analysis, log)
}

// ProvideHandler creates the dashboard HTTP handler.
func ProvideHandler(
	log *applogger.Logger,
	analysis *usecase.AnalysisUseCase,
	ingest *usecase.IngestUseCase,
	simulator *stream.Simulator,
) xhttp.Handler {
	return api.NewDashboardHandler(log, analysis, ingest, simulator)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	seeder *usecase.SeederUseCase,
	chClient *pkgch.Client,
	cache pkgcache.Service,
	alerts repository.AlertPublisher,
) *server.App {
	return server.New(cfg, log, handler, seeder, chClient, cache, alerts)
}
