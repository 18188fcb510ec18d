package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	httpadapter "github.com/couchcryptid/aquaguard-risk/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/aquaguard-risk/internal/adapter/kafka"
	mqttadapter "github.com/couchcryptid/aquaguard-risk/internal/adapter/mqtt"
	"github.com/couchcryptid/aquaguard-risk/internal/config"
	"github.com/couchcryptid/aquaguard-risk/internal/domain"
	"github.com/couchcryptid/aquaguard-risk/internal/locale"
	"github.com/couchcryptid/aquaguard-risk/internal/observability"
	"github.com/couchcryptid/aquaguard-risk/internal/pipeline"
	"github.com/couchcryptid/aquaguard-risk/internal/service"
	"github.com/couchcryptid/aquaguard-risk/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat).With("service", "aquaguard-risk")
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reportStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open report store", "error", err)
		os.Exit(1)
	}
	// closers run in reverse order during shutdown.
	closers := []namedCloser{}
	if c, ok := reportStore.(io.Closer); ok {
		closers = append(closers, namedCloser{"report store", c})
	}

	translator, err := locale.New(cfg.DefaultLanguage)
	if err != nil {
		logger.Error("failed to load translations", "error", err)
		os.Exit(1)
	}

	analyzer := domain.AnalyzerOptions{AbdominalCramps: cfg.SymptomExtendedRules}
	opts := service.Options{
		Analyzer:             analyzer,
		IdempotencyCacheSize: cfg.IdempotencyCacheSize,
		Logger:               logger,
		Metrics:              metrics,
	}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts.Publisher = writer
		closers = append(closers, namedCloser{"kafka writer", writer})
	}

	reports := service.New(reportStore, opts)
	transformer := pipeline.NewTransformer(analyzer, logger)

	var pipelines []*pipeline.Pipeline
	if cfg.KafkaEnabled {
		reader := kafkaadapter.NewReader(cfg, logger)
		closers = append(closers, namedCloser{"kafka reader", reader})
		pipelines = append(pipelines,
			pipeline.New("kafka", reader, transformer, reports, logger, metrics, cfg.BatchSize))
	}
	if cfg.MQTTEnabled {
		sub, err := mqttadapter.NewSubscriber(cfg, logger)
		if err != nil {
			logger.Error("failed to connect mqtt subscriber", "error", err)
			os.Exit(1)
		}
		closers = append(closers, namedCloser{"mqtt subscriber", sub})
		pipelines = append(pipelines,
			pipeline.New("mqtt", sub, transformer, reports, logger, metrics, cfg.BatchSize))
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, reports, translator, reports, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start ingestion pipelines.
	var wg sync.WaitGroup
	for _, p := range pipelines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "source", p.Name(), "error", err)
			}
		}()
	}
	logger.Info("service started",
		"store", cfg.StoreBackend,
		"kafka", cfg.KafkaEnabled,
		"mqtt", cfg.MQTTEnabled,
		"extended_symptom_rules", cfg.SymptomExtendedRules,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	wg.Wait()

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			logger.Error("close error", "component", closers[i].name, "error", err)
		}
	}

	logger.Info("shutdown complete")
}

type namedCloser struct {
	name string
	io.Closer
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.ReportStore, error) {
	switch cfg.StoreBackend {
	case config.StoreRedis:
		s := store.NewRedisStore(store.RedisOptions{
			Addr:      cfg.RedisAddr,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.RedisKeyPrefix,
		})
		if err := s.Ping(ctx); err != nil {
			logger.Warn("redis not reachable yet", "addr", cfg.RedisAddr, "error", err)
		}
		logger.Info("using redis report store", "addr", cfg.RedisAddr)
		return s, nil
	case config.StorePostgres:
		s, err := store.OpenPostgresStore(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureSchema(ctx); err != nil {
			_ = s.Close()
			return nil, err
		}
		logger.Info("using postgres report store")
		return s, nil
	case config.StoreMemory:
		logger.Info("using in-memory report store")
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}
}
