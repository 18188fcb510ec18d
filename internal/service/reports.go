// Package service ties scoring, storage and publishing together. HTTP
// handlers, the CLI and the ingestion pipelines all go through Reports.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/aquaguard-risk/internal/domain"
	"github.com/couchcryptid/aquaguard-risk/internal/observability"
	"github.com/couchcryptid/aquaguard-risk/internal/store"
)

// Publisher forwards stored reports to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, reports []domain.Report) error
}

// Options configures a Reports service. Zero values are usable: no publisher,
// default analyzer rules and a 1000-entry idempotency cache.
type Options struct {
	Analyzer             domain.AnalyzerOptions
	Publisher            Publisher
	IdempotencyCacheSize int
	Logger               *slog.Logger
	Metrics              *observability.Metrics
}

// Reports scores submissions and manages the report histories.
type Reports struct {
	store     store.ReportStore
	publisher Publisher
	analyzer  domain.AnalyzerOptions
	submitted *lruCache[domain.Report]
	keys      *keyLocks
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Reports service backed by the given store.
func New(s store.ReportStore, opts Options) *Reports {
	if opts.IdempotencyCacheSize <= 0 {
		opts.IdempotencyCacheSize = 1000
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetricsForTesting()
	}
	return &Reports{
		store:     s,
		publisher: opts.Publisher,
		analyzer:  opts.Analyzer,
		submitted: newLRUCache[domain.Report](opts.IdempotencyCacheSize),
		keys:      newKeyLocks(),
		logger:    opts.Logger,
		metrics:   opts.Metrics,
	}
}

// ScoreWater scores a water form without storing it.
func (s *Reports) ScoreWater(form domain.WaterForm) domain.WaterQualityResult {
	result := domain.ScoreWater(domain.ParseWaterForm(form))
	s.metrics.ReportsScored.WithLabelValues(string(domain.CollectionWater), string(result.RiskLevel)).Inc()
	return result
}

// AnalyzeSymptoms analyzes a symptom form without storing it.
func (s *Reports) AnalyzeSymptoms(form domain.SymptomForm) domain.SymptomRiskResult {
	result := domain.AnalyzeSymptomsWith(domain.ParseSymptomForm(form), s.analyzer)
	s.metrics.ReportsScored.WithLabelValues(string(domain.CollectionHealth), string(result.RiskLevel)).Inc()
	return result
}

// SubmitWater scores and stores a water form. A non-empty idempotency key
// makes resubmission return the originally stored report.
func (s *Reports) SubmitWater(ctx context.Context, form domain.WaterForm, idempotencyKey string) (domain.Report, error) {
	return s.submit(ctx, domain.CollectionWater, idempotencyKey, func() domain.Report {
		return domain.NewWaterReport(domain.ParseWaterForm(form), form.ReporterName)
	})
}

// SubmitHealth analyzes and stores a symptom form. A non-empty idempotency key
// makes resubmission return the originally stored report.
func (s *Reports) SubmitHealth(ctx context.Context, form domain.SymptomForm, idempotencyKey string) (domain.Report, error) {
	return s.submit(ctx, domain.CollectionHealth, idempotencyKey, func() domain.Report {
		return domain.NewHealthReport(domain.ParseSymptomForm(form), s.analyzer)
	})
}

func (s *Reports) submit(ctx context.Context, kind domain.Collection, key string, build func() domain.Report) (domain.Report, error) {
	cacheKey := string(kind) + ":" + key
	if key != "" {
		// Concurrent submissions of one key wait here so that only the first
		// stores the report and the rest are answered from the cache.
		unlock := s.keys.lock(cacheKey)
		defer unlock()

		if cached, ok := s.submitted.get(cacheKey); ok {
			s.metrics.IdempotencyCache.WithLabelValues("hit").Inc()
			s.logger.Debug("idempotent resubmission", "kind", kind, "report_id", cached.ID)
			return cached, nil
		}
		s.metrics.IdempotencyCache.WithLabelValues("miss").Inc()
	}

	report := build()
	if key != "" {
		report.ID = domain.ReportIDForKey(kind, key)
	}
	s.metrics.ReportsScored.WithLabelValues(string(kind), report.RiskLevel()).Inc()

	if err := s.append(ctx, report); err != nil {
		return domain.Report{}, err
	}
	if key != "" {
		s.submitted.put(cacheKey, report)
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, []domain.Report{report}); err != nil {
			s.logger.Warn("publish submitted report failed", "error", err, "report_id", report.ID)
		}
	}

	s.logger.Info("report stored",
		"kind", kind,
		"report_id", report.ID,
		"risk_level", report.RiskLevel(),
		"location", report.Location(),
	)
	return report, nil
}

// LoadBatch stores reports produced by an ingestion pipeline and publishes the
// newly stored ones. Reports whose ID is already stored are redeliveries and
// are skipped.
func (s *Reports) LoadBatch(ctx context.Context, reports []domain.Report) error {
	stored := make([]domain.Report, 0, len(reports))
	for _, r := range reports {
		s.metrics.ReportsScored.WithLabelValues(string(r.Kind), r.RiskLevel()).Inc()
		err := s.append(ctx, r)
		switch {
		case err == nil:
			stored = append(stored, r)
		case errors.Is(err, store.ErrDuplicateReport):
			s.logger.Debug("skipping redelivered report", "report_id", r.ID)
		default:
			return err
		}
	}

	if len(stored) == 0 || s.publisher == nil {
		return nil
	}
	if err := s.publisher.Publish(ctx, stored); err != nil {
		return fmt.Errorf("publish scored reports: %w", err)
	}
	return nil
}

// List returns a collection's history, newest first.
func (s *Reports) List(ctx context.Context, c domain.Collection) ([]domain.Report, error) {
	reports, err := s.store.LoadAll(ctx, c)
	if err != nil {
		s.metrics.StoreOperations.WithLabelValues("load", "error").Inc()
		return nil, fmt.Errorf("list %s reports: %w", c, err)
	}
	s.metrics.StoreOperations.WithLabelValues("load", "success").Inc()
	return reports, nil
}

// Summary aggregates both collections into dashboard statistics.
func (s *Reports) Summary(ctx context.Context) (domain.Summary, error) {
	water, err := s.List(ctx, domain.CollectionWater)
	if err != nil {
		return domain.Summary{}, err
	}
	health, err := s.List(ctx, domain.CollectionHealth)
	if err != nil {
		return domain.Summary{}, err
	}
	return domain.Summarize(water, health), nil
}

// SeedSamples stores the demo water and symptom submissions and returns them.
func (s *Reports) SeedSamples(ctx context.Context) ([]domain.Report, error) {
	water, err := s.SubmitWater(ctx, domain.SampleWaterForm(), "")
	if err != nil {
		return nil, fmt.Errorf("seed sample water report: %w", err)
	}
	health, err := s.SubmitHealth(ctx, domain.SampleSymptomForm(), "")
	if err != nil {
		return nil, fmt.Errorf("seed sample health report: %w", err)
	}
	return []domain.Report{water, health}, nil
}

// CheckReadiness pings the store when it is backed by a remote service.
func (s *Reports) CheckReadiness(ctx context.Context) error {
	hc, ok := s.store.(store.HealthChecker)
	if !ok {
		return nil
	}
	if err := hc.Ping(ctx); err != nil {
		return fmt.Errorf("report store unavailable: %w", err)
	}
	return nil
}

func (s *Reports) append(ctx context.Context, r domain.Report) error {
	if err := s.store.Append(ctx, r.Kind, r); err != nil {
		s.metrics.StoreOperations.WithLabelValues("append", "error").Inc()
		return fmt.Errorf("store %s report: %w", r.Kind, err)
	}
	s.metrics.StoreOperations.WithLabelValues("append", "success").Inc()
	return nil
}
