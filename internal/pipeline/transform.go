package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/aquaguard-risk/internal/domain"
)

// ReportTransformer implements Transformer using the domain submission parser.
type ReportTransformer struct {
	analyzer domain.AnalyzerOptions
	logger   *slog.Logger
}

// NewTransformer creates a ReportTransformer that analyzes symptom
// submissions with the given rule options.
func NewTransformer(analyzer domain.AnalyzerOptions, logger *slog.Logger) *ReportTransformer {
	return &ReportTransformer{
		analyzer: analyzer,
		logger:   logger,
	}
}

// Transform parses and scores a submission. An idempotency-key header fixes
// the report ID, so a redelivered message yields the same report.
func (t *ReportTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.Report, error) {
	report, err := domain.ParseSubmission(raw, t.analyzer)
	if err != nil {
		return domain.Report{}, err
	}

	if key := raw.Headers[domain.HeaderIdempotencyKey]; key != "" {
		report.ID = domain.ReportIDForKey(report.Kind, key)
	}

	t.logger.Debug("submission scored",
		"kind", report.Kind,
		"report_id", report.ID,
		"risk_level", report.RiskLevel(),
	)
	return report, nil
}
