package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/aquaguard-risk/internal/domain"
	"github.com/couchcryptid/aquaguard-risk/internal/observability"
)

// BatchExtractor reads up to batchSize raw submissions from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer parses and scores a raw submission.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.Report, error)
}

// BatchLoader stores and forwards scored reports.
type BatchLoader interface {
	LoadBatch(ctx context.Context, reports []domain.Report) error
}

// Pipeline orchestrates the extract-score-load loop for one ingestion source.
type Pipeline struct {
	name        string
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability. The name
// identifies the source in logs.
func New(name string, e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		name:        name,
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger.With("source", name),
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// Name returns the source name given to New.
func (p *Pipeline) Name() string { return p.name }

// Ready reports whether the pipeline has loaded at least one batch.
func (p *Pipeline) Ready() bool { return p.ready.Load() }

// CheckReadiness returns nil if the pipeline has loaded at least one report,
// or an error describing why it is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return fmt.Errorf("%s pipeline has not loaded any reports yet", p.name)
	}
	return nil
}

// Run executes the batch loop until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Inc()
	defer p.metrics.PipelineRunning.Dec()

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		default:
		}

		if !p.processBatch(ctx, &backoff, maxBackoff) {
			return nil
		}
	}
}

// processBatch runs one extract-score-load cycle. Returns false if the pipeline should stop.
func (p *Pipeline) processBatch(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	start := time.Now()

	rawBatch, extractErr := p.extractor.ExtractBatch(ctx, p.batchSize)
	if extractErr != nil && ctx.Err() != nil {
		return false
	}

	// A partial batch fetched before an error is still processed.
	if len(rawBatch) > 0 {
		p.metrics.MessagesConsumed.Add(float64(len(rawBatch)))
		p.metrics.BatchSize.Observe(float64(len(rawBatch)))

		loaded, ok := p.transformAndLoad(ctx, rawBatch, backoff, maxBackoff)
		if !ok {
			return false
		}
		if loaded > 0 {
			p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
			p.ready.Store(true)
		}
	}

	if extractErr != nil {
		p.logger.Error("extract batch failed", "error", extractErr, "partial_batch", len(rawBatch))
		return p.backoffOrStop(ctx, backoff, maxBackoff)
	}
	if len(rawBatch) > 0 {
		*backoff = 200 * time.Millisecond
	}
	return ctx.Err() == nil
}

// transformAndLoad scores each submission in the batch, loads the successes,
// and commits offsets. Loading is retried with backoff until it succeeds or
// the context ends, so a failed batch is never skipped. Returns the number of
// loaded reports and false if the pipeline should stop.
func (p *Pipeline) transformAndLoad(ctx context.Context, rawBatch []domain.RawEvent, backoff *time.Duration, maxBackoff time.Duration) (int, bool) {
	outBatch := make([]domain.Report, 0, len(rawBatch))
	successfulRaws := make([]domain.RawEvent, 0, len(rawBatch))

	for _, raw := range rawBatch {
		out, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			p.logger.Warn("submission rejected, skipping message",
				"error", err,
				"topic", raw.Topic,
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.Inc()
			p.commitOffset(ctx, raw)
			continue
		}
		outBatch = append(outBatch, out)
		successfulRaws = append(successfulRaws, raw)
	}

	if len(outBatch) == 0 {
		return 0, true
	}

	for {
		err := p.loader.LoadBatch(ctx, outBatch)
		if err == nil {
			break
		}
		p.logger.Error("load batch failed, retrying", "error", err, "batch_size", len(outBatch), "backoff", *backoff)
		if !p.backoffOrStop(ctx, backoff, maxBackoff) {
			return 0, false
		}
	}

	p.metrics.MessagesProduced.Add(float64(len(outBatch)))

	for _, raw := range successfulRaws {
		p.commitOffset(ctx, raw)
	}

	return len(outBatch), true
}

// backoffOrStop checks for context cancellation, sleeps with the current backoff,
// and advances the backoff. Returns false if the pipeline should stop.
func (p *Pipeline) backoffOrStop(ctx context.Context, backoff *time.Duration, maxBackoff time.Duration) bool {
	if ctx.Err() != nil {
		return false
	}
	if !retry.SleepWithContext(ctx, *backoff) {
		return false
	}
	*backoff = retry.NextBackoff(*backoff, maxBackoff)
	return true
}

// commitOffset commits the message offset if a commit function is available.
func (p *Pipeline) commitOffset(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"topic", raw.Topic, "partition", raw.Partition, "offset", raw.Offset)
	}
}
