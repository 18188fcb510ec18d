package kafka

import (
	"context"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/aquaguard-risk/internal/config"
	"github.com/couchcryptid/aquaguard-risk/internal/domain"
)

// Writer produces scored reports to a Kafka topic.
// It implements service.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured sink topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSinkTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish serializes and writes multiple reports to the sink topic in a
// single WriteMessages call. Messages are keyed by report ID.
func (w *Writer) Publish(ctx context.Context, reports []domain.Report) error {
	if len(reports) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(reports))
	for i := range reports {
		msg, err := serializeToMessage(reports[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d reports: %w", len(msgs), err)
	}
	w.logger.Debug("reports published", "count", len(msgs), "topic", w.writer.Topic)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a Report into a Kafka message.
func serializeToMessage(r domain.Report) (kafkago.Message, error) {
	out, err := domain.SerializeReport(r)
	if err != nil {
		return kafkago.Message{}, err
	}
	headers := make([]kafkago.Header, 0, len(out.Headers))
	for _, key := range []string{"kind", "risk_level", "processed_at"} {
		headers = append(headers, kafkago.Header{Key: key, Value: []byte(out.Headers[key])})
	}
	return kafkago.Message{
		Key:     out.Key,
		Value:   out.Value,
		Headers: headers,
	}, nil
}
