// Package mqtt ingests water sensor readings published over MQTT.
package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/couchcryptid/aquaguard-risk/internal/config"
	"github.com/couchcryptid/aquaguard-risk/internal/domain"
)

const (
	bufferSize        = 1000
	disconnectQuiesce = 250 // ms
)

// Subscriber buffers sensor messages from an MQTT topic filter.
// It implements pipeline.BatchExtractor.
//
// Sensors publish bare water forms; the last topic level names the location,
// so sensors/water/majuli-well-3 becomes location "majuli-well-3" unless the
// payload carries one.
type Subscriber struct {
	client        pahomqtt.Client
	topic         string
	flushInterval time.Duration
	messages      chan domain.RawEvent
	done          chan struct{}
	closeOnce     sync.Once
	logger        *slog.Logger
}

// NewSubscriber connects to the configured broker and subscribes to the
// sensor topic filter.
func NewSubscriber(cfg *config.Config, logger *slog.Logger) (*Subscriber, error) {
	s := newSubscriber(cfg.MQTTTopic, cfg.BatchFlushInterval, logger)

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTTBroker)
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetOnConnectHandler(func(c pahomqtt.Client) {
		// Resubscribe after every reconnect; clean sessions drop subscriptions.
		if token := c.Subscribe(s.topic, 1, s.handleMessage); token.Wait() && token.Error() != nil {
			s.logger.Error("mqtt subscribe failed", "topic", s.topic, "error", token.Error())
			return
		}
		s.logger.Info("mqtt subscribed", "topic", s.topic)
	})
	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		s.logger.Warn("mqtt connection lost", "error", err)
	})

	s.client = pahomqtt.NewClient(opts)
	if token := s.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", cfg.MQTTBroker, token.Error())
	}
	return s, nil
}

func newSubscriber(topic string, flushInterval time.Duration, logger *slog.Logger) *Subscriber {
	if flushInterval <= 0 {
		flushInterval = 500 * time.Millisecond
	}
	return &Subscriber{
		topic:         topic,
		flushInterval: flushInterval,
		messages:      make(chan domain.RawEvent, bufferSize),
		done:          make(chan struct{}),
		logger:        logger,
	}
}

// handleMessage runs on the paho router goroutine. It blocks while the
// buffer is full so the broker connection applies backpressure.
func (s *Subscriber) handleMessage(_ pahomqtt.Client, msg pahomqtt.Message) {
	raw := mapMessageToRawEvent(msg)
	select {
	case s.messages <- raw:
	case <-s.done:
	}
}

// ExtractBatch returns up to batchSize buffered messages. It waits for the
// first message until the flush interval elapses, then drains what is ready.
func (s *Subscriber) ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error) {
	timer := time.NewTimer(s.flushInterval)
	defer timer.Stop()

	batch := make([]domain.RawEvent, 0, batchSize)
	for len(batch) < batchSize {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case raw := <-s.messages:
			batch = append(batch, raw)
		case <-timer.C:
			return batch, nil
		}
	}
	return batch, nil
}

// Close unsubscribes and disconnects from the broker.
func (s *Subscriber) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		if s.client == nil {
			return
		}
		if token := s.client.Unsubscribe(s.topic); token.Wait() && token.Error() != nil {
			s.logger.Warn("mqtt unsubscribe failed", "error", token.Error())
		}
		s.client.Disconnect(disconnectQuiesce)
	})
	return nil
}

// mapMessageToRawEvent marks the payload as a water submission and derives
// its location from the topic.
func mapMessageToRawEvent(msg pahomqtt.Message) domain.RawEvent {
	topic := msg.Topic()
	location := topic
	if i := strings.LastIndex(topic, "/"); i >= 0 {
		location = topic[i+1:]
	}
	return domain.RawEvent{
		Value: msg.Payload(),
		Headers: map[string]string{
			"kind":     string(domain.CollectionWater),
			"location": location,
		},
		Topic:     topic,
		Offset:    int64(msg.MessageID()),
		Timestamp: time.Now().UTC(),
	}
}
