package mqtt

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/aquaguard-risk/internal/domain"
)

// fakeMessage implements paho's Message interface.
type fakeMessage struct {
	topic   string
	payload []byte
	id      uint16
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return m.id }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

func TestMapMessageToRawEvent(t *testing.T) {
	raw := mapMessageToRawEvent(fakeMessage{
		topic:   "sensors/water/majuli-well-3",
		payload: []byte(`{"ph":6.1,"turbidity":7}`),
		id:      17,
	})

	assert.Equal(t, "water", raw.Headers["kind"])
	assert.Equal(t, "majuli-well-3", raw.Headers["location"])
	assert.Equal(t, "sensors/water/majuli-well-3", raw.Topic)
	assert.Equal(t, int64(17), raw.Offset)
	assert.Nil(t, raw.Key)
	assert.Nil(t, raw.Commit)
	assert.False(t, raw.Timestamp.IsZero())
}

func TestMapMessageToRawEvent_SingleLevelTopic(t *testing.T) {
	raw := mapMessageToRawEvent(fakeMessage{topic: "pond7"})
	assert.Equal(t, "pond7", raw.Headers["location"])
}

func TestSubscriber_ExtractBatch(t *testing.T) {
	s := newSubscriber("sensors/water/#", 50*time.Millisecond, slog.Default())
	defer s.Close()

	for i := range 3 {
		s.handleMessage(nil, fakeMessage{topic: "sensors/water/well", payload: []byte(`{}`), id: uint16(i)})
	}

	batch, err := s.ExtractBatch(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	batch, err = s.ExtractBatch(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, batch, 1, "flush interval returns a partial batch")

	batch, err = s.ExtractBatch(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestSubscriber_ExtractBatchCancelled(t *testing.T) {
	s := newSubscriber("sensors/water/#", time.Second, slog.Default())
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ExtractBatch(ctx, 10)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSubscriber_ScoredThroughSubmissionParser(t *testing.T) {
	s := newSubscriber("sensors/water/#", 50*time.Millisecond, slog.Default())
	defer s.Close()

	s.handleMessage(nil, fakeMessage{
		topic:   "sensors/water/tinsukia-pond-2",
		payload: []byte(`{"ph":5.8,"turbidity":9.1,"tds":640,"temperature":31}`),
	})
	batch, err := s.ExtractBatch(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, batch, 1)

	report, err := domain.ParseSubmission(batch[0], domain.AnalyzerOptions{})
	require.NoError(t, err)
	assert.Equal(t, "tinsukia-pond-2", report.Location())
	assert.Equal(t, 40, report.Water.Result.Score)
	assert.Equal(t, domain.WaterMediumRisk, report.Water.Result.RiskLevel)
}

func TestSubscriber_CloseUnblocksHandler(t *testing.T) {
	s := newSubscriber("sensors/water/#", time.Second, slog.Default())
	for range bufferSize {
		s.handleMessage(nil, fakeMessage{topic: "sensors/water/well"})
	}

	done := make(chan struct{})
	go func() {
		s.handleMessage(nil, fakeMessage{topic: "sensors/water/well"})
		close(done)
	}()

	require.NoError(t, s.Close())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler still blocked after Close")
	}
}
