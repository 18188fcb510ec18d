package domain

import (
	"context"
	"time"
)

// HeaderIdempotencyKey names the header carrying a submitter's idempotency
// key. Submissions sharing a key and kind resolve to the same report ID.
const HeaderIdempotencyKey = "idempotency-key"

// RawEvent represents an unprocessed submission from a message source.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form of a scored report destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
