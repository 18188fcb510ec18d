// Package store persists scored reports per collection, newest first.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/couchcryptid/aquaguard-risk/internal/domain"
)

var (
	// ErrUnknownCollection is returned for a collection other than water or health.
	ErrUnknownCollection = errors.New("unknown collection")

	// ErrDuplicateReport is returned when a report ID has already been stored.
	ErrDuplicateReport = errors.New("duplicate report")
)

// ReportStore appends and lists report histories. LoadAll returns reports
// newest first and an empty, non-nil slice when nothing has been stored.
type ReportStore interface {
	Append(ctx context.Context, c domain.Collection, r domain.Report) error
	LoadAll(ctx context.Context, c domain.Collection) ([]domain.Report, error)
}

// HealthChecker is implemented by stores backed by a remote service.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

func checkCollection(c domain.Collection) error {
	switch c {
	case domain.CollectionWater, domain.CollectionHealth:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCollection, c)
	}
}

func encodeReport(r domain.Report) ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode report %s: %w", r.ID, err)
	}
	return data, nil
}

func decodeReports(payloads [][]byte) ([]domain.Report, error) {
	reports := make([]domain.Report, 0, len(payloads))
	for _, p := range payloads {
		var r domain.Report
		if err := json.Unmarshal(p, &r); err != nil {
			return nil, fmt.Errorf("decode report: %w", err)
		}
		reports = append(reports, r)
	}
	return reports, nil
}
