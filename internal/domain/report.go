package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Collection names a report history. The values double as report kinds.
type Collection string

const (
	CollectionWater  Collection = "water"
	CollectionHealth Collection = "health"
)

// ErrUnknownKind is returned for a report kind other than water or health.
var ErrUnknownKind = errors.New("unknown report kind")

// reportNamespace seeds name-based report IDs derived from idempotency keys.
var reportNamespace = uuid.MustParse("6f1c7d2e-8a4b-4f0e-9c3d-5b2a1e7f9d40")

// Collections lists every known collection in display order.
func Collections() []Collection {
	return []Collection{CollectionWater, CollectionHealth}
}

// ParseCollection validates a collection name.
func ParseCollection(s string) (Collection, error) {
	switch Collection(s) {
	case CollectionWater, CollectionHealth:
		return Collection(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// WaterReport pairs a reading with its score.
type WaterReport struct {
	Reading WaterQualityReading `json:"reading"`
	Result  WaterQualityResult  `json:"result"`
}

// HealthReport pairs a symptom report with its analysis.
type HealthReport struct {
	Report SymptomReport     `json:"report"`
	Result SymptomRiskResult `json:"result"`
}

// Report is a persisted, scored submission. Exactly one of Water or Health is
// set, matching Kind.
type Report struct {
	ID        string        `json:"id"`
	Kind      Collection    `json:"kind"`
	Reporter  string        `json:"reporter_name,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Water     *WaterReport  `json:"water,omitempty"`
	Health    *HealthReport `json:"health,omitempty"`
}

// NewWaterReport scores a reading and wraps it in a report with a fresh ID and timestamp.
func NewWaterReport(reading WaterQualityReading, reporter string) Report {
	return Report{
		ID:        uuid.NewString(),
		Kind:      CollectionWater,
		Reporter:  reporter,
		Timestamp: clock.Now().UTC(),
		Water: &WaterReport{
			Reading: reading,
			Result:  ScoreWater(reading),
		},
	}
}

// NewHealthReport analyzes a symptom report and wraps it in a report with a
// fresh ID and timestamp.
func NewHealthReport(sr SymptomReport, opts AnalyzerOptions) Report {
	return Report{
		ID:        uuid.NewString(),
		Kind:      CollectionHealth,
		Reporter:  sr.ReporterName,
		Timestamp: clock.Now().UTC(),
		Health: &HealthReport{
			Report: sr,
			Result: AnalyzeSymptomsWith(sr, opts),
		},
	}
}

// ReportIDForKey derives a stable report ID from a client idempotency key, so
// a resubmitted form maps to the same ID in every store.
func ReportIDForKey(kind Collection, key string) string {
	return uuid.NewSHA1(reportNamespace, []byte(string(kind)+":"+key)).String()
}

// Location returns the location of whichever payload the report carries.
func (r Report) Location() string {
	switch {
	case r.Water != nil:
		return r.Water.Reading.Location
	case r.Health != nil:
		return r.Health.Report.Location
	default:
		return ""
	}
}

// RiskLevel returns the risk level of the report as a plain string.
func (r Report) RiskLevel() string {
	switch {
	case r.Water != nil:
		return string(r.Water.Result.RiskLevel)
	case r.Health != nil:
		return string(r.Health.Result.RiskLevel)
	default:
		return ""
	}
}

// HighRisk reports whether the report landed in the highest bucket of its kind.
func (r Report) HighRisk() bool {
	switch {
	case r.Water != nil:
		return r.Water.Result.RiskLevel == WaterHighRisk
	case r.Health != nil:
		return r.Health.Result.RiskLevel == SymptomHighRisk
	default:
		return false
	}
}
