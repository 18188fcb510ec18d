package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// submissionEnvelope carries only the discriminator of a raw submission.
type submissionEnvelope struct {
	Kind Collection `json:"kind"`
}

// ParseSubmission decodes a raw submission, applies the form fallbacks and
// scores it. The kind comes from the payload's "kind" field, or from the
// "kind" header for sources that publish bare forms. A "location" header fills
// in a missing location.
func ParseSubmission(raw RawEvent, opts AnalyzerOptions) (Report, error) {
	var env submissionEnvelope
	if err := json.Unmarshal(raw.Value, &env); err != nil {
		return Report{}, fmt.Errorf("parse submission: %w", err)
	}

	kind := env.Kind
	if kind == "" {
		kind = Collection(raw.Headers["kind"])
	}

	switch kind {
	case CollectionWater:
		var form WaterForm
		if err := json.Unmarshal(raw.Value, &form); err != nil {
			return Report{}, fmt.Errorf("parse water submission: %w", err)
		}
		if form.Location == "" {
			form.Location = raw.Headers["location"]
		}
		return NewWaterReport(ParseWaterForm(form), form.ReporterName), nil
	case CollectionHealth:
		var form SymptomForm
		if err := json.Unmarshal(raw.Value, &form); err != nil {
			return Report{}, fmt.Errorf("parse health submission: %w", err)
		}
		if form.Location == "" {
			form.Location = raw.Headers["location"]
		}
		return NewHealthReport(ParseSymptomForm(form), opts), nil
	default:
		return Report{}, fmt.Errorf("parse submission: %w: %q", ErrUnknownKind, kind)
	}
}

// SerializeReport marshals a scored report into an output event keyed by report ID.
func SerializeReport(r Report) (OutputEvent, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize report: %w", err)
	}
	return OutputEvent{
		Key:   []byte(r.ID),
		Value: data,
		Headers: map[string]string{
			"kind":         string(r.Kind),
			"risk_level":   r.RiskLevel(),
			"processed_at": r.Timestamp.Format(time.RFC3339),
		},
	}, nil
}
