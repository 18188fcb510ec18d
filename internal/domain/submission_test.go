package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2024, time.September, 12, 9, 30, 0, 0, time.UTC)

func freezeClock(t *testing.T) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(fixedTime))
	t.Cleanup(func() { SetClock(nil) })
}

func TestParseSubmission(t *testing.T) {
	freezeClock(t)

	t.Run("water submission", func(t *testing.T) {
		raw := RawEvent{Value: []byte(`{"kind":"water","location":"Majuli Village Well","ph":"6.2","turbidity":8.5,"tds":"600","temperature":32,"color":"yellowish","odor":"musty","reporter_name":"Ravi Kumar"}`)}

		report, err := ParseSubmission(raw, AnalyzerOptions{})
		require.NoError(t, err)

		assert.Equal(t, CollectionWater, report.Kind)
		assert.NotEmpty(t, report.ID)
		assert.Equal(t, "Ravi Kumar", report.Reporter)
		assert.Equal(t, fixedTime, report.Timestamp)
		require.NotNil(t, report.Water)
		assert.Nil(t, report.Health)
		assert.Equal(t, 5, report.Water.Result.Score)
		assert.Equal(t, WaterHighRisk, report.Water.Result.RiskLevel)
		assert.Equal(t, "Majuli Village Well", report.Location())
	})

	t.Run("health submission", func(t *testing.T) {
		raw := RawEvent{Value: []byte(`{"kind":"health","reporter_name":"Dr. Priya","location":"Dibrugarh PHC","patient_age":35,"symptoms":"severe diarrhea, fever, vomiting, abdominal cramps","severity":"severe","duration":"4-7d"}`)}

		report, err := ParseSubmission(raw, AnalyzerOptions{})
		require.NoError(t, err)

		assert.Equal(t, CollectionHealth, report.Kind)
		require.NotNil(t, report.Health)
		assert.Equal(t, 35, report.Health.Report.PatientAge)
		assert.InDelta(t, 85.0, report.Health.Result.RiskScore, 1e-9)
		assert.Equal(t, string(SymptomHighRisk), report.RiskLevel())
		assert.True(t, report.HighRisk())
	})

	t.Run("kind and location from headers", func(t *testing.T) {
		raw := RawEvent{
			Value:   []byte(`{"ph":7.1,"turbidity":1.2,"tds":180,"temperature":22}`),
			Headers: map[string]string{"kind": "water", "location": "tinsukia-pond-2"},
		}

		report, err := ParseSubmission(raw, AnalyzerOptions{})
		require.NoError(t, err)

		assert.Equal(t, "tinsukia-pond-2", report.Water.Reading.Location)
		assert.Equal(t, 100, report.Water.Result.Score)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := ParseSubmission(RawEvent{Value: []byte(`{"kind":"air"}`)}, AnalyzerOptions{})
		require.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := ParseSubmission(RawEvent{Value: []byte("{not json")}, AnalyzerOptions{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse submission")
	})
}

func TestSerializeReport(t *testing.T) {
	freezeClock(t)

	report := NewWaterReport(ParseWaterForm(SampleWaterForm()), "Ravi Kumar")
	out, err := SerializeReport(report)
	require.NoError(t, err)

	assert.Equal(t, []byte(report.ID), out.Key)
	assert.Equal(t, "water", out.Headers["kind"])
	assert.Equal(t, "HighRisk", out.Headers["risk_level"])
	assert.Equal(t, "2024-09-12T09:30:00Z", out.Headers["processed_at"])

	var roundtrip Report
	require.NoError(t, json.Unmarshal(out.Value, &roundtrip))
	if diff := cmp.Diff(report, roundtrip); diff != "" {
		t.Fatalf("roundtrip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCollection(t *testing.T) {
	c, err := ParseCollection("health")
	require.NoError(t, err)
	assert.Equal(t, CollectionHealth, c)

	_, err = ParseCollection("HEALTH")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestReportIDForKey(t *testing.T) {
	a := ReportIDForKey(CollectionWater, "device-7:42")
	b := ReportIDForKey(CollectionWater, "device-7:42")
	c := ReportIDForKey(CollectionHealth, "device-7:42")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 36)
}
