package pipeline_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/aquaguard-risk/internal/domain"
	"github.com/couchcryptid/aquaguard-risk/internal/pipeline"
)

type submissionFixture struct {
	Key      string          `json:"key"`
	WantKind string          `json:"want_kind"`
	WantRisk string          `json:"want_risk"`
	Payload  json.RawMessage `json:"payload"`
}

func TestReportTransformer_WithFixtureSubmissions(t *testing.T) {
	transformer := pipeline.NewTransformer(domain.AnalyzerOptions{}, slog.Default())
	fixtures := readFixtures(t)
	require.Len(t, fixtures, 8)

	seen := make(map[string]bool)
	for _, f := range fixtures {
		t.Run(f.Key, func(t *testing.T) {
			raw := domain.RawEvent{
				Key:     []byte(f.Key),
				Value:   f.Payload,
				Headers: map[string]string{domain.HeaderIdempotencyKey: f.Key},
				Topic:   "community-reports",
			}

			report, err := transformer.Transform(context.Background(), raw)
			require.NoError(t, err)

			assert.Equal(t, f.WantKind, string(report.Kind))
			assert.Equal(t, f.WantRisk, report.RiskLevel())
			assert.NotEmpty(t, report.Location())
			assert.Equal(t, domain.ReportIDForKey(report.Kind, f.Key), report.ID)
			assert.False(t, seen[report.ID], "report IDs must be unique per key")
			seen[report.ID] = true

			out, err := domain.SerializeReport(report)
			require.NoError(t, err)
			assert.Equal(t, f.WantRisk, out.Headers["risk_level"])
			assert.NotEmpty(t, out.Headers["processed_at"])
		})
	}
}

func readFixtures(t *testing.T) []submissionFixture {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "submissions.json"))
	require.NoError(t, err)

	var fixtures []submissionFixture
	require.NoError(t, json.Unmarshal(data, &fixtures))
	return fixtures
}
