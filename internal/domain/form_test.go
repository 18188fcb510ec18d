package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormValue_UnmarshalJSON(t *testing.T) {
	var form WaterForm
	data := []byte(`{"location":"Ward 5","ph":"6.8","turbidity":4.2,"tds":null,"color":"clear"}`)
	require.NoError(t, json.Unmarshal(data, &form))

	assert.Equal(t, FormValue("6.8"), form.PH)
	assert.Equal(t, FormValue("4.2"), form.Turbidity)
	assert.Equal(t, FormValue(""), form.TDS)
	assert.Equal(t, FormValue(""), form.Temperature)
}

func TestFormValue_RejectsObjects(t *testing.T) {
	var form WaterForm
	err := json.Unmarshal([]byte(`{"ph":{"value":7}}`), &form)
	require.Error(t, err)
}

func TestParseWaterForm_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		form     WaterForm
		expected WaterQualityReading
	}{
		{
			name: "empty form",
			form: WaterForm{Location: " Majuli "},
			expected: WaterQualityReading{
				Location: "Majuli", PH: 7.0, Turbidity: 0, TDS: 0, Temperature: 25, Color: "clear", Odor: "none",
			},
		},
		{
			name: "unparseable numbers",
			form: WaterForm{PH: "acidic", Turbidity: "n/a", TDS: "lots", Temperature: "warm"},
			expected: WaterQualityReading{
				PH: 7.0, Turbidity: 0, TDS: 0, Temperature: 25, Color: "clear", Odor: "none",
			},
		},
		{
			name: "zero falls back",
			form: WaterForm{PH: "0", Temperature: "0"},
			expected: WaterQualityReading{
				PH: 7.0, Temperature: 25, Color: "clear", Odor: "none",
			},
		},
		{
			name: "non-finite falls back",
			form: WaterForm{PH: "NaN", Temperature: "+Inf"},
			expected: WaterQualityReading{
				PH: 7.0, Temperature: 25, Color: "clear", Odor: "none",
			},
		},
		{
			name: "values kept",
			form: WaterForm{
				Location: "Majuli Village Well", PH: "6.2", Turbidity: "8.5", TDS: "600",
				Temperature: "32", Color: "yellowish", Odor: "musty",
			},
			expected: WaterQualityReading{
				Location: "Majuli Village Well", PH: 6.2, Turbidity: 8.5, TDS: 600,
				Temperature: 32, Color: "yellowish", Odor: "musty",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseWaterForm(tt.form))
		})
	}
}

func TestParseWaterForm_EmptyFormIsSafe(t *testing.T) {
	result := ScoreWater(ParseWaterForm(WaterForm{}))
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, WaterSafe, result.RiskLevel)
}

func TestParseSymptomForm(t *testing.T) {
	tests := []struct {
		name string
		age  FormValue
		want int
	}{
		{"integer", "35", 35},
		{"fraction truncates", "35.7", 35},
		{"blank", "", 0},
		{"text", "unknown", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ParseSymptomForm(SymptomForm{
				ReporterName: " ASHA Worker ",
				Location:     "Majuli Village 3",
				PatientAge:   tt.age,
				Symptoms:     "Fever and headache",
				Severity:     " moderate ",
				Duration:     "1-3d",
			})

			assert.Equal(t, tt.want, report.PatientAge)
			assert.Equal(t, "ASHA Worker", report.ReporterName)
			assert.Equal(t, "Fever and headache", report.Symptoms)
			assert.Equal(t, SeverityModerate, report.Severity)
			assert.Equal(t, DurationFewDays, report.Duration)
		})
	}
}
