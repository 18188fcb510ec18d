package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeSymptoms_Scenarios(t *testing.T) {
	t.Run("cholera risk", func(t *testing.T) {
		result := AnalyzeSymptoms(SymptomReport{
			ReporterName: "Dr. Priya",
			Location:     "Dibrugarh PHC",
			PatientAge:   35,
			Symptoms:     "severe diarrhea, fever, vomiting, abdominal cramps",
			Severity:     SeveritySevere,
			Duration:     DurationWeek,
		})

		assert.InDelta(t, 85.0, result.RiskScore, 1e-9)
		assert.Equal(t, DiseaseGastroenteritis, result.DiseaseMatch)
		assert.Equal(t, SymptomHighRisk, result.RiskLevel)
	})

	t.Run("hepatitis", func(t *testing.T) {
		result := AnalyzeSymptoms(SymptomReport{
			Symptoms: "jaundice and yellow eyes",
			Severity: SeverityMild,
			Duration: DurationUnderDay,
		})

		assert.InDelta(t, 35.0, result.RiskScore, 1e-9)
		assert.Equal(t, DiseaseHepatitis, result.DiseaseMatch)
		assert.Equal(t, SymptomLowRisk, result.RiskLevel)
	})
}

func TestAnalyzeSymptoms_Rules(t *testing.T) {
	tests := []struct {
		name     string
		symptoms string
		score    float64
		match    string
	}{
		{"no keywords", "tired and thirsty", 0, DiseaseUnknown},
		{"diarrhea alone", "Diarrhea since morning", 30, DiseaseDiarrheal},
		{"loose stool", "loose stool", 30, DiseaseDiarrheal},
		{"diarrhea with vomiting", "diarrhea and vomiting", 50, DiseaseGastroenteritis},
		{"fever without headache", "fever", 0, DiseaseUnknown},
		{"typhoid", "fever with HEADACHE", 25, DiseaseTyphoid},
		{"typhoid overwrites cholera label", "diarrhea, fever, headache", 75, DiseaseTyphoid},
		{"hepatitis overwrites everything", "diarrhea, fever, headache, jaundice", 110, DiseaseHepatitis},
		{"yellow alone", "yellowish skin", 35, DiseaseHepatitis},
		{"abdominal pain ignored by base rules", "abdominal pain and cramps", 0, DiseaseUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeSymptoms(SymptomReport{Symptoms: tt.symptoms, Severity: SeverityMild})
			assert.InDelta(t, min(100, tt.score), result.RiskScore, 1e-9)
			assert.Equal(t, tt.match, result.DiseaseMatch)
		})
	}
}

func TestAnalyzeSymptomsWith_AbdominalCramps(t *testing.T) {
	report := SymptomReport{Symptoms: "abdominal pain, cramps", Severity: SeverityMild}

	base := AnalyzeSymptomsWith(report, AnalyzerOptions{})
	extended := AnalyzeSymptomsWith(report, AnalyzerOptions{AbdominalCramps: true})

	assert.InDelta(t, 0.0, base.RiskScore, 1e-9)
	assert.InDelta(t, 15.0, extended.RiskScore, 1e-9)
	assert.Equal(t, DiseaseUnknown, extended.DiseaseMatch)

	// "abdominal cramps" lacks "abdominal pain".
	sample := AnalyzeSymptomsWith(SymptomReport{
		Symptoms: "severe diarrhea, fever, vomiting, abdominal cramps",
		Severity: SeveritySevere,
		Duration: DurationWeek,
	}, AnalyzerOptions{AbdominalCramps: true})
	assert.InDelta(t, 85.0, sample.RiskScore, 1e-9)
}

func TestAnalyzeSymptoms_SeverityAndDuration(t *testing.T) {
	tests := []struct {
		name     string
		severity string
		duration string
		expected float64
	}{
		{"mild short", SeverityMild, DurationUnderDay, 30},
		{"moderate", SeverityModerate, DurationFewDays, 36},
		{"severe", SeveritySevere, DurationFewDays, 45},
		{"week bonus", SeverityMild, DurationWeek, 40},
		{"long bonus", SeverityMild, DurationOverWeek, 50},
		{"unknown severity", "critical", "", 30},
		{"bonus after multiplier", SeveritySevere, DurationOverWeek, 65},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeSymptoms(SymptomReport{Symptoms: "diarrhea", Severity: tt.severity, Duration: tt.duration})
			assert.InDelta(t, tt.expected, result.RiskScore, 1e-9)
		})
	}
}

func TestAnalyzeSymptoms_ClampsAt100(t *testing.T) {
	result := AnalyzeSymptoms(SymptomReport{
		Symptoms: "diarrhea, vomiting, fever, headache, jaundice",
		Severity: SeveritySevere,
		Duration: DurationOverWeek,
	})

	assert.InDelta(t, 100.0, result.RiskScore, 1e-9)
	assert.Equal(t, SymptomHighRisk, result.RiskLevel)
	assert.Equal(t, DiseaseHepatitis, result.DiseaseMatch)
}

func TestAnalyzeSymptoms_Deterministic(t *testing.T) {
	report := SymptomReport{Symptoms: "Loose stool and fever", Severity: SeverityModerate, Duration: DurationOverWeek}
	assert.Equal(t, AnalyzeSymptoms(report), AnalyzeSymptoms(report))
}

func TestSymptomRiskLevelFor(t *testing.T) {
	tests := []struct {
		score    float64
		expected SymptomRiskLevel
	}{
		{0, SymptomLowRisk},
		{40, SymptomLowRisk},
		{40.5, SymptomMediumRisk},
		{41, SymptomMediumRisk},
		{70, SymptomMediumRisk},
		{71, SymptomHighRisk},
		{100, SymptomHighRisk},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SymptomRiskLevelFor(tt.score), "score %v", tt.score)
	}
}

func TestSymptomRiskResult_RoundedScore(t *testing.T) {
	assert.Equal(t, 36, SymptomRiskResult{RiskScore: 36.0}.RoundedScore())
	assert.Equal(t, 43, SymptomRiskResult{RiskScore: 42.5}.RoundedScore())
	assert.Equal(t, 42, SymptomRiskResult{RiskScore: 42.4}.RoundedScore())
}
