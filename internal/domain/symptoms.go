package domain

import (
	"math"
	"strings"
)

// SymptomRiskLevel is the risk bucket for a symptom report.
type SymptomRiskLevel string

const (
	SymptomLowRisk    SymptomRiskLevel = "Low Risk"
	SymptomMediumRisk SymptomRiskLevel = "Medium Risk"
	SymptomHighRisk   SymptomRiskLevel = "High Risk"
)

// Disease match labels. These are keyword-derived hints, not diagnoses.
const (
	DiseaseUnknown         = "Unknown"
	DiseaseDiarrheal       = "Diarrheal Disease"
	DiseaseGastroenteritis = "Gastroenteritis/Cholera Risk"
	DiseaseTyphoid         = "Typhoid/Viral Fever Risk"
	DiseaseHepatitis       = "Hepatitis Risk"
)

// Severity values accepted by the symptom form.
const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// Duration values accepted by the symptom form.
const (
	DurationUnderDay = "<24h"
	DurationFewDays  = "1-3d"
	DurationWeek     = "4-7d"
	DurationOverWeek = ">7d"
)

// SymptomReport describes symptoms observed in a patient.
// PatientAge is informational and does not affect scoring.
type SymptomReport struct {
	ReporterName string `json:"reporter_name"`
	Location     string `json:"location"`
	PatientAge   int    `json:"patient_age"`
	Symptoms     string `json:"symptoms"`
	Severity     string `json:"severity"`
	Duration     string `json:"duration"`
}

// SymptomRiskResult is the outcome of symptom analysis.
type SymptomRiskResult struct {
	RiskScore    float64          `json:"risk_score"`
	DiseaseMatch string           `json:"disease_match"`
	RiskLevel    SymptomRiskLevel `json:"risk_level"`
}

// RoundedScore returns the risk score rounded half away from zero for display.
func (r SymptomRiskResult) RoundedScore() int {
	return int(math.Round(r.RiskScore))
}

// AnalyzerOptions selects optional symptom rules.
type AnalyzerOptions struct {
	// AbdominalCramps adds 15 points when the text mentions both
	// "abdominal pain" and "cramps".
	AbdominalCramps bool
}

// AnalyzeSymptoms scores a report with the base rule set.
func AnalyzeSymptoms(report SymptomReport) SymptomRiskResult {
	return AnalyzeSymptomsWith(report, AnalyzerOptions{})
}

// AnalyzeSymptomsWith scores a report. Every keyword rule is checked against
// the same lower-cased text; scores accumulate and the last matching rule sets
// the disease label.
func AnalyzeSymptomsWith(report SymptomReport, opts AnalyzerOptions) SymptomRiskResult {
	text := strings.ToLower(report.Symptoms)
	has := func(keyword string) bool { return strings.Contains(text, keyword) }

	score := 0.0
	match := DiseaseUnknown

	if has("diarrhea") || has("loose stool") {
		score += 30
		if has("fever") || has("vomiting") {
			score += 20
			match = DiseaseGastroenteritis
		} else {
			match = DiseaseDiarrheal
		}
	}

	if has("fever") && has("headache") {
		score += 25
		match = DiseaseTyphoid
	}

	if has("jaundice") || has("yellow") {
		score += 35
		match = DiseaseHepatitis
	}

	if opts.AbdominalCramps && has("abdominal pain") && has("cramps") {
		score += 15
	}

	score *= severityMultiplier(report.Severity)
	score += durationBonus(report.Duration)
	score = math.Min(100, score)

	return SymptomRiskResult{
		RiskScore:    score,
		DiseaseMatch: match,
		RiskLevel:    SymptomRiskLevelFor(score),
	}
}

// SymptomRiskLevelFor maps a symptom risk score to its bucket.
func SymptomRiskLevelFor(score float64) SymptomRiskLevel {
	switch {
	case score > 70:
		return SymptomHighRisk
	case score > 40:
		return SymptomMediumRisk
	default:
		return SymptomLowRisk
	}
}

func severityMultiplier(severity string) float64 {
	switch severity {
	case SeveritySevere:
		return 1.5
	case SeverityModerate:
		return 1.2
	default:
		return 1.0
	}
}

func durationBonus(duration string) float64 {
	switch duration {
	case DurationOverWeek:
		return 20
	case DurationWeek:
		return 10
	default:
		return 0
	}
}
