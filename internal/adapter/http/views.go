package http

import (
	"time"

	"github.com/couchcryptid/aquaguard-risk/internal/domain"
	"github.com/couchcryptid/aquaguard-risk/internal/locale"
)

// Views carry canonical values next to their localized labels.

type waterResultView struct {
	domain.WaterQualityResult
	RiskLevelLabel   string   `json:"risk_level_label"`
	RiskFactorLabels []string `json:"risk_factor_labels"`
}

func newWaterResultView(res domain.WaterQualityResult, l *locale.Localizer) waterResultView {
	return waterResultView{
		WaterQualityResult: res,
		RiskLevelLabel:     l.WaterRiskLevel(res.RiskLevel),
		RiskFactorLabels:   l.Factors(res.RiskFactors),
	}
}

type symptomResultView struct {
	domain.SymptomRiskResult
	RiskScoreDisplay  int    `json:"risk_score_display"`
	RiskLevelLabel    string `json:"risk_level_label"`
	DiseaseMatchLabel string `json:"disease_match_label"`
}

func newSymptomResultView(res domain.SymptomRiskResult, l *locale.Localizer) symptomResultView {
	return symptomResultView{
		SymptomRiskResult: res,
		RiskScoreDisplay:  res.RoundedScore(),
		RiskLevelLabel:    l.SymptomRiskLevel(res.RiskLevel),
		DiseaseMatchLabel: l.Disease(res.DiseaseMatch),
	}
}

type reportView struct {
	ID        string            `json:"id"`
	Kind      domain.Collection `json:"kind"`
	Reporter  string            `json:"reporter_name,omitempty"`
	Timestamp string            `json:"timestamp"`
	Location  string            `json:"location"`
	Water     *waterReportView  `json:"water,omitempty"`
	Health    *healthReportView `json:"health,omitempty"`
}

type waterReportView struct {
	Reading domain.WaterQualityReading `json:"reading"`
	Result  waterResultView            `json:"result"`
}

type healthReportView struct {
	Report domain.SymptomReport `json:"report"`
	Result symptomResultView    `json:"result"`
}

func newReportView(r domain.Report, l *locale.Localizer) reportView {
	v := reportView{
		ID:        r.ID,
		Kind:      r.Kind,
		Reporter:  r.Reporter,
		Timestamp: r.Timestamp.Format(time.RFC3339),
		Location:  r.Location(),
	}
	if r.Water != nil {
		v.Water = &waterReportView{Reading: r.Water.Reading, Result: newWaterResultView(r.Water.Result, l)}
	}
	if r.Health != nil {
		v.Health = &healthReportView{Report: r.Health.Report, Result: newSymptomResultView(r.Health.Result, l)}
	}
	return v
}

func newReportViews(reports []domain.Report, l *locale.Localizer) []reportView {
	views := make([]reportView, len(reports))
	for i, r := range reports {
		views[i] = newReportView(r, l)
	}
	return views
}

type summaryView struct {
	domain.Summary
	TopDiseaseLabel string         `json:"top_disease_label"`
	WaterLabels     map[string]int `json:"water_by_risk_label"`
	HealthLabels    map[string]int `json:"health_by_risk_label"`
}

func newSummaryView(s domain.Summary, l *locale.Localizer) summaryView {
	v := summaryView{
		Summary:         s,
		TopDiseaseLabel: l.Disease(s.Health.TopDisease),
		WaterLabels:     make(map[string]int, len(s.Water.ByRiskLevel)),
		HealthLabels:    make(map[string]int, len(s.Health.ByRiskLevel)),
	}
	for level, n := range s.Water.ByRiskLevel {
		v.WaterLabels[l.WaterRiskLevel(level)] = n
	}
	for level, n := range s.Health.ByRiskLevel {
		v.HealthLabels[l.SymptomRiskLevel(level)] = n
	}
	return v
}
