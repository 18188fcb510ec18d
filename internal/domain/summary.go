package domain

import "slices"

// Summary aggregates report histories for the dashboard overview.
type Summary struct {
	TotalReports      int           `json:"total_reports"`
	Water             WaterSummary  `json:"water"`
	Health            HealthSummary `json:"health"`
	HighRiskLocations []string      `json:"high_risk_locations"`
}

// WaterSummary aggregates water reports.
type WaterSummary struct {
	Reports      int                    `json:"reports"`
	AverageScore float64                `json:"average_score"`
	ByRiskLevel  map[WaterRiskLevel]int `json:"by_risk_level"`
}

// HealthSummary aggregates symptom reports.
type HealthSummary struct {
	Reports     int                      `json:"reports"`
	ByRiskLevel map[SymptomRiskLevel]int `json:"by_risk_level"`
	ByDisease   map[string]int           `json:"by_disease"`
	TopDisease  string                   `json:"top_disease"`
}

// Summarize counts reports per risk level and collects the distinct locations
// of high-risk reports, water first, each in the order given.
func Summarize(water, health []Report) Summary {
	s := Summary{
		Water: WaterSummary{
			ByRiskLevel: map[WaterRiskLevel]int{
				WaterSafe: 0, WaterLowRisk: 0, WaterMediumRisk: 0, WaterHighRisk: 0,
			},
		},
		Health: HealthSummary{
			ByRiskLevel: map[SymptomRiskLevel]int{
				SymptomLowRisk: 0, SymptomMediumRisk: 0, SymptomHighRisk: 0,
			},
			ByDisease:  map[string]int{},
			TopDisease: DiseaseUnknown,
		},
		HighRiskLocations: []string{},
	}

	addLocation := func(r Report) {
		loc := r.Location()
		if r.HighRisk() && loc != "" && !slices.Contains(s.HighRiskLocations, loc) {
			s.HighRiskLocations = append(s.HighRiskLocations, loc)
		}
	}

	total := 0
	for _, r := range water {
		if r.Water == nil {
			continue
		}
		s.Water.Reports++
		s.Water.ByRiskLevel[r.Water.Result.RiskLevel]++
		total += r.Water.Result.Score
		addLocation(r)
	}
	if s.Water.Reports > 0 {
		s.Water.AverageScore = float64(total) / float64(s.Water.Reports)
	}

	for _, r := range health {
		if r.Health == nil {
			continue
		}
		s.Health.Reports++
		s.Health.ByRiskLevel[r.Health.Result.RiskLevel]++
		s.Health.ByDisease[r.Health.Result.DiseaseMatch]++
		addLocation(r)
	}
	s.Health.TopDisease = topDisease(s.Health.ByDisease)

	s.TotalReports = s.Water.Reports + s.Health.Reports
	return s
}

// topDisease returns the most frequent known disease match. Ties go to the
// alphabetically first label.
func topDisease(counts map[string]int) string {
	top, best := DiseaseUnknown, 0
	for name, n := range counts {
		if name == DiseaseUnknown {
			continue
		}
		if n > best || (n == best && name < top) {
			top, best = name, n
		}
	}
	return top
}
