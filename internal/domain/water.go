package domain

// WaterRiskLevel is the canonical risk bucket for a water-quality score.
type WaterRiskLevel string

const (
	WaterSafe       WaterRiskLevel = "Safe"
	WaterLowRisk    WaterRiskLevel = "LowRisk"
	WaterMediumRisk WaterRiskLevel = "MediumRisk"
	WaterHighRisk   WaterRiskLevel = "HighRisk"
)

// Risk factor descriptions, in evaluation order.
const (
	FactorPH          = "pH out of safe range"
	FactorTurbidity   = "High turbidity detected"
	FactorTDS         = "High dissolved solids"
	FactorTemperature = "Temperature abnormal"
	FactorColor       = "Unusual water color"
	FactorOdor        = "Water has odor"
)

// Penalty weights subtracted from the starting score of 100.
const (
	PenaltyPH          = 20
	PenaltyTurbidity   = 25
	PenaltyTDS         = 15
	PenaltyTemperature = 10
	PenaltyColor       = 15
	PenaltyOdor        = 20
)

// WaterQualityReading holds the measured and observed parameters of a water source.
type WaterQualityReading struct {
	Location    string  `json:"location"`
	PH          float64 `json:"ph"`
	Turbidity   float64 `json:"turbidity"`   // NTU
	TDS         float64 `json:"tds"`         // ppm
	Temperature float64 `json:"temperature"` // °C
	Color       string  `json:"color"`
	Odor        string  `json:"odor"`
}

// WaterQualityResult is the safety score of a reading.
type WaterQualityResult struct {
	Score       int            `json:"score"`
	RiskLevel   WaterRiskLevel `json:"risk_level"`
	RiskFactors []string       `json:"risk_factors"`
}

// ScoreWater computes the 0–100 safety score, risk level and triggered risk
// factors for a reading. Out-of-range values are scored, never rejected.
func ScoreWater(r WaterQualityReading) WaterQualityResult {
	score := 100
	factors := make([]string, 0, 6)

	if r.PH < 6.5 || r.PH > 8.5 {
		score -= PenaltyPH
		factors = append(factors, FactorPH)
	}
	if r.Turbidity > 5 {
		score -= PenaltyTurbidity
		factors = append(factors, FactorTurbidity)
	}
	if r.TDS > 500 {
		score -= PenaltyTDS
		factors = append(factors, FactorTDS)
	}
	if r.Temperature > 35 || r.Temperature < 10 {
		score -= PenaltyTemperature
		factors = append(factors, FactorTemperature)
	}
	if r.Color != "clear" {
		score -= PenaltyColor
		factors = append(factors, FactorColor)
	}
	if r.Odor != "none" {
		score -= PenaltyOdor
		factors = append(factors, FactorOdor)
	}

	score = max(0, score)

	return WaterQualityResult{
		Score:       score,
		RiskLevel:   WaterRiskLevelFor(score),
		RiskFactors: factors,
	}
}

// WaterRiskLevelFor maps a water safety score to its risk bucket.
func WaterRiskLevelFor(score int) WaterRiskLevel {
	switch {
	case score < 30:
		return WaterHighRisk
	case score < 60:
		return WaterMediumRisk
	case score < 80:
		return WaterLowRisk
	default:
		return WaterSafe
	}
}
