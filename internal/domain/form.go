package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Fallbacks applied when a numeric form field is missing or unusable.
const (
	DefaultPH          = 7.0
	DefaultTurbidity   = 0.0
	DefaultTDS         = 0.0
	DefaultTemperature = 25.0
	DefaultColor       = "clear"
	DefaultOdor        = "none"
)

// FormValue is a loosely typed form field. It accepts a JSON string, number or
// null and keeps the raw text for later parsing.
type FormValue string

// UnmarshalJSON implements json.Unmarshaler.
func (v *FormValue) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*v = ""
		return nil
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*v = FormValue(str)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("form value %s: %w", s, err)
	}
	*v = FormValue(n.String())
	return nil
}

// WaterForm is a water-quality submission as entered by a reporter.
type WaterForm struct {
	Location     string    `json:"location"`
	PH           FormValue `json:"ph"`
	Turbidity    FormValue `json:"turbidity"`
	TDS          FormValue `json:"tds"`
	Temperature  FormValue `json:"temperature"`
	Color        string    `json:"color"`
	Odor         string    `json:"odor"`
	ReporterName string    `json:"reporter_name"`
}

// SymptomForm is a symptom submission as entered by a reporter.
type SymptomForm struct {
	ReporterName string    `json:"reporter_name"`
	Location     string    `json:"location"`
	PatientAge   FormValue `json:"patient_age"`
	Symptoms     string    `json:"symptoms"`
	Severity     string    `json:"severity"`
	Duration     string    `json:"duration"`
	Language     string    `json:"language,omitempty"`
}

// ParseWaterForm converts a form into a reading, applying the fallback values.
// A field that parses to zero also falls back, so an entered pH of 0 scores as 7.0.
func ParseWaterForm(f WaterForm) WaterQualityReading {
	return WaterQualityReading{
		Location:    strings.TrimSpace(f.Location),
		PH:          floatOr(f.PH, DefaultPH),
		Turbidity:   floatOr(f.Turbidity, DefaultTurbidity),
		TDS:         floatOr(f.TDS, DefaultTDS),
		Temperature: floatOr(f.Temperature, DefaultTemperature),
		Color:       stringOr(f.Color, DefaultColor),
		Odor:        stringOr(f.Odor, DefaultOdor),
	}
}

// ParseSymptomForm converts a form into a symptom report. An unparseable
// patient age becomes 0.
func ParseSymptomForm(f SymptomForm) SymptomReport {
	return SymptomReport{
		ReporterName: strings.TrimSpace(f.ReporterName),
		Location:     strings.TrimSpace(f.Location),
		PatientAge:   intOrZero(f.PatientAge),
		Symptoms:     f.Symptoms,
		Severity:     strings.TrimSpace(f.Severity),
		Duration:     strings.TrimSpace(f.Duration),
	}
}

func floatOr(v FormValue, fallback float64) float64 {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f == 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return fallback
	}
	return f
}

func intOrZero(v FormValue) int {
	s := strings.TrimSpace(string(v))
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

func stringOr(s, fallback string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	return s
}
