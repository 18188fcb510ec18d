// Package locale translates risk levels, risk factors and disease labels for
// display. Canonical values stay untranslated in storage and on the wire.
package locale

import (
	"embed"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/aquaguard-risk/internal/domain"
)

//go:embed messages/*.yaml
var messageFS embed.FS

// Supported lists the languages with a message file, English first.
var Supported = []language.Tag{language.English, language.Hindi}

var messageIDs = map[string]string{
	string(domain.WaterSafe):       "water_risk_safe",
	string(domain.WaterLowRisk):    "water_risk_low",
	string(domain.WaterMediumRisk): "water_risk_medium",
	string(domain.WaterHighRisk):   "water_risk_high",

	domain.FactorPH:          "factor_ph",
	domain.FactorTurbidity:   "factor_turbidity",
	domain.FactorTDS:         "factor_tds",
	domain.FactorTemperature: "factor_temperature",
	domain.FactorColor:       "factor_color",
	domain.FactorOdor:        "factor_odor",

	domain.DiseaseUnknown:         "disease_unknown",
	domain.DiseaseDiarrheal:       "disease_diarrheal",
	domain.DiseaseGastroenteritis: "disease_gastroenteritis",
	domain.DiseaseTyphoid:         "disease_typhoid",
	domain.DiseaseHepatitis:       "disease_hepatitis",
}

// Symptom levels are looked up apart from water levels.
var symptomMessageIDs = map[domain.SymptomRiskLevel]string{
	domain.SymptomLowRisk:    "symptom_risk_low",
	domain.SymptomMediumRisk: "symptom_risk_medium",
	domain.SymptomHighRisk:   "symptom_risk_high",
}

// Translator holds the loaded message bundle.
type Translator struct {
	bundle   *i18n.Bundle
	matcher  language.Matcher
	fallback language.Tag
}

// New loads the embedded message files. defaultLang is used when a request
// names no supported language.
func New(defaultLang string) (*Translator, error) {
	fallback, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("parse default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)
	for _, name := range []string{"messages/en.yaml", "messages/hi.yaml"} {
		if _, err := bundle.LoadMessageFileFS(messageFS, name); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
	}

	_, idx, _ := language.NewMatcher(Supported).Match(fallback)
	return &Translator{
		bundle:   bundle,
		matcher:  language.NewMatcher(Supported),
		fallback: Supported[idx],
	}, nil
}

// Localizer picks the best supported language from the given preferences,
// each either a tag ("hi") or an Accept-Language value ("hi-IN,hi;q=0.9").
// Empty preferences fall through to the default language.
func (t *Translator) Localizer(prefs ...string) *Localizer {
	var tags []language.Tag
	for _, p := range prefs {
		if p == "" {
			continue
		}
		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}

	tag := t.fallback
	if len(tags) > 0 {
		if _, idx, conf := t.matcher.Match(tags...); conf != language.No {
			tag = Supported[idx]
		}
	}

	return &Localizer{
		Tag: tag,
		loc: i18n.NewLocalizer(t.bundle, tag.String()),
	}
}

// Localizer translates canonical labels into one language.
type Localizer struct {
	Tag language.Tag
	loc *i18n.Localizer
}

// WaterRiskLevel returns the display label for a water risk level.
func (l *Localizer) WaterRiskLevel(level domain.WaterRiskLevel) string {
	return l.label(messageIDs[string(level)], string(level))
}

// SymptomRiskLevel returns the display label for a symptom risk level.
func (l *Localizer) SymptomRiskLevel(level domain.SymptomRiskLevel) string {
	return l.label(symptomMessageIDs[level], string(level))
}

// Factor returns the display text of a water risk factor.
func (l *Localizer) Factor(factor string) string {
	return l.label(messageIDs[factor], factor)
}

// Factors translates a list of risk factors, preserving order.
func (l *Localizer) Factors(factors []string) []string {
	out := make([]string, len(factors))
	for i, f := range factors {
		out[i] = l.Factor(f)
	}
	return out
}

// Disease returns the display text of a disease match label.
func (l *Localizer) Disease(label string) string {
	return l.label(messageIDs[label], label)
}

// label falls back to the canonical text for unknown IDs.
func (l *Localizer) label(id, canonical string) string {
	if id == "" {
		return canonical
	}
	s, err := l.loc.Localize(&i18n.LocalizeConfig{MessageID: id})
	if err != nil {
		return canonical
	}
	return s
}
