// Command score runs the risk scorers over JSON files of submitted forms and
// prints the results. It uses the same domain package as the service, so the
// output matches what the API would return.
//
// Usage:
//
//	go run ./cmd/score -water readings.json -symptoms cases.json -lang hi
//
// Each file holds a JSON array of forms. Pass "-" to read from stdin.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/couchcryptid/aquaguard-risk/internal/domain"
	"github.com/couchcryptid/aquaguard-risk/internal/locale"
)

type waterOutput struct {
	Location         string   `json:"location"`
	Score            int      `json:"score"`
	RiskLevel        string   `json:"risk_level"`
	RiskLevelLabel   string   `json:"risk_level_label"`
	RiskFactors      []string `json:"risk_factors"`
	RiskFactorLabels []string `json:"risk_factor_labels"`
}

type symptomOutput struct {
	Location          string  `json:"location"`
	RiskScore         float64 `json:"risk_score"`
	RiskScoreDisplay  int     `json:"risk_score_display"`
	RiskLevel         string  `json:"risk_level"`
	RiskLevelLabel    string  `json:"risk_level_label"`
	DiseaseMatch      string  `json:"disease_match"`
	DiseaseMatchLabel string  `json:"disease_match_label"`
}

type output struct {
	Water    []waterOutput   `json:"water,omitempty"`
	Symptoms []symptomOutput `json:"symptoms,omitempty"`
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("score", flag.ContinueOnError)
	waterPath := fs.String("water", "", "JSON array of water forms")
	symptomsPath := fs.String("symptoms", "", "JSON array of symptom forms")
	extended := fs.Bool("extended", false, "enable the abdominal pain and cramps rule")
	lang := fs.String("lang", "en", "label language (en, hi)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *waterPath == "" && *symptomsPath == "" {
		fs.Usage()
		return errors.New("missing required flag: -water or -symptoms")
	}
	if *waterPath == "-" && *symptomsPath == "-" {
		return errors.New("only one of -water and -symptoms may read stdin")
	}

	translator, err := locale.New("en")
	if err != nil {
		return err
	}
	l := translator.Localizer(*lang)

	var out output
	if *waterPath != "" {
		var forms []domain.WaterForm
		if err := readForms(*waterPath, stdin, &forms); err != nil {
			return err
		}
		for _, f := range forms {
			reading := domain.ParseWaterForm(f)
			res := domain.ScoreWater(reading)
			out.Water = append(out.Water, waterOutput{
				Location:         reading.Location,
				Score:            res.Score,
				RiskLevel:        string(res.RiskLevel),
				RiskLevelLabel:   l.WaterRiskLevel(res.RiskLevel),
				RiskFactors:      res.RiskFactors,
				RiskFactorLabels: l.Factors(res.RiskFactors),
			})
		}
	}

	if *symptomsPath != "" {
		var forms []domain.SymptomForm
		if err := readForms(*symptomsPath, stdin, &forms); err != nil {
			return err
		}
		opts := domain.AnalyzerOptions{AbdominalCramps: *extended}
		for _, f := range forms {
			report := domain.ParseSymptomForm(f)
			res := domain.AnalyzeSymptomsWith(report, opts)
			out.Symptoms = append(out.Symptoms, symptomOutput{
				Location:          report.Location,
				RiskScore:         res.RiskScore,
				RiskScoreDisplay:  res.RoundedScore(),
				RiskLevel:         string(res.RiskLevel),
				RiskLevelLabel:    l.SymptomRiskLevel(res.RiskLevel),
				DiseaseMatch:      res.DiseaseMatch,
				DiseaseMatchLabel: l.Disease(res.DiseaseMatch),
			})
		}
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func readForms(path string, stdin io.Reader, v any) error {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
