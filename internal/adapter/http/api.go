package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/aquaguard-risk/internal/domain"
	"github.com/couchcryptid/aquaguard-risk/internal/locale"
	"github.com/couchcryptid/aquaguard-risk/internal/store"
)

const maxBodyBytes = 1 << 20

// ReportService is the subset of service.Reports the API calls.
type ReportService interface {
	ScoreWater(form domain.WaterForm) domain.WaterQualityResult
	AnalyzeSymptoms(form domain.SymptomForm) domain.SymptomRiskResult
	SubmitWater(ctx context.Context, form domain.WaterForm, idempotencyKey string) (domain.Report, error)
	SubmitHealth(ctx context.Context, form domain.SymptomForm, idempotencyKey string) (domain.Report, error)
	List(ctx context.Context, c domain.Collection) ([]domain.Report, error)
	Summary(ctx context.Context) (domain.Summary, error)
	SeedSamples(ctx context.Context) ([]domain.Report, error)
}

type api struct {
	reports    ReportService
	translator *locale.Translator
	logger     *slog.Logger
}

func (a *api) register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/score/water", a.handleScoreWater)
	mux.HandleFunc("POST /api/v1/score/symptoms", a.handleScoreSymptoms)
	mux.HandleFunc("POST /api/v1/reports/water", a.handleSubmitWater)
	mux.HandleFunc("POST /api/v1/reports/health", a.handleSubmitHealth)
	mux.HandleFunc("GET /api/v1/reports/{collection}", a.handleList)
	mux.HandleFunc("GET /api/v1/summary", a.handleSummary)
	mux.HandleFunc("POST /api/v1/samples", a.handleSamples)
}

// localizer honours ?lang= first, then Accept-Language, and echoes the
// chosen language in Content-Language.
func (a *api) localizer(w http.ResponseWriter, r *http.Request, extra ...string) *locale.Localizer {
	prefs := append([]string{r.URL.Query().Get("lang")}, extra...)
	prefs = append(prefs, r.Header.Get("Accept-Language"))
	l := a.translator.Localizer(prefs...)
	w.Header().Set("Content-Language", l.Tag.String())
	return l
}

func (a *api) handleScoreWater(w http.ResponseWriter, r *http.Request) {
	var form domain.WaterForm
	if !a.decode(w, r, &form) {
		return
	}
	l := a.localizer(w, r)
	sharedobs.WriteJSON(w, http.StatusOK, newWaterResultView(a.reports.ScoreWater(form), l))
}

func (a *api) handleScoreSymptoms(w http.ResponseWriter, r *http.Request) {
	var form domain.SymptomForm
	if !a.decode(w, r, &form) {
		return
	}
	l := a.localizer(w, r, form.Language)
	sharedobs.WriteJSON(w, http.StatusOK, newSymptomResultView(a.reports.AnalyzeSymptoms(form), l))
}

func (a *api) handleSubmitWater(w http.ResponseWriter, r *http.Request) {
	var form domain.WaterForm
	if !a.decode(w, r, &form) {
		return
	}
	report, err := a.reports.SubmitWater(r.Context(), form, r.Header.Get("Idempotency-Key"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusCreated, newReportView(report, a.localizer(w, r)))
}

func (a *api) handleSubmitHealth(w http.ResponseWriter, r *http.Request) {
	var form domain.SymptomForm
	if !a.decode(w, r, &form) {
		return
	}
	report, err := a.reports.SubmitHealth(r.Context(), form, r.Header.Get("Idempotency-Key"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusCreated, newReportView(report, a.localizer(w, r, form.Language)))
}

func (a *api) handleList(w http.ResponseWriter, r *http.Request) {
	c, err := domain.ParseCollection(r.PathValue("collection"))
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	reports, err := a.reports.List(r.Context(), c)
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, newReportViews(reports, a.localizer(w, r)))
}

func (a *api) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := a.reports.Summary(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, newSummaryView(summary, a.localizer(w, r)))
}

func (a *api) handleSamples(w http.ResponseWriter, r *http.Request) {
	reports, err := a.reports.SeedSamples(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusCreated, newReportViews(reports, a.localizer(w, r)))
}

func (a *api) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err == nil && dec.More() {
		err = errors.New("unexpected data after JSON object")
	}
	if err != nil {
		sharedobs.WriteJSON(w, http.StatusBadRequest, errorBody(fmt.Errorf("invalid request body: %w", err)))
		return false
	}
	return true
}

func (a *api) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnknownKind), errors.Is(err, store.ErrUnknownCollection):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateReport):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	sharedobs.WriteJSON(w, status, errorBody(err))
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
