package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/custodia-labs/cannibal-cli/internal/adapters/driven/export"
	"github.com/custodia-labs/cannibal-cli/internal/adapters/driven/source/csvsource"
	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
}

type intentResponse struct {
	Query       string   `json:"query"`
	Language    string   `json:"language"`
	Intent      string   `json:"intent"`
	Description string   `json:"description"`
	Conflict    *float64 `json:"conflict,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze analyses the CSV export in the request body.
// POST /api/v1/analyze?threshold=&min_queries=&lang=&metrics=&skip_invalid=&format=
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	settings := s.ports.settings()
	opts, err := analysisOptions(r, settings)
	if err != nil {
		writeError(w, err)
		return
	}

	format := domain.OutputJSON
	if f := r.URL.Query().Get("format"); f != "" {
		format = domain.OutputFormat(f)
	}
	exporter, err := export.ForFormat(format)
	if err != nil {
		writeError(w, err)
		return
	}

	skipInvalid := settings.Import.SkipInvalid
	if v := r.URL.Query().Get("skip_invalid"); v != "" {
		if skipInvalid, err = strconv.ParseBool(v); err != nil {
			writeError(w, fmt.Errorf("%w: skip_invalid %q", domain.ErrInvalidInput, v))
			return
		}
	}

	body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	records, err := csvsource.New(body, csvsource.Options{SkipInvalid: skipInvalid}).Records(r.Context())
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: err.Error()})
			return
		}
		writeError(w, err)
		return
	}

	report, err := s.ports.Analysis.Analyze(r.Context(), records, opts)
	if err != nil {
		writeError(w, err)
		return
	}
	report.Source = "upload"

	w.Header().Set("Content-Type", contentType(format))
	w.WriteHeader(http.StatusOK)
	if err := exporter.Export(w, report); err != nil {
		logger.Warn("Failed to write report: %v", err)
	}
}

// handleIntent classifies a query.
// GET /api/v1/intent?q=&lang=&against=
func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.TrimSpace(q.Get("q"))
	if query == "" {
		writeError(w, fmt.Errorf("%w: q is required", domain.ErrInvalidInput))
		return
	}

	lang := domain.Language(q.Get("lang"))
	if lang == "" {
		lang = s.ports.settings().Intent.Language
	}

	intent, err := s.ports.Intent.Classify(lang, query)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := intentResponse{
		Query:       query,
		Language:    lang.String(),
		Intent:      intent.String(),
		Description: intent.Description(),
	}

	if against := q.Get("against"); against != "" {
		other := domain.Intent(against)
		if !other.IsValid() {
			writeError(w, fmt.Errorf("%w: unknown intent %q", domain.ErrInvalidInput, against))
			return
		}
		conflict := s.ports.Intent.Conflict(intent, other)
		resp.Conflict = &conflict
	}

	writeJSON(w, http.StatusOK, resp)
}

func analysisOptions(r *http.Request, settings domain.AppSettings) (domain.AnalysisOptions, error) {
	opts := settings.AnalysisOptions()
	q := r.URL.Query()

	if v := q.Get("threshold"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return opts, fmt.Errorf("%w: threshold %q", domain.ErrInvalidInput, v)
		}
		opts.SimilarityThreshold = f
	}
	if v := q.Get("min_queries"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return opts, fmt.Errorf("%w: min_queries %q", domain.ErrInvalidInput, v)
		}
		opts.Config.MinQueries = n
	}
	if v := q.Get("lang"); v != "" {
		opts.Language = domain.Language(v)
	}
	if v := q.Get("metrics"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, fmt.Errorf("%w: metrics %q", domain.ErrInvalidInput, v)
		}
		opts.ComputeMetrics = b
	}

	return opts, nil
}

func contentType(format domain.OutputFormat) string {
	switch format {
	case domain.OutputCSV:
		return "text/csv; charset=utf-8"
	case domain.OutputYAML:
		return "application/yaml"
	default:
		return "application/json"
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoRecords):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrMissingColumns),
		errors.Is(err, domain.ErrInvalidRow),
		errors.Is(err, domain.ErrUnknownLanguage),
		errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Warn("Request failed: %v", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Failed to encode response: %v", err)
	}
}
