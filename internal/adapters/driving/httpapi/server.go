// Package httpapi exposes cannibalization analysis over HTTP.
//
// Routes:
//
//	POST /api/v1/analyze   CSV export in the body, report in the response
//	GET  /api/v1/intent    classify ?q= with optional lang and against
//	GET  /healthz          liveness
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/cannibal-cli/internal/core/domain"
	"github.com/custodia-labs/cannibal-cli/internal/core/ports/driving"
	"github.com/custodia-labs/cannibal-cli/internal/logger"
)

// DefaultMaxBodyBytes caps uploaded exports at 32 MiB.
const DefaultMaxBodyBytes = 32 << 20

// shutdownTimeout bounds how long Run waits for in-flight requests.
const shutdownTimeout = 5 * time.Second

var (
	// ErrMissingAnalysisService is returned when the analysis service is not provided.
	ErrMissingAnalysisService = errors.New("httpapi: analysis service is required")

	// ErrMissingIntentService is returned when the intent service is not provided.
	ErrMissingIntentService = errors.New("httpapi: intent service is required")
)

// Ports aggregates the driving ports the HTTP API calls.
type Ports struct {
	// Analysis runs cannibalization analyses.
	Analysis driving.AnalysisService

	// Intent classifies queries.
	Intent driving.IntentService

	// Settings supplies analysis defaults. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	if p.Intent == nil {
		return ErrMissingIntentService
	}
	return nil
}

func (p *Ports) settings() domain.AppSettings {
	if p.Settings != nil {
		if s, err := p.Settings.Get(); err == nil && s != nil {
			return *s
		}
	}
	return domain.DefaultAppSettings()
}

// Server serves the HTTP API.
type Server struct {
	ports        *Ports
	router       chi.Router
	maxBodyBytes int64
}

// NewServer creates a server with its routes registered.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{
		ports:        ports,
		maxBodyBytes: DefaultMaxBodyBytes,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/intent", s.handleIntent)
	})

	s.router = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
		case <-done:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("HTTP API shutdown: %v", err)
		}
	}()

	logger.Debug("HTTP API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug("%s %s %d %s [%s]", r.Method, r.URL.Path, ww.Status(), time.Since(start),
			middleware.GetReqID(r.Context()))
	})
}
