package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"missviz/internal/model"
	"missviz/internal/pipeline"
	"missviz/internal/render"
	"missviz/internal/report"
)

// analyze runs a fresh pipeline for one request and records its metrics.
func (s *Server) analyze(w http.ResponseWriter, withFigure bool) (*pipeline.Analysis, *render.Figure, bool) {
	start := time.Now()
	runner := pipeline.New(s.config, s.logger)

	a, err := runner.Analyze()
	var fig *render.Figure
	if err == nil && withFigure {
		fig, err = runner.Render(a)
	}
	if err != nil {
		kind := model.Kind(err)
		s.metrics.IncFailuresTotal(kind)
		s.logger.Error("pipeline failed", zap.String("kind", kind), zap.Error(err))
		http.Error(w, err.Error(), statusFor(err))
		return nil, nil, false
	}

	if withFigure {
		s.metrics.IncRendersTotal()
		s.metrics.RenderDuration.Observe(time.Since(start).Seconds())
	}
	return a, fig, true
}

// statusFor maps pipeline errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrConfiguration), errors.Is(err, model.ErrDataContract):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleFigure(w http.ResponseWriter, r *http.Request) {
	_, fig, ok := s.analyze(w, true)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", fig.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(fig.Data)))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := w.Write(fig.Data); err != nil {
		s.logger.Debug("writing figure", zap.Error(err))
	}
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	a, _, ok := s.analyze(w, false)
	if !ok {
		return
	}
	summary := a.Summary(s.config.FlagsPath())

	response := struct {
		Summary report.Summary `json:"summary"`
		Version string         `json:"version"`
	}{
		Summary: summary,
		Version: model.Version,
	}
	s.respondWithJSON(w, http.StatusOK, response)
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

// requestLogger logs each request through zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("took", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}
