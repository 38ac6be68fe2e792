package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JKevinXu/NewsAgent/internal/domain"
	"github.com/JKevinXu/NewsAgent/internal/usecase"
)

// Server exposes the direct-trigger HTTP surface. The trigger kind only
// selects the response shape; a direct run behaves exactly like a
// scheduled one.
type Server struct {
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New wires the pipeline behind the trigger endpoints.
func New(pipeline *usecase.Pipeline, log *slog.Logger) *Server {
	return &Server{pipeline: pipeline, logger: log}
}

// Router builds the HTTP routes.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Post("/run", s.handleRun)
	r.Get("/healthz", s.handleHealth)
	return r
}

// handleRun executes a run and answers 200 for any completed run, even a
// fully degraded one; 500 is reserved for a top-level failure.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	result := s.pipeline.Run(r.Context(), domain.TriggerDirect)

	status := http.StatusOK
	if result.Stage == domain.StageFailed {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(result); err != nil && s.logger != nil {
		s.logger.Error("encode run result", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
