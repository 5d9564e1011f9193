// Package api is the thin HTTP adapter in front of the pipeline: request
// decoding, correlation id minting and status mapping live here, nothing else.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "design-orchestrator/internal/common/errors"
	"design-orchestrator/internal/common/logger"
	"design-orchestrator/internal/health"
	"design-orchestrator/internal/models"
)

// Runner executes the pipeline for one request.
type Runner interface {
	Run(ctx context.Context, req *models.DesignRequest) (*models.AggregatedResponse, error)
}

type Server struct {
	runner  Runner
	tracker *health.Tracker
	logger  logger.Logger
}

func NewServer(runner Runner, tracker *health.Tracker, log logger.Logger) *Server {
	return &Server{
		runner:  runner,
		tracker: tracker,
		logger: log.With(map[string]interface{}{
			"component": "api",
		}),
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/v1/designs", s.handleGenerateDesign)

	return r
}

func (s *Server) handleGenerateDesign(w http.ResponseWriter, r *http.Request) {
	var req models.DesignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeFailure(w, http.StatusBadRequest, "INVALID_REQUEST", "request body is not valid JSON", "")
		return
	}
	if req.RequesterID == "" || req.Prompt == "" {
		s.writeFailure(w, http.StatusBadRequest, "INVALID_REQUEST", "requesterId and prompt are required", req.CorrelationID)
		return
	}

	// Correlation id is minted exactly once, at the boundary.
	if req.CorrelationID == "" {
		req.CorrelationID = uuid.NewString()
	}

	response, err := s.runner.Run(r.Context(), &req)
	if err != nil {
		s.logger.Error("request failed", map[string]interface{}{
			"correlationId": req.CorrelationID,
			"code":          string(apperrors.CodeOf(err)),
			"error":         err.Error(),
		})
		switch apperrors.CodeOf(err) {
		case apperrors.ErrCodeGenerationFailed:
			s.writeFailure(w, http.StatusBadGateway, string(apperrors.ErrCodeGenerationFailed), "design generation failed", req.CorrelationID)
		case apperrors.ErrCodeContractViolation:
			s.writeFailure(w, http.StatusInternalServerError, string(apperrors.ErrCodeContractViolation), "internal pipeline contract violation", req.CorrelationID)
		default:
			s.writeFailure(w, http.StatusInternalServerError, "INTERNAL_ERROR", "unexpected failure", req.CorrelationID)
		}
		return
	}

	s.writeJSON(w, http.StatusOK, response)
}

// healthResponse is the /healthz body: overall verdict plus per-dependency
// records from the tracker.
type healthResponse struct {
	Status       string          `json:"status"`
	Dependencies []health.Record `json:"dependencies"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	records := s.tracker.Snapshot()

	status := "healthy"
	for _, rec := range records {
		if rec.Status == health.StatusUnhealthy {
			// The process still serves requests on fallbacks, so a down
			// dependency degrades the verdict without failing the probe.
			status = "degraded"
			break
		}
	}
	if records == nil {
		records = []health.Record{}
	}

	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:       status,
		Dependencies: records,
	})
}

func (s *Server) writeFailure(w http.ResponseWriter, status int, code, message, correlationID string) {
	s.writeJSON(w, status, models.FailureResponse{
		Code:          code,
		Message:       message,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("response encoding failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
