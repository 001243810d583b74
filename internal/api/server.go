// Package api provides the HTTP server for contaudit's daemon mode. It
// exposes audit runs, the rule catalog, health, and Prometheus metrics.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/contaudit/contaudit/internal/audit"
	"github.com/contaudit/contaudit/internal/audit/catalog"
	"github.com/contaudit/contaudit/internal/domain"
	"github.com/contaudit/contaudit/internal/infra/observability"
)

// Version is the API-reported build version.
const Version = "0.1.0"

// Server is the contaudit HTTP API server.
type Server struct {
	engine         *audit.Engine
	metricsEnabled bool
}

// NewServer creates a new API server around a configured engine.
func NewServer(engine *audit.Engine) *Server {
	return &Server{engine: engine}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(5 * time.Minute))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": Version})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/audits", s.handleRunAudit)
		r.Get("/rules", s.handleListRules)
		r.Get("/modules", s.handleListModules)
	})

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// ─── Audit Runs ─────────────────────────────────────────────────────────────

// auditRequest is the POST /v1/audits body.
type auditRequest struct {
	Year     int      `json:"year"`
	Month    int      `json:"month"`
	Modules  []string `json:"modules,omitempty"`
	DryRun   bool     `json:"dry_run"`
	FailFast *bool    `json:"fail_fast,omitempty"`
}

func (s *Server) handleRunAudit(w http.ResponseWriter, r *http.Request) {
	var req auditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Month != 0 && (req.Month < 1 || req.Month > 12) {
		writeError(w, http.StatusBadRequest, "month must be 1-12")
		return
	}
	if req.Month != 0 && req.Year == 0 {
		writeError(w, http.StatusBadRequest, "month requires a year")
		return
	}

	params := audit.DefaultRunParams()
	params.Scope = audit.Scope{Year: req.Year, Month: time.Month(req.Month)}
	params.Modules = req.Modules
	params.DryRun = req.DryRun
	if req.FailFast != nil {
		params.FailFast = *req.FailFast
	}

	start := time.Now()
	report, err := s.engine.Run(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownModule):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrEmptyScope):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrValidatorFailed):
			observability.AuditRuns.WithLabelValues("failed").Inc()
			writeError(w, http.StatusInternalServerError, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	outcome := "ok"
	if report.HadExecutionFailures() {
		outcome = "partial"
		for _, module := range report.ExecutionFailures {
			observability.ValidatorFailures.WithLabelValues(module).Inc()
		}
	}
	observability.ObserveRun(outcome, time.Since(start), severityCounts(report))

	writeJSON(w, http.StatusOK, report)
}

func severityCounts(r *domain.Report) map[string]int {
	out := make(map[string]int, len(r.Summary.BySeverity))
	for sev, n := range r.Summary.BySeverity {
		out[string(sev)] = n
	}
	return out
}

// ─── Catalog ────────────────────────────────────────────────────────────────

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	module := r.URL.Query().Get("module")
	if module == "" {
		writeJSON(w, http.StatusOK, map[string]any{"rules": catalog.Rules})
		return
	}
	rules := catalog.ByModule(module)
	if len(rules) == 0 {
		writeError(w, http.StatusNotFound, "unknown module: "+module)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"rules": rules})
}

func (s *Server) handleListModules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"modules": catalog.Modules()})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    "error",
		},
	})
}
