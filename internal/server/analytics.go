package server

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trends/internal/models"
	"github.com/desertthunder/trends/internal/shared"
	"github.com/desertthunder/trends/internal/tasks"
)

const analyticsServiceName = "AnalyticsService"

// HealthStatus is the body of the analytics health check.
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

// RefreshStatus is the body returned by the refresh endpoint.
type RefreshStatus struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Status    string    `json:"status"`
}

// AnalyticsHandler serves the analytics API under /api/analytics.
//
// The caller's Authorization header is passed to the engine as the credential.
type AnalyticsHandler struct {
	engine  tasks.Engine
	metrics *Metrics
	logger  *log.Logger
	now     func() time.Time
}

// NewAnalyticsHandler creates a handler backed by engine. metrics may be nil.
func NewAnalyticsHandler(engine tasks.Engine, metrics *Metrics, logger *log.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AnalyticsHandler{
		engine:  engine,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *AnalyticsHandler) Routes() []string {
	return []string{
		"/api/analytics/health",
		"/api/analytics/analytics",
		"/api/analytics/dna",
		"/api/analytics/refresh",
	}
}

func (h *AnalyticsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/analytics/health":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.health(w, r)
	case "/api/analytics/analytics":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.analytics(w, r)
	case "/api/analytics/dna":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}
		h.dna(w, r)
	case "/api/analytics/refresh":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}
		h.refresh(w, r)
	default:
		writeError(w, http.StatusNotFound, "Not found", nil)
	}
}

func (h *AnalyticsHandler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthStatus{
		Status:    "healthy",
		Timestamp: h.now(),
		Service:   analyticsServiceName,
	})
}

func (h *AnalyticsHandler) analytics(w http.ResponseWriter, r *http.Request) {
	credential := r.Header.Get("Authorization")
	if credential == "" {
		writeError(w, http.StatusUnauthorized, "Authorization header is required", nil)
		return
	}

	timeRange := timeRangeParam(r)
	result, err := h.engine.Generate(r.Context(), timeRange, credential)
	if err != nil {
		h.logger.Error("error generating analytics", "time_range", timeRange, "error", err, "request_id", RequestIDFrom(r.Context()))
		h.observe(timeRange, "error")
		writeError(w, http.StatusInternalServerError, "Error generating analytics", err)
		return
	}

	h.observe(timeRange, "ok")
	writeJSON(w, http.StatusOK, result)
}

func (h *AnalyticsHandler) dna(w http.ResponseWriter, r *http.Request) {
	credential := r.Header.Get("Authorization")
	if credential == "" {
		writeError(w, http.StatusUnauthorized, "Authorization header is required", nil)
		return
	}

	timeRange := timeRangeParam(r)
	dna, err := h.engine.DNA(r.Context(), timeRange, credential)
	if err != nil {
		h.logger.Error("error generating music dna", "time_range", timeRange, "error", err)
		writeError(w, http.StatusInternalServerError, "Error generating music DNA", err)
		return
	}
	writeJSON(w, http.StatusOK, dna)
}

// refresh acknowledges a refresh request. Nothing is cached, so every analytics call is already fresh.
func (h *AnalyticsHandler) refresh(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		writeError(w, http.StatusUnauthorized, "Authorization header is required", nil)
		return
	}

	writeJSON(w, http.StatusOK, RefreshStatus{
		Message:   "Analytics data refreshed successfully",
		Timestamp: h.now(),
		Status:    "refreshed",
	})
}

func (h *AnalyticsHandler) observe(timeRange, outcome string) {
	if h.metrics != nil {
		h.metrics.ObserveAnalytics(timeRange, outcome)
	}
}

// timeRangeParam reads the timeRange query parameter in any letter case, defaulting to medium_term.
func timeRangeParam(r *http.Request) string {
	if tr := queryValue(r, "timeRange"); tr != "" {
		return tr
	}
	return models.DefaultTimeRange
}
