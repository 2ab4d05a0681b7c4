package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/domain/errors"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/service/analytics"
	"github.com/laxmidaddagol/E-commerce-return-and-fraud-analysis/internal/service/fraud"
)

const (
	cacheKeyDashboard = "analytics:dashboard"
	cacheKeyPatterns  = "fraud:patterns"
)

// Handler holds the service dependencies for all routes
type Handler struct {
	deps      Deps
	logger    *slog.Logger
	validator *validator.Validate
}

// NewHandler creates the route handler set
func NewHandler(deps Deps, logger *slog.Logger) *Handler {
	return &Handler{
		deps:      deps,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) metricsHandler() http.Handler {
	return promhttp.Handler()
}

// dashboardQuery bounds the dashboard to an optional date range
type dashboardQuery struct {
	StartDate string `validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	q := dashboardQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if err := h.validator.Struct(q); err != nil {
		h.writeError(w, r, errors.NewValidationError("INVALID_FILTER",
			"start_date and end_date must be YYYY-MM-DD").WithCause(err))
		return
	}

	filter, err := parseDateFilter(q.StartDate, q.EndDate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	cacheKey := fmt.Sprintf("%s:%s:%s", cacheKeyDashboard, q.StartDate, q.EndDate)
	var cached analytics.Metrics
	if h.cacheGet(r.Context(), cacheKey, &cached) {
		h.writeJSON(w, http.StatusOK, cached)
		return
	}

	m, err := h.deps.Analytics.DashboardMetrics(r.Context(), filter)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.cacheSet(r.Context(), cacheKey, m)
	h.writeJSON(w, http.StatusOK, m)
}

func (h *Handler) handleRiskProfiles(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 50, 1, 1000)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	profiles, err := h.deps.Analytics.CustomerRiskProfiles(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(profiles),
		"profiles": profiles,
	})
}

func (h *Handler) handleTrends(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", 30, 1, 365)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	trends, err := h.deps.Analytics.TrendAnalysis(r.Context(), days)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, trends)
}

func (h *Handler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	updated, err := h.deps.Analytics.RefreshCustomerRiskScores(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	// Scores changed; cached snapshots are stale
	if h.deps.Cache != nil {
		_ = h.deps.Cache.Delete(r.Context(), cacheKeyPatterns)
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

func (h *Handler) handleCustomerScore(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, errors.NewValidationError("INVALID_FILTER",
			"customer id must be a UUID").WithCause(err))
		return
	}

	result, err := h.deps.Fraud.CalculateFraudScore(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleFraudPatterns(w http.ResponseWriter, r *http.Request) {
	var cached []fraud.Pattern
	if h.cacheGet(r.Context(), cacheKeyPatterns, &cached) {
		h.writeJSON(w, http.StatusOK, map[string]interface{}{
			"count":    len(cached),
			"patterns": cached,
		})
		return
	}

	patterns, err := h.deps.Fraud.DetectAnomalies(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.cacheSet(r.Context(), cacheKeyPatterns, patterns)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(patterns),
		"patterns": patterns,
	})
}

// handleDataQuery serves raw collection listings as JSON. It rides on the
// export path so both surfaces agree on shape and bounds.
func (h *Handler) handleDataQuery(w http.ResponseWriter, r *http.Request) {
	q := dashboardQuery{
		StartDate: r.URL.Query().Get("start_date"),
		EndDate:   r.URL.Query().Get("end_date"),
	}
	if err := h.validator.Struct(q); err != nil {
		h.writeError(w, r, errors.NewValidationError("INVALID_FILTER",
			"start_date and end_date must be YYYY-MM-DD").WithCause(err))
		return
	}
	filter, err := parseDateFilter(q.StartDate, q.EndDate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.deps.Analytics.Export(r.Context(), analytics.ExportRequest{
		Format:   analytics.ExportJSON,
		DataType: r.PathValue("type"),
		Filter:   filter,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}

// exportRequest is the POST /export body
type exportRequest struct {
	ExportType string `json:"export_type" validate:"required,oneof=csv json"`
	DataType   string `json:"data_type" validate:"required"`
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, errors.NewValidationError("INVALID_FILTER",
			"request body must be valid JSON").WithCause(err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.writeError(w, r, errors.NewValidationError("INVALID_FILTER",
			"export_type must be csv or json and data_type is required").WithCause(err))
		return
	}

	filter, err := parseDateFilter(req.StartDate, req.EndDate)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.deps.Analytics.Export(r.Context(), analytics.ExportRequest{
		Format:   analytics.ExportFormat(req.ExportType),
		DataType: req.DataType,
		Filter:   filter,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.Header().Set("X-Record-Count", strconv.Itoa(result.RecordCount))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Data)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK
	if h.deps.Health != nil {
		if err := h.deps.Health(r.Context()); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
			h.logger.WarnContext(r.Context(), "health check failed", "error", err)
		}
	}
	h.writeJSON(w, code, map[string]string{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Helpers

func parseDateFilter(startDate, endDate string) (analytics.DateFilter, error) {
	var filter analytics.DateFilter
	if startDate != "" {
		t, err := time.Parse("2006-01-02", startDate)
		if err != nil {
			return filter, errors.NewValidationError("INVALID_FILTER", "invalid start_date")
		}
		filter.Start = &t
	}
	if endDate != "" {
		t, err := time.Parse("2006-01-02", endDate)
		if err != nil {
			return filter, errors.NewValidationError("INVALID_FILTER", "invalid end_date")
		}
		// Include the whole end day
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.End = &t
	}
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return filter, errors.NewValidationError("INVALID_FILTER", "end_date precedes start_date")
	}
	return filter, nil
}

func queryInt(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, errors.NewValidationError("INVALID_FILTER",
			fmt.Sprintf("%s must be an integer between %d and %d", name, min, max))
	}
	return v, nil
}

func (h *Handler) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if h.deps.Cache == nil {
		return false
	}
	return h.deps.Cache.GetJSON(ctx, key, dest) == nil
}

func (h *Handler) cacheSet(ctx context.Context, key string, value interface{}) {
	if h.deps.Cache == nil {
		return
	}
	if err := h.deps.Cache.SetJSON(ctx, key, value); err != nil {
		h.logger.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("response encode failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	message := "An internal error occurred"

	if appErr, ok := errors.AsAppError(err); ok {
		status = appErr.StatusCode
		code = appErr.Code
		message = appErr.Message
	}

	if status >= 500 {
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "error", err)
	}

	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
