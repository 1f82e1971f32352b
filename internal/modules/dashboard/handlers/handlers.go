// Package handlers provides HTTP handlers for dashboard operations.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/aristath/quantdash/internal/domain"
	"github.com/aristath/quantdash/internal/modules/dashboard"
	"github.com/aristath/quantdash/internal/modules/series"
	"github.com/rs/zerolog"
)

// Renderer is the dashboard service surface the handlers use
type Renderer interface {
	Render(ctx context.Context, p dashboard.Params) (*dashboard.Dashboard, error)
	Table(ctx context.Context, p dashboard.Params) (*domain.StrategyTable, error)
	Defaults() dashboard.Params
}

// Handler handles dashboard HTTP requests
type Handler struct {
	service Renderer
	log     zerolog.Logger
}

// NewHandler creates a new dashboard handler
func NewHandler(service Renderer, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "dashboard").Logger(),
	}
}

// HandleGetDashboard handles GET /api/dashboard
func (h *Handler) HandleGetDashboard(w http.ResponseWriter, r *http.Request) {
	d, ok := h.render(w, r)
	if !ok {
		return
	}
	h.writeData(w, d)
}

// HandleGetSeries handles GET /api/series
func (h *Handler) HandleGetSeries(w http.ResponseWriter, r *http.Request) {
	p, err := dashboard.ParseQuery(r.URL.Query(), h.service.Defaults())
	if err == nil {
		err = p.Validate()
	}
	if err != nil {
		h.WriteError(w, err)
		return
	}

	table, err := h.service.Table(r.Context(), p)
	if err != nil {
		h.WriteError(w, err)
		return
	}

	h.writeData(w, table)
}

// HandleGetPerformance handles GET /api/performance
func (h *Handler) HandleGetPerformance(w http.ResponseWriter, r *http.Request) {
	d, ok := h.render(w, r)
	if !ok {
		return
	}

	h.writeData(w, map[string]interface{}{
		"strategy":   d.Strategy,
		"benchmark":  d.Benchmark,
		"cagr_delta": d.CAGRDelta,
		"regression": d.Regression,
		"warnings":   d.Warnings,
	})
}

// render parses the query and renders a dashboard. On failure the error
// response is already written.
func (h *Handler) render(w http.ResponseWriter, r *http.Request) (*dashboard.Dashboard, bool) {
	p, err := dashboard.ParseQuery(r.URL.Query(), h.service.Defaults())
	if err != nil {
		h.WriteError(w, err)
		return nil, false
	}

	d, err := h.service.Render(r.Context(), p)
	if err != nil {
		h.WriteError(w, err)
		return nil, false
	}
	return d, true
}

// ErrorStatus maps a pipeline error to its HTTP status and error code
func ErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, dashboard.ErrInvalidParams), errors.Is(err, series.ErrInvalidRange):
		return http.StatusBadRequest, "INVALID_PARAMS"
	case errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusNotFound, "DATA_UNAVAILABLE"
	case errors.Is(err, domain.ErrInsufficientHistory):
		return http.StatusUnprocessableEntity, "INSUFFICIENT_HISTORY"
	case errors.Is(err, domain.ErrDegenerateDistribution):
		return http.StatusUnprocessableEntity, "DEGENERATE_DISTRIBUTION"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "TIMEOUT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// WriteError writes the error envelope for err
func (h *Handler) WriteError(w http.ResponseWriter, err error) {
	status, code := ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("Dashboard request failed")
	} else {
		h.log.Debug().Err(err).Str("code", code).Msg("Dashboard request rejected")
	}

	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": err.Error(),
			"code":    code,
		},
	})
}

func (h *Handler) writeData(w http.ResponseWriter, data interface{}) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
