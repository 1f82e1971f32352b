// Package handlers provides HTTP handlers for risk metrics operations.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/aristath/quantdash/internal/modules/dashboard"
	dashboardhandlers "github.com/aristath/quantdash/internal/modules/dashboard/handlers"
	"github.com/rs/zerolog"
)

// Renderer is the dashboard service surface the risk handlers use
type Renderer interface {
	Render(ctx context.Context, p dashboard.Params) (*dashboard.Dashboard, error)
	Defaults() dashboard.Params
}

// Handler handles risk metrics HTTP requests
type Handler struct {
	service Renderer
	log     zerolog.Logger
}

// NewHandler creates a new risk metrics handler
func NewHandler(service Renderer, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "risk").Logger(),
	}
}

// HandleGetVaR handles GET /api/risk/var
func (h *Handler) HandleGetVaR(w http.ResponseWriter, r *http.Request) {
	d, ok := h.render(w, r)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": map[string]interface{}{
			"window":     d.Risk.Window,
			"confidence": d.Risk.Confidence,
			"method":     "historical",
			"points":     d.Risk.VaR,
			"warnings":   d.Warnings,
		},
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

// HandleGetMonteCarlo handles GET /api/risk/montecarlo
func (h *Handler) HandleGetMonteCarlo(w http.ResponseWriter, r *http.Request) {
	d, ok := h.render(w, r)
	if !ok {
		return
	}

	if d.Risk.MonteCarlo == nil {
		h.writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error": map[string]interface{}{
				"message": "Monte Carlo simulation unavailable for this range",
				"code":    "INSUFFICIENT_HISTORY",
				"details": d.Warnings,
			},
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": d.Risk.MonteCarlo,
		"metadata": map[string]interface{}{
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) (*dashboard.Dashboard, bool) {
	p, err := dashboard.ParseQuery(r.URL.Query(), h.service.Defaults())
	if err == nil {
		var d *dashboard.Dashboard
		if d, err = h.service.Render(r.Context(), p); err == nil {
			return d, true
		}
	}

	status, code := dashboardhandlers.ErrorStatus(err)
	if status >= http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("Risk request failed")
	}
	h.writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": err.Error(),
			"code":    code,
		},
	})
	return nil, false
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
