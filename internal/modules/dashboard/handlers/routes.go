package handlers

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all dashboard routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", h.HandleGetDashboard)
	r.Get("/series", h.HandleGetSeries)
	r.Get("/performance", h.HandleGetPerformance)
}
