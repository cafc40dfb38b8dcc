package report

import (
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers report routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/query", h.Query)
	r.Get("/corpus/stats", h.CorpusStats)
}
