package quotations

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes registers the quotation endpoints under /quotation.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/quotation", func(r chi.Router) {
		r.Post("/generate", h.Generate)
		r.Post("/send", h.Send)
		r.Get("/{leadId}", h.Regenerate)
	})
}
