package leads

import (
	"github.com/go-chi/chi/v5"
)

func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/leads", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Show)
		r.Put("/{id}/assign", h.Assign)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
