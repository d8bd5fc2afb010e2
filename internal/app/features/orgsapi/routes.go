// internal/app/features/orgsapi/routes.go
package orgsapi

import "github.com/go-chi/chi/v5"

// Routes returns the organization endpoints, mounted under /api/orgs.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Get("/{id}", h.ServeGet)
	r.Patch("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	return r
}
