// internal/app/features/authapi/routes.go
package authapi

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.ServeLogin)
	return r
}
