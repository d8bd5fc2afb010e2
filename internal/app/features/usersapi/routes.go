// internal/app/features/usersapi/routes.go
package usersapi

import "github.com/go-chi/chi/v5"

// Routes returns the user endpoints, mounted under /api/users.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.ServeCreate)
	r.Post("/me/password", h.ServeChangePassword)
	r.Get("/{id}", h.ServeGet)
	r.Patch("/{id}", h.ServeUpdate)
	r.Delete("/{id}", h.ServeDelete)
	r.Post("/{id}/reset-password", h.ServeResetPassword)
	return r
}
