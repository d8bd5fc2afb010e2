// internal/app/features/usersapi/handler.go
package usersapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/coralhq/atrium/internal/app/features/shared"
	usersvc "github.com/coralhq/atrium/internal/app/services/users"
	"github.com/coralhq/atrium/internal/app/system/fault"
	"github.com/coralhq/atrium/internal/app/system/normalize"
)

// Handler serves the user CRUD and password endpoints.
type Handler struct {
	Users *usersvc.Service
	Log   *zap.Logger
}

// NewHandler constructs the handler.
func NewHandler(users *usersvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// ServeGet handles GET /api/users/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	caller, ok := shared.Caller(r)
	if !ok {
		shared.Error(w, fault.New(fault.Unauthorized, "missing bearer token"))
		return
	}
	u, err := h.Users.Get(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		shared.Error(w, err)
		return
	}
	shared.JSON(w, http.StatusOK, u)
}

// ServeList handles GET /api/users?org=&page=&pageSize=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	caller, ok := shared.Caller(r)
	if !ok {
		shared.Error(w, fault.New(fault.Unauthorized, "missing bearer token"))
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	orgFilter := normalize.QueryParam(r.URL.Query().Get("org"))

	result, err := h.Users.List(r.Context(), caller, orgFilter, page, pageSize)
	if err != nil {
		shared.Error(w, err)
		return
	}
	shared.JSON(w, http.StatusOK, result)
}

type createRequest struct {
	OrgID    string `json:"orgId"`
	UserType string `json:"userType"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// ServeCreate handles POST /api/users.
func (h *Handler) ServeCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := shared.Caller(r)
	if !ok {
		shared.Error(w, fault.New(fault.Unauthorized, "missing bearer token"))
		return
	}
	var req createRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, err)
		return
	}
	u, err := h.Users.Create(r.Context(), caller, usersvc.CreateParams{
		OrgID:    req.OrgID,
		UserType: req.UserType,
		Role:     req.Role,
		Name:     req.Name,
		Email:    req.Email,
	})
	if err != nil {
		shared.Error(w, err)
		return
	}
	shared.JSON(w, http.StatusCreated, u)
}

type updateRequest struct {
	Status   *string `json:"status"`
	UserType *string `json:"userType"`
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Role     *string `json:"role"`
}

// ServeUpdate handles PATCH /api/users/{id}.
func (h *Handler) ServeUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := shared.Caller(r)
	if !ok {
		shared.Error(w, fault.New(fault.Unauthorized, "missing bearer token"))
		return
	}
	var req updateRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, err)
		return
	}
	u, err := h.Users.Update(r.Context(), caller, chi.URLParam(r, "id"), usersvc.UpdateParams{
		Status:   req.Status,
		UserType: req.UserType,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		shared.Error(w, err)
		return
	}
	shared.JSON(w, http.StatusOK, u)
}

// ServeDelete handles DELETE /api/users/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := shared.Caller(r)
	if !ok {
		shared.Error(w, fault.New(fault.Unauthorized, "missing bearer token"))
		return
	}
	if err := h.Users.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		shared.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ServeChangePassword handles POST /api/users/me/password.
func (h *Handler) ServeChangePassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := shared.Caller(r)
	if !ok {
		shared.Error(w, fault.New(fault.Unauthorized, "missing bearer token"))
		return
	}
	var req changePasswordRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, err)
		return
	}
	if err := h.Users.ChangePassword(r.Context(), caller, req.CurrentPassword, req.NewPassword); err != nil {
		shared.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeResetPassword handles POST /api/users/{id}/reset-password. The new
// password follows the documented derived formula and is not returned.
func (h *Handler) ServeResetPassword(w http.ResponseWriter, r *http.Request) {
	caller, ok := shared.Caller(r)
	if !ok {
		shared.Error(w, fault.New(fault.Unauthorized, "missing bearer token"))
		return
	}
	if err := h.Users.ResetPassword(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		shared.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
