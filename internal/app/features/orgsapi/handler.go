// internal/app/features/orgsapi/handler.go
package orgsapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/coralhq/atrium/internal/app/features/shared"
	orgsvc "github.com/coralhq/atrium/internal/app/services/orgs"
	"github.com/coralhq/atrium/internal/app/system/fault"
	"github.com/coralhq/atrium/internal/domain/models"
)

// Handler serves the organization CRUD endpoints. The router mounts this
// package behind the platform-admin gate, so handlers here do not repeat
// role checks.
type Handler struct {
	Orgs *orgsvc.Service
	Log  *zap.Logger
}

// NewHandler constructs the handler.
func NewHandler(orgs *orgsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Orgs: orgs, Log: logger}
}

// ServeGet handles GET /api/orgs/{id}.
func (h *Handler) ServeGet(w http.ResponseWriter, r *http.Request) {
	org, err := h.Orgs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		shared.Error(w, err)
		return
	}
	shared.JSON(w, http.StatusOK, org)
}

// ServeList handles GET /api/orgs?page=&pageSize=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	result, err := h.Orgs.List(r.Context(), page, pageSize)
	if err != nil {
		shared.Error(w, err)
		return
	}
	shared.JSON(w, http.StatusOK, result)
}

type createRequest struct {
	Name      string         `json:"name"`
	Status    string         `json:"status"`
	Contact   models.Contact `json:"contact"`
	UserLimit int            `json:"userLimit"`
}

// ServeCreate handles POST /api/orgs.
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
	org, err := h.Orgs.Create(r.Context(), caller, orgsvc.CreateParams{
		Name:      req.Name,
		Status:    req.Status,
		Contact:   req.Contact,
		UserLimit: req.UserLimit,
	})
	if err != nil {
		shared.Error(w, err)
		return
	}
	shared.JSON(w, http.StatusCreated, org)
}

type updateRequest struct {
	Name      *string         `json:"name"`
	Status    *string         `json:"status"`
	Contact   *models.Contact `json:"contact"`
	UserLimit *int            `json:"userLimit"`
}

// ServeUpdate handles PATCH /api/orgs/{id}.
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
	org, err := h.Orgs.Update(r.Context(), caller, chi.URLParam(r, "id"), orgsvc.UpdateParams{
		Name:      req.Name,
		Status:    req.Status,
		Contact:   req.Contact,
		UserLimit: req.UserLimit,
	})
	if err != nil {
		shared.Error(w, err)
		return
	}
	shared.JSON(w, http.StatusOK, org)
}

// ServeDelete handles DELETE /api/orgs/{id}.
func (h *Handler) ServeDelete(w http.ResponseWriter, r *http.Request) {
	caller, ok := shared.Caller(r)
	if !ok {
		shared.Error(w, fault.New(fault.Unauthorized, "missing bearer token"))
		return
	}
	if err := h.Orgs.Delete(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		shared.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
