// internal/app/features/authapi/handler.go
package authapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/coralhq/atrium/internal/app/features/shared"
	authsvc "github.com/coralhq/atrium/internal/app/services/auth"
	"github.com/coralhq/atrium/internal/domain/models"
)

// Handler serves authentication endpoints.
type Handler struct {
	Auth *authsvc.Service
	Log  *zap.Logger
}

// NewHandler constructs the handler.
func NewHandler(auth *authsvc.Service, logger *zap.Logger) *Handler {
	return &Handler{Auth: auth, Log: logger}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// ServeLogin handles POST /api/auth/login.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := shared.Decode(r, &req); err != nil {
		shared.Error(w, err)
		return
	}
	result, err := h.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		shared.Error(w, err)
		return
	}
	shared.JSON(w, http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}
