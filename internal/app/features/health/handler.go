// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/coralhq/atrium/internal/app/features/shared"
)

// Handler answers liveness checks. Mongo is nil when the in-memory store
// backend is selected; the check then reports the backend without pinging.
type Handler struct {
	Mongo      *mongo.Client
	SearchName string
	Log        *zap.Logger
}

// NewHandler constructs the handler.
func NewHandler(client *mongo.Client, searchName string, logger *zap.Logger) *Handler {
	return &Handler{Mongo: client, SearchName: searchName, Log: logger}
}

type status struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Search string `json:"search"`
}

// ServeHealth handles GET /healthz.
func (h *Handler) ServeHealth(w http.ResponseWriter, r *http.Request) {
	out := status{Status: "ok", Store: "memory", Search: h.SearchName}

	if h.Mongo != nil {
		out.Store = "mongo"
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.Mongo.Ping(ctx, readpref.Primary()); err != nil {
			h.Log.Warn("health check mongo ping failed", zap.Error(err))
			out.Status = "degraded"
			shared.JSON(w, http.StatusServiceUnavailable, out)
			return
		}
	}

	shared.JSON(w, http.StatusOK, out)
}
