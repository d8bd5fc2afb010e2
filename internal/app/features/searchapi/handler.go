// internal/app/features/searchapi/handler.go
package searchapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/coralhq/atrium/internal/app/features/shared"
	"github.com/coralhq/atrium/internal/app/search"
)

// reservedParams are query parameters with fixed meanings; everything else
// is treated as a named filter.
var reservedParams = map[string]bool{
	"q":        true,
	"page":     true,
	"pageSize": true,
	"category": true,
	"type":     true,
}

// Handler serves the search endpoint.
type Handler struct {
	Search *search.Service
	Log    *zap.Logger
}

// NewHandler constructs the handler.
func NewHandler(svc *search.Service, logger *zap.Logger) *Handler {
	return &Handler{Search: svc, Log: logger}
}

// ServeSearch handles GET /api/search. Repeated values of a filter
// parameter are ORed together; distinct parameters are ANDed.
func (h *Handler) ServeSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	var filters map[string][]string
	for key, values := range q {
		if reservedParams[key] || len(values) == 0 {
			continue
		}
		if filters == nil {
			filters = make(map[string][]string)
		}
		filters[key] = values
	}

	resp, err := h.Search.Search(r.Context(), search.Request{
		Query:    q.Get("q"),
		Page:     page,
		PageSize: pageSize,
		Category: q.Get("category"),
		Type:     q.Get("type"),
		Filters:  filters,
	})
	if err != nil {
		shared.Error(w, err)
		return
	}
	shared.JSON(w, http.StatusOK, resp)
}

// Routes returns the search endpoints, mounted under /api/search.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeSearch)
	return r
}
