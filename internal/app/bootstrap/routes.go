// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/coralhq/atrium/internal/app/features/authapi"
	"github.com/coralhq/atrium/internal/app/features/health"
	"github.com/coralhq/atrium/internal/app/features/orgsapi"
	"github.com/coralhq/atrium/internal/app/features/searchapi"
	"github.com/coralhq/atrium/internal/app/features/shared"
	"github.com/coralhq/atrium/internal/app/features/usersapi"
	"github.com/coralhq/atrium/internal/app/search"
	authsvc "github.com/coralhq/atrium/internal/app/services/auth"
	orgsvc "github.com/coralhq/atrium/internal/app/services/orgs"
	usersvc "github.com/coralhq/atrium/internal/app/services/users"
)

// Services bundles everything BuildHandler mounts.
type Services struct {
	Auth   *authsvc.Service
	Tokens *authsvc.TokenIssuer
	Users  *usersvc.Service
	Orgs   *orgsvc.Service
	Search *search.Service
	Health *health.Handler
}

// BuildHandler constructs the root HTTP handler.
//
// Login is the only open API endpoint. Everything else under /api sits
// behind bearer auth, and org management additionally behind the
// platform-admin gate.
func BuildHandler(svcs Services, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(shared.RequestLogger(logger))

	r.Get("/healthz", svcs.Health.ServeHealth)
	r.Handle("/metrics", promhttp.Handler())

	authHandler := authapi.NewHandler(svcs.Auth, logger)
	r.Mount("/api/auth", authapi.Routes(authHandler))

	r.Group(func(r chi.Router) {
		r.Use(shared.BearerAuth(svcs.Tokens))

		usersHandler := usersapi.NewHandler(svcs.Users, logger)
		r.Mount("/api/users", usersapi.Routes(usersHandler))

		searchHandler := searchapi.NewHandler(svcs.Search, logger)
		r.Mount("/api/search", searchapi.Routes(searchHandler))

		r.Group(func(r chi.Router) {
			r.Use(shared.RequirePlatformAdmin)
			orgsHandler := orgsapi.NewHandler(svcs.Orgs, logger)
			r.Mount("/api/orgs", orgsapi.Routes(orgsHandler))
		})
	})

	return r
}
