// internal/app/features/shared/middleware.go
package shared

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	authsvc "github.com/coralhq/atrium/internal/app/services/auth"
	"github.com/coralhq/atrium/internal/app/system/fault"
	"github.com/coralhq/atrium/internal/app/system/identity"
)

type ctxKey string

const callerKey ctxKey = "caller"

// BearerAuth validates the Authorization header and stashes the resolved
// identity for handlers projecting it into explicit service parameters.
func BearerAuth(tokens *authsvc.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				Error(w, fault.New(fault.Unauthorized, "missing bearer token"))
				return
			}
			caller, err := tokens.Parse(parts[1])
			if err != nil {
				Error(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), callerKey, caller)))
		})
	}
}

// Caller returns the identity stashed by BearerAuth.
func Caller(r *http.Request) (identity.Identity, bool) {
	caller, ok := r.Context().Value(callerKey).(identity.Identity)
	return caller, ok
}

// RequirePlatformAdmin gates routes that only platform admins may reach.
// The org service relies on this running before any of its methods.
func RequirePlatformAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := Caller(r)
		if !ok {
			Error(w, fault.New(fault.Unauthorized, "missing bearer token"))
			return
		}
		if !caller.IsPlatformAdmin() {
			Error(w, fault.New(fault.Forbidden, "platform admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLogger logs one line per request.
func RequestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path))
		})
	}
}
