// internal/handler/middleware.go
package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	appErrors "github.com/Uday-0910/RetailReachAI/internal/errors"
	"github.com/Uday-0910/RetailReachAI/internal/repository"
)

type ctxKey int

const tenantIDKey ctxKey = iota

// TenantAuth resolves the Authorization bearer token to a tenant and
// stores the tenant id in the request context. Every route behind it
// is scoped to that tenant; there is no other way to pick one.
func TenantAuth(tenants repository.TenantRepositoryInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, appErrors.Unauthorized("missing API token"))
				return
			}

			tenant, err := tenants.GetByToken(token)
			if err != nil {
				writeError(w, appErrors.Internal(err))
				return
			}
			if tenant == nil {
				writeError(w, appErrors.Unauthorized("invalid API token"))
				return
			}

			ctx := context.WithValue(r.Context(), tenantIDKey, tenant.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TenantID returns the tenant id injected by TenantAuth.
func TenantID(ctx context.Context) string {
	id, _ := ctx.Value(tenantIDKey).(string)
	return id
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// RequestLogger emits one zerolog line per request.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rec.status).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
