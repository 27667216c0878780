// internal/interface/rest/middleware.go
package rest

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"parceltrack-service/internal/domain/apperr"
	"parceltrack-service/internal/domain/entity"
	"parceltrack-service/internal/domain/repository"
	"parceltrack-service/internal/infrastructure/auth"
	"parceltrack-service/pkg/logger"
	"parceltrack-service/pkg/metrics"
)

// TokenVerifier validates a bearer token and returns the caller identity.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (auth.Identity, error)
}

type contextKey int

const identityKey contextKey = iota

// IdentityFrom extracts the verified caller identity from the request
// context. Present only after VerifyToken has run.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// Guard carries the auth middleware chain: token verification plus the
// role checks layered on top of it.
type Guard struct {
	verifier TokenVerifier
	users    repository.UserRepository
	logger   logger.Logger
}

// NewGuard creates the auth guard
func NewGuard(verifier TokenVerifier, users repository.UserRepository, logger logger.Logger) *Guard {
	return &Guard{verifier: verifier, users: users, logger: logger}
}

// VerifyToken rejects requests without a bearer token with 401 and
// requests with an invalid one with 403. A verified identity goes into
// the request context for downstream guards and handlers.
func (g *Guard) VerifyToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			respondError(w, g.logger, apperr.New(apperr.Unauthorized, "Unauthorized"))
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			respondError(w, g.logger, apperr.New(apperr.Unauthorized, "Unauthorized"))
			return
		}

		identity, err := g.verifier.Verify(r.Context(), parts[1])
		if err != nil {
			respondError(w, g.logger, err)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// VerifyAdmin allows only callers whose user record carries the admin
// role. Must run after VerifyToken.
func (g *Guard) VerifyAdmin(next http.Handler) http.Handler {
	return g.requireRole(entity.RoleAdmin, next)
}

// VerifyRider allows only callers whose user record carries the rider
// role. Must run after VerifyToken.
func (g *Guard) VerifyRider(next http.Handler) http.Handler {
	return g.requireRole(entity.RoleRider, next)
}

func (g *Guard) requireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok || identity.Email == "" {
			respondError(w, g.logger, apperr.New(apperr.Forbidden, "forbidden access"))
			return
		}

		user, err := g.users.FindByEmail(r.Context(), identity.Email)
		if err != nil || user.Role != role {
			respondError(w, g.logger, apperr.New(apperr.Forbidden, "forbidden access"))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// MetricsMiddleware records request counts and latency per route.
func MetricsMiddleware(m *metrics.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r)

			route := r.URL.Path
			if current := mux.CurrentRoute(r); current != nil {
				if tmpl, err := current.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}

			m.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(recorder.status)).Inc()
			m.RequestDuration.Observe(time.Since(start).Seconds())
		})
	}
}
