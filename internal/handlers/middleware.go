package handlers

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"homehq/internal/models"
	"homehq/internal/security"
	"homehq/internal/service"
)

type contextKey string

const authContextKey contextKey = "authContext"

// Middleware bundles the cross-cutting request wrappers
type Middleware struct {
	authService *service.AuthService
	rateLimiter *security.RateLimiter
}

func NewMiddleware(authService *service.AuthService, rateLimiter *security.RateLimiter) *Middleware {
	return &Middleware{
		authService: authService,
		rateLimiter: rateLimiter,
	}
}

// RequireAuth resolves the bearer token to an AuthContext and stores it on
// the request context. Requests without a valid session never reach the
// wrapped handler.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := security.BearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, CodeUnauthorized, "Authentication required", nil)
			return
		}

		authCtx, err := m.authService.ResolveContext(token)
		if err != nil {
			respondServiceError(w, err)
			return
		}

		ctx := context.WithValue(r.Context(), authContextKey, authCtx)
		next(w, r.WithContext(ctx))
	}
}

// GetAuthContext returns the authenticated caller stored by RequireAuth
func GetAuthContext(ctx context.Context) (*models.AuthContext, bool) {
	authCtx, ok := ctx.Value(authContextKey).(*models.AuthContext)
	return authCtx, ok
}

// RateLimit throttles by client IP. Applied to the credential endpoints.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if !m.rateLimiter.Allow(ip) {
			respondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, slow down", nil)
			return
		}
		next(w, r)
	}
}

// Logging records method, path, status and duration for each request
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, recorder.status, time.Since(start))
	})
}

// Recover converts panics into a 500 response instead of killing the server
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("Panic serving %s %s: %v", r.Method, r.URL.Path, rec)
				respondError(w, http.StatusInternalServerError, CodeInternalError, "Something went wrong, please try again", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}
