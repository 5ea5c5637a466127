package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"vocadrill/internal/models"
	"vocadrill/internal/security"
	"vocadrill/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	authService *service.AuthService
	rateLimiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(authService *service.AuthService) *Middleware {
	return &Middleware{
		authService: authService,
		rateLimiter: security.NewRateLimiter(10, time.Minute),
	}
}

// RateLimit throttles a handler per client IP. Used on the credential
// endpoints to slow brute force attempts.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.rateLimiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, "Too many requests, try again later", "", nil)
			return
		}
		next(w, r)
	}
}

// RequireAuth accepts either a session cookie or a bearer token and
// puts the resolved user on the request context
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := m.resolveUser(r)
		if user == nil {
			respondWithError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

func (m *Middleware) resolveUser(r *http.Request) *models.User {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		user, err := m.authService.ValidateAPIToken(strings.TrimPrefix(auth, "Bearer "))
		if err == nil {
			return user
		}
		return nil
	}

	cookie, err := r.Cookie("session_id")
	if err != nil {
		return nil
	}
	user, err := m.authService.ValidateSession(cookie.Value)
	if err != nil {
		return nil
	}
	return user
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
