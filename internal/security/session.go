package security

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// GenerateSessionID creates a new UUID for the login session cookie.
func GenerateSessionID() string {
	return uuid.New().String()
}

// IsSecureRequest determines if the request arrived over HTTPS, either
// directly or through a TLS-terminating reverse proxy.
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}

	// Behind reverse proxy (nginx, Caddy, load balancer, etc.)
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}

	if r.URL.Scheme == "https" {
		return true
	}

	return false
}

// CreateSessionCookie builds the login session cookie. The Secure flag
// follows the request scheme so local HTTP development still works.
func CreateSessionCookie(r *http.Request, name, value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// CreateDeleteCookie builds an expired cookie that clears the session
// on logout. Flags match CreateSessionCookie so browsers treat it as
// the same cookie.
func CreateDeleteCookie(r *http.Request, name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}
