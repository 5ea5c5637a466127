package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestGenerateSessionID(t *testing.T) {
	first := GenerateSessionID()
	second := GenerateSessionID()

	if _, err := uuid.Parse(first); err != nil {
		t.Errorf("GenerateSessionID() = %q, not a UUID: %v", first, err)
	}
	if first == second {
		t.Error("GenerateSessionID() returned the same id twice")
	}
}

func TestCreateSessionCookieFlags(t *testing.T) {
	expires := time.Now().Add(24 * time.Hour)

	r := httptest.NewRequest("POST", "http://example.com/api/auth/login", nil)
	cookie := CreateSessionCookie(r, "session_id", "abc", expires)

	if !cookie.HttpOnly {
		t.Error("session cookie not HttpOnly")
	}
	if cookie.Path != "/" {
		t.Errorf("session cookie Path = %q, want /", cookie.Path)
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("session cookie SameSite != Lax")
	}
	if cookie.Secure {
		t.Error("Secure set on a plain HTTP request")
	}

	r.Header.Set("X-Forwarded-Proto", "https")
	if cookie = CreateSessionCookie(r, "session_id", "abc", expires); !cookie.Secure {
		t.Error("Secure not set behind a TLS-terminating proxy")
	}
}

func TestCreateDeleteCookieExpiresSession(t *testing.T) {
	r := httptest.NewRequest("POST", "http://example.com/api/auth/logout", nil)
	cookie := CreateDeleteCookie(r, "session_id")

	if cookie.MaxAge != -1 {
		t.Errorf("delete cookie MaxAge = %d, want -1", cookie.MaxAge)
	}
	if cookie.Value != "" {
		t.Errorf("delete cookie Value = %q, want empty", cookie.Value)
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("delete cookie SameSite != Lax")
	}
}
