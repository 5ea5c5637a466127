package security

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllowWithinRate(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("Allow() = false on request %d of 3", i+1)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("Allow() = true past the limit")
	}
}

func TestRateLimiterTracksIPsIndependently(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("Allow() = false for first ip")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("Allow() = true for exhausted ip")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("Allow() = false for an ip that made no requests")
	}
}

func TestRateLimiterRefillsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(1, 10*time.Millisecond)

	if !rl.Allow("10.0.0.1") {
		t.Fatal("Allow() = false on first request")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatal("Allow() = true before the window elapsed")
	}

	time.Sleep(25 * time.Millisecond)
	if !rl.Allow("10.0.0.1") {
		t.Error("Allow() = false after the window elapsed")
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		forwarded  string
		realIP     string
		remoteAddr string
		expected   string
	}{
		{
			name:       "forwarded hop list uses first entry",
			forwarded:  "203.0.113.7, 198.51.100.1, 192.0.2.9",
			remoteAddr: "192.0.2.9:4431",
			expected:   "203.0.113.7",
		},
		{
			name:       "single forwarded entry",
			forwarded:  "203.0.113.7",
			remoteAddr: "192.0.2.9:4431",
			expected:   "203.0.113.7",
		},
		{
			name:       "real ip header",
			realIP:     "203.0.113.7",
			remoteAddr: "192.0.2.9:4431",
			expected:   "203.0.113.7",
		},
		{
			name:       "remote addr with port stripped",
			remoteAddr: "192.0.2.9:4431",
			expected:   "192.0.2.9",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.0.2.9",
			expected:   "192.0.2.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/auth/login", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}

			if got := GetClientIP(r); got != tt.expected {
				t.Errorf("GetClientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}
