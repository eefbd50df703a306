package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPlayerLimiterAllowsBurstThenBlocks(t *testing.T) {
	l := NewPlayerLimiter(1, 3)
	allowed := 0
	for i := 0; i < 5; i++ {
		if l.Allow() {
			allowed++
		}
	}
	if allowed != 3 {
		t.Fatalf("allowed %d of 5 immediate calls, want exactly the burst size (3)", allowed)
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	r.RemoteAddr = "10.0.0.1:1234"

	if got := ClientIP(r); got != "203.0.113.5" {
		t.Fatalf("ClientIP = %q, want %q", got, "203.0.113.5")
	}
}

func TestClientIPFallsBackToRemoteAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "198.51.100.7:5555"

	if got := ClientIP(r); got != "198.51.100.7" {
		t.Fatalf("ClientIP = %q, want %q", got, "198.51.100.7")
	}
}

func TestUpgradeLimiterRejectsOverBudgetIP(t *testing.T) {
	l := NewUpgradeLimiter(1, 2)
	ip := "192.0.2.1"

	allowed := 0
	for i := 0; i < 4; i++ {
		if l.Allow(ip) {
			allowed++
		}
	}
	if allowed != 2 {
		t.Fatalf("allowed %d of 4 immediate calls, want exactly the burst size (2)", allowed)
	}
}

func TestUpgradeLimiterMiddlewareReturns429(t *testing.T) {
	l := NewUpgradeLimiter(1, 1)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := l.Middleware(next)

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.RemoteAddr = "192.0.2.9:1"

	w1 := httptest.NewRecorder()
	handler.ServeHTTP(w1, r)
	if w1.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", w1.Code)
	}

	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, r)
	if w2.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", w2.Code)
	}
}
