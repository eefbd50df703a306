// Package ratelimit implements the per-player input token bucket and the
// per-IP connection-upgrade limiter, both built on golang.org/x/time/rate.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// PlayerLimiter is a per-player token bucket for inbound input messages.
// A session creates exactly one of these for its lifetime.
type PlayerLimiter struct {
	limiter *rate.Limiter
}

// NewPlayerLimiter creates a token bucket allowing ratePerSec messages per
// second with the given burst, matching spec.md's 30/s input rate limit.
func NewPlayerLimiter(ratePerSec float64, burst int) *PlayerLimiter {
	return &PlayerLimiter{limiter: rate.NewLimiter(rate.Limit(ratePerSec), burst)}
}

// Allow reports whether an input message arriving now is within budget.
// Over-limit messages are the caller's responsibility to drop silently —
// this limiter never disconnects anyone.
func (p *PlayerLimiter) Allow() bool {
	return p.limiter.Allow()
}

// ipLimiterEntry tracks one IP's bucket plus when it was last touched, so
// idle entries can be reclaimed.
type ipLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// UpgradeLimiter rate-limits WebSocket upgrade attempts per source IP,
// independent of the per-player input limiter that only exists once a
// session is established.
type UpgradeLimiter struct {
	mu              sync.Mutex
	entries         map[string]*ipLimiterEntry
	ratePerSec      float64
	burst           int
	cleanupInterval time.Duration
}

// NewUpgradeLimiter creates an IP-keyed upgrade limiter and starts its
// background cleanup goroutine.
func NewUpgradeLimiter(ratePerSec float64, burst int) *UpgradeLimiter {
	l := &UpgradeLimiter{
		entries:         make(map[string]*ipLimiterEntry),
		ratePerSec:      ratePerSec,
		burst:           burst,
		cleanupInterval: 5 * time.Minute,
	}
	go l.cleanupLoop()
	return l
}

func (l *UpgradeLimiter) cleanupLoop() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-2 * l.cleanupInterval)
		l.mu.Lock()
		for ip, e := range l.entries {
			if e.lastSeen.Before(cutoff) {
				delete(l.entries, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Allow reports whether an upgrade attempt from ip should proceed.
func (l *UpgradeLimiter) Allow(ip string) bool {
	l.mu.Lock()
	e, ok := l.entries[ip]
	if !ok {
		e = &ipLimiterEntry{limiter: rate.NewLimiter(rate.Limit(l.ratePerSec), l.burst)}
		l.entries[ip] = e
	}
	e.lastSeen = time.Now()
	limiter := e.limiter
	l.mu.Unlock()
	return limiter.Allow()
}

// Middleware rejects upgrade requests over budget with 429 before they
// reach the handshake handler.
func (l *UpgradeLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(ClientIP(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP extracts the caller's address, preferring X-Forwarded-For/
// X-Real-IP for requests behind a trusted proxy and falling back to the
// raw remote address.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx >= 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
