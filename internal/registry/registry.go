// Package registry tracks all currently-running matches so the
// matchmaking service and connection router can look one up by id or find
// one with an open slot.
package registry

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cruxsyn/shipwar/internal/match"
)

// Registry is a concurrency-safe map of match id to its running handle.
type Registry struct {
	mu      sync.RWMutex
	matches map[uuid.UUID]*match.Handle
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{matches: make(map[uuid.UUID]*match.Handle)}
}

// Get returns the handle for id, if the match is still running.
func (r *Registry) Get(id uuid.UUID) (*match.Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.matches[id]
	return h, ok
}

// Insert registers a running match's handle.
func (r *Registry) Insert(h *match.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.matches[h.ID] = h
}

// Remove deregisters a match, typically once its Run loop has returned.
func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.matches, id)
}

// ActiveMatches returns the number of currently tracked matches.
func (r *Registry) ActiveMatches() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.matches)
}

// TotalPlayers sums PlayerCount() across every tracked match.
func (r *Registry) TotalPlayers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, h := range r.matches {
		total += h.PlayerCount()
	}
	return total
}

// FindAvailable returns the first match with fewer than maxPlayers
// players, if any.
func (r *Registry) FindAvailable(maxPlayers int) (*match.Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.matches {
		if h.PlayerCount() < maxPlayers {
			return h, true
		}
	}
	return nil, false
}
