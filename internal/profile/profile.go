// Package profile is the seam for the external profile/inventory store:
// spec.md §1 keeps persistent player-profile storage out of this core's
// scope. Store exposes the one lookup the connection router needs
// (display name + cosmetic id), with an in-memory stub so the rest of the
// system is exercisable without a real backing store.
package profile

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
)

const maxDisplayNameLength = 16

// Profile is the subset of a player's persistent record this core needs.
type Profile struct {
	DisplayName string
	CosmeticID  *uuid.UUID
}

// Store resolves a user id to its display profile. The real
// implementation lives behind authenticated HTTP against a remote
// key-value/row store, entirely outside this core's scope.
type Store interface {
	Resolve(ctx context.Context, userID uuid.UUID) (Profile, error)
}

// nameWords backs the same kind of placeholder-name generator the
// teacher uses (generateRandomName); the word is picked from the user id
// itself instead of a process-wide RNG, so concurrent first-time lookups
// don't race on a shared RNG draw.
var nameWords = []string{"Pirate", "Buccaneer", "Sailor", "Captain", "Admiral", "Navigator", "Corsair", "Raider"}

// InMemoryStore is a stub profile store: it fabricates a display name the
// first time a user id is seen and remembers it for the process lifetime.
// Real persistence (purchases, inventory, cosmetics) is out of scope.
type InMemoryStore struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]Profile
}

// NewInMemoryStore constructs an empty stub store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{profiles: make(map[uuid.UUID]Profile)}
}

// Resolve returns the cached profile for userID, generating and caching a
// placeholder display name on first lookup.
func (s *InMemoryStore) Resolve(_ context.Context, userID uuid.UUID) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}

	word := nameWords[int(userID[0])%len(nameWords)]
	p := Profile{DisplayName: fmt.Sprintf("%s_%s", word, userID.String()[:8])}
	s.profiles[userID] = p
	return p, nil
}

// SanitizeDisplayName cleans and bounds a client-requested display name,
// adapted from the teacher's SanitizePlayerName: letters/digits always
// pass, an apostrophe or hyphen is kept unless it would start the name or
// follow a space, runs of whitespace collapse to one space, everything
// else is dropped. The result is cut at maxDisplayNameLength runes.
func SanitizeDisplayName(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(trimmed))

	count := 0
	lastWasSpace := false

	for _, r := range trimmed {
		if count >= maxDisplayNameLength {
			break
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			count++
			lastWasSpace = false
		case r == '\'' || r == '-':
			if b.Len() == 0 || lastWasSpace {
				continue
			}
			b.WriteRune(r)
			count++
			lastWasSpace = false
		case unicode.IsSpace(r):
			if !lastWasSpace && b.Len() > 0 {
				b.WriteRune(' ')
				count++
				lastWasSpace = true
			}
		default:
			continue
		}
	}

	return strings.TrimSpace(b.String())
}
