// Package matchqueue implements the matchmaking waiting line: players
// queue up, and the matchmaking service periodically drains enough of
// them (restricted to those still connected) to form a match.
package matchqueue

import (
	"time"

	"github.com/google/uuid"

	"github.com/cruxsyn/shipwar/internal/wire"
)

// QueuedPlayer is a player waiting for a match.
type QueuedPlayer struct {
	UserID      uuid.UUID
	DisplayName string
	ShipType    wire.ShipType
	FlagSkinID  *uuid.UUID
	QueuedAt    time.Time
}

// WaitTime reports how long this player has been queued.
func (p QueuedPlayer) WaitTime() time.Duration {
	return time.Since(p.QueuedAt)
}

// Queue is the FIFO matchmaking waiting line. It is not safe for
// concurrent use by multiple goroutines; callers serialize access
// (the matchmaking service owns a single instance behind its own
// mutex).
type Queue struct {
	players     []QueuedPlayer
	minPlayers  int
	maxPlayers  int
	maxWaitTime time.Duration
}

// New creates a queue with the given match-formation thresholds.
func New(minPlayers, maxPlayers int, maxWait time.Duration) *Queue {
	return &Queue{minPlayers: minPlayers, maxPlayers: maxPlayers, maxWaitTime: maxWait}
}

// MinPlayers returns the configured minimum match size.
func (q *Queue) MinPlayers() int { return q.minPlayers }

// MaxPlayers returns the configured maximum match size.
func (q *Queue) MaxPlayers() int { return q.maxPlayers }

// Enqueue adds a player to the back of the queue. If the player is
// already queued, their old entry is removed first so a rejoin moves
// them to the back rather than duplicating them.
func (q *Queue) Enqueue(p QueuedPlayer) {
	q.removeByID(p.UserID)
	q.players = append(q.players, p)
}

// Dequeue removes and returns the player with the given id, if queued.
func (q *Queue) Dequeue(userID uuid.UUID) (QueuedPlayer, bool) {
	for i, p := range q.players {
		if p.UserID == userID {
			q.players = append(q.players[:i:i], q.players[i+1:]...)
			return p, true
		}
	}
	return QueuedPlayer{}, false
}

func (q *Queue) removeByID(userID uuid.UUID) {
	for i, p := range q.players {
		if p.UserID == userID {
			q.players = append(q.players[:i:i], q.players[i+1:]...)
			return
		}
	}
}

// Contains reports whether userID is currently queued.
func (q *Queue) Contains(userID uuid.UUID) bool {
	for _, p := range q.players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// Len returns the number of queued players.
func (q *Queue) Len() int { return len(q.players) }

// IsEmpty reports whether the queue has no players.
func (q *Queue) IsEmpty() bool { return len(q.players) == 0 }

// HasWaitedTooLong reports whether the oldest queued player who is
// currently connected has exceeded the configured max wait time.
func (q *Queue) HasWaitedTooLong(connected map[uuid.UUID]struct{}) bool {
	for _, p := range q.players {
		if _, ok := connected[p.UserID]; !ok {
			continue
		}
		return p.WaitTime() >= q.maxWaitTime
	}
	return false
}

// DrainConnected removes and returns up to maxPlayers queued players that
// are present in connected, preserving queue order for those left behind.
func (q *Queue) DrainConnected(connected map[uuid.UUID]struct{}, maxPlayers int) []QueuedPlayer {
	var taken []QueuedPlayer
	remaining := q.players[:0]
	for _, p := range q.players {
		if len(taken) < maxPlayers {
			if _, ok := connected[p.UserID]; ok {
				taken = append(taken, p)
				continue
			}
		}
		remaining = append(remaining, p)
	}
	q.players = remaining
	return taken
}

// TryFormMatch returns a batch of connected queued players ready to form a
// match, or nil if none is ready yet: a batch is returned once at least
// minPlayers connected players are queued, or once at least one connected
// player has waited past maxWaitTime (in which case whatever connected
// players remain are taken, even if fewer than minPlayers). The returned
// batch is removed from the queue; players left behind keep their order.
func (q *Queue) TryFormMatch(connected map[uuid.UUID]struct{}) []QueuedPlayer {
	n := q.ConnectedCount(connected)
	if n >= q.minPlayers || (n >= 1 && q.HasWaitedTooLong(connected)) {
		return q.DrainConnected(connected, q.maxPlayers)
	}
	return nil
}

// ConnectedCount reports how many queued players are present in connected.
func (q *Queue) ConnectedCount(connected map[uuid.UUID]struct{}) int {
	n := 0
	for _, p := range q.players {
		if _, ok := connected[p.UserID]; ok {
			n++
		}
	}
	return n
}
