package matchqueue

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cruxsyn/shipwar/internal/wire"
)

func newPlayer(id uuid.UUID, queuedAt time.Time) QueuedPlayer {
	return QueuedPlayer{UserID: id, DisplayName: "p", ShipType: wire.ShipFighter, QueuedAt: queuedAt}
}

func TestEnqueueDequeueContains(t *testing.T) {
	q := New(2, 20, 30*time.Second)
	a, b := uuid.New(), uuid.New()

	q.Enqueue(newPlayer(a, time.Now()))
	q.Enqueue(newPlayer(b, time.Now()))

	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
	if !q.Contains(a) || !q.Contains(b) {
		t.Fatal("queue should contain both enqueued players")
	}

	if _, ok := q.Dequeue(a); !ok {
		t.Fatal("Dequeue(a) should succeed")
	}
	if q.Contains(a) {
		t.Fatal("dequeued player should no longer be contained")
	}
	if q.Len() != 1 {
		t.Fatalf("Len() after dequeue = %d, want 1", q.Len())
	}
}

func TestEnqueueRejoinMovesToBack(t *testing.T) {
	q := New(2, 20, 30*time.Second)
	a, b := uuid.New(), uuid.New()

	q.Enqueue(newPlayer(a, time.Now()))
	q.Enqueue(newPlayer(b, time.Now()))
	q.Enqueue(newPlayer(a, time.Now()))

	if q.Len() != 2 {
		t.Fatalf("rejoining should not duplicate the entry, Len() = %d, want 2", q.Len())
	}
	if q.players[0].UserID != b || q.players[1].UserID != a {
		t.Fatal("rejoining player should move behind the player who was queued after them")
	}
}

func TestHasWaitedTooLong(t *testing.T) {
	q := New(2, 20, 10*time.Millisecond)
	a := uuid.New()
	q.Enqueue(newPlayer(a, time.Now().Add(-1*time.Second)))

	connected := map[uuid.UUID]struct{}{a: {}}
	if !q.HasWaitedTooLong(connected) {
		t.Fatal("player queued well past maxWait should report as having waited too long")
	}
}

func TestHasWaitedTooLongIgnoresDisconnected(t *testing.T) {
	q := New(2, 20, 10*time.Millisecond)
	a := uuid.New()
	q.Enqueue(newPlayer(a, time.Now().Add(-1*time.Second)))

	if q.HasWaitedTooLong(map[uuid.UUID]struct{}{}) {
		t.Fatal("a disconnected player's wait time should not count")
	}
}

func TestDrainConnectedRespectsMaxAndLeavesRemainder(t *testing.T) {
	q := New(2, 20, 30*time.Second)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	q.Enqueue(newPlayer(a, time.Now()))
	q.Enqueue(newPlayer(b, time.Now()))
	q.Enqueue(newPlayer(c, time.Now()))

	connected := map[uuid.UUID]struct{}{a: {}, b: {}, c: {}}
	taken := q.DrainConnected(connected, 2)

	if len(taken) != 2 {
		t.Fatalf("DrainConnected should take exactly maxPlayers, got %d", len(taken))
	}
	if q.Len() != 1 {
		t.Fatalf("one player should remain queued, Len() = %d", q.Len())
	}
}

func TestDrainConnectedSkipsDisconnectedButPreservesOrder(t *testing.T) {
	q := New(2, 20, 30*time.Second)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	q.Enqueue(newPlayer(a, time.Now()))
	q.Enqueue(newPlayer(b, time.Now()))
	q.Enqueue(newPlayer(c, time.Now()))

	// b is not connected; it should stay in the queue untouched.
	connected := map[uuid.UUID]struct{}{a: {}, c: {}}
	taken := q.DrainConnected(connected, 20)

	if len(taken) != 2 {
		t.Fatalf("should only drain connected players, got %d", len(taken))
	}
	if taken[0].UserID != a || taken[1].UserID != c {
		t.Fatal("drained players should keep their queue order (a before c)")
	}
	if !q.Contains(b) {
		t.Fatal("disconnected player b should remain queued")
	}
}

func TestConnectedCount(t *testing.T) {
	q := New(2, 20, 30*time.Second)
	a, b := uuid.New(), uuid.New()
	q.Enqueue(newPlayer(a, time.Now()))
	q.Enqueue(newPlayer(b, time.Now()))

	if n := q.ConnectedCount(map[uuid.UUID]struct{}{a: {}}); n != 1 {
		t.Fatalf("ConnectedCount = %d, want 1", n)
	}
}

func TestTryFormMatchWaitsForMinPlayers(t *testing.T) {
	q := New(2, 20, 30*time.Second)
	a := uuid.New()
	q.Enqueue(newPlayer(a, time.Now()))

	connected := map[uuid.UUID]struct{}{a: {}}
	if batch := q.TryFormMatch(connected); batch != nil {
		t.Fatalf("TryFormMatch with 1 of 2 min players should return nil, got %d", len(batch))
	}
	if q.Len() != 1 {
		t.Fatalf("queue should be untouched while waiting, Len() = %d", q.Len())
	}
}

func TestTryFormMatchFormsOnceMinPlayersReached(t *testing.T) {
	q := New(2, 20, 30*time.Second)
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	q.Enqueue(newPlayer(a, time.Now()))
	q.Enqueue(newPlayer(b, time.Now()))
	q.Enqueue(newPlayer(c, time.Now()))

	connected := map[uuid.UUID]struct{}{a: {}, b: {}, c: {}}
	batch := q.TryFormMatch(connected)
	if len(batch) != 3 {
		t.Fatalf("TryFormMatch should take every connected queued player under maxPlayers, got %d", len(batch))
	}
	if q.Len() != 0 {
		t.Fatalf("batch should be removed from the queue, Len() = %d", q.Len())
	}
}

func TestTryFormMatchFormsBelowMinWhenOldestWaitedTooLong(t *testing.T) {
	q := New(2, 20, 10*time.Millisecond)
	a := uuid.New()
	q.Enqueue(newPlayer(a, time.Now().Add(-1*time.Second)))

	connected := map[uuid.UUID]struct{}{a: {}}
	batch := q.TryFormMatch(connected)
	if len(batch) != 1 {
		t.Fatalf("a lone player who waited past maxWait should still form a match, got %d", len(batch))
	}
}
