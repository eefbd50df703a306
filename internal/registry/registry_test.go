package registry

import (
	"testing"

	"github.com/google/uuid"

	"github.com/cruxsyn/shipwar/internal/match"
)

func TestInsertGetRemove(t *testing.T) {
	r := New()
	id := uuid.New()
	_, h := match.New(id, 1, 2, 20)

	if _, ok := r.Get(id); ok {
		t.Fatal("unregistered match should not be found")
	}

	r.Insert(h)
	got, ok := r.Get(id)
	if !ok || got != h {
		t.Fatal("Get should return the inserted handle")
	}
	if r.ActiveMatches() != 1 {
		t.Fatalf("ActiveMatches() = %d, want 1", r.ActiveMatches())
	}

	r.Remove(id)
	if _, ok := r.Get(id); ok {
		t.Fatal("removed match should no longer be found")
	}
	if r.ActiveMatches() != 0 {
		t.Fatalf("ActiveMatches() after remove = %d, want 0", r.ActiveMatches())
	}
}

func TestTotalPlayersSumsAcrossMatches(t *testing.T) {
	r := New()
	_, h1 := match.New(uuid.New(), 1, 2, 20)
	_, h2 := match.New(uuid.New(), 2, 2, 20)
	r.Insert(h1)
	r.Insert(h2)

	if r.TotalPlayers() != 0 {
		t.Fatalf("fresh matches should report zero players, got %d", r.TotalPlayers())
	}
}

func TestFindAvailable(t *testing.T) {
	r := New()
	if _, ok := r.FindAvailable(20); ok {
		t.Fatal("empty registry should have nothing available")
	}

	_, h := match.New(uuid.New(), 1, 2, 20)
	r.Insert(h)

	got, ok := r.FindAvailable(20)
	if !ok || got != h {
		t.Fatal("FindAvailable should return the only registered handle, which has room")
	}
}
