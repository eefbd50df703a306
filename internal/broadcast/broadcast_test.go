package broadcast

import "testing"

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	p := NewPublisher[int](4)
	a := p.Subscribe()
	b := p.Subscribe()

	p.Publish(7)

	if v := <-a.C; v != 7 {
		t.Fatalf("subscriber a got %d, want 7", v)
	}
	if v := <-b.C; v != 7 {
		t.Fatalf("subscriber b got %d, want 7", v)
	}
}

func TestPublishLagsSlowSubscriberInsteadOfBlocking(t *testing.T) {
	p := NewPublisher[int](1)
	s := p.Subscribe()

	p.Publish(1)
	p.Publish(2) // buffer full; should lag, not block

	if n := s.LagCount(); n != 1 {
		t.Fatalf("LagCount() = %d, want 1", n)
	}
}

func TestCloseTerminatesExistingSubscribers(t *testing.T) {
	p := NewPublisher[int](4)
	s := p.Subscribe()

	p.Close()

	if _, ok := <-s.C; ok {
		t.Fatal("subscriber channel should be closed after Publisher.Close()")
	}
}

func TestSubscribeAfterCloseReturnsClosedChannel(t *testing.T) {
	p := NewPublisher[int](4)
	p.Close()

	s := p.Subscribe()
	if _, ok := <-s.C; ok {
		t.Fatal("subscribing to a closed publisher should yield an already-closed channel")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	p := NewPublisher[int](4)
	p.Subscribe()
	p.Close()
	p.Close() // must not panic on double-close
}
