package match

import "github.com/cruxsyn/shipwar/internal/wire"

// snapshotBuilder decides when a snapshot is due and assembles it from the
// current authoritative state.
type snapshotBuilder struct {
	ticksSinceSnapshot uint32
	snapshotInterval   uint32
	lastSnapshot       *snapshotData
}

type snapshotData struct {
	tick    uint64
	players []wire.PlayerSnapshot
}

func newSnapshotBuilder(interval uint32) *snapshotBuilder {
	return &snapshotBuilder{snapshotInterval: interval}
}

// shouldSend reports whether the current tick should carry a snapshot.
func (b *snapshotBuilder) shouldSend() bool {
	b.ticksSinceSnapshot++
	if b.ticksSinceSnapshot >= b.snapshotInterval {
		b.ticksSinceSnapshot = 0
		return true
	}
	return false
}

// forceNext makes the very next shouldSend() call return true, used when
// an important event (e.g. match end) must not wait for the next interval.
func (b *snapshotBuilder) forceNext() {
	b.ticksSinceSnapshot = b.snapshotInterval
}

// build assembles a full-state snapshot message. Players are emitted in a
// stable order (same ordering the tick loop itself uses) so two snapshots
// built from identical state are byte-identical once marshaled.
func (b *snapshotBuilder) build(s *state, events []wire.GameEvent) wire.ServerMsg {
	ids := s.sortedPlayerIDs()
	snaps := make([]wire.PlayerSnapshot, 0, len(ids))
	for _, id := range ids {
		p := s.players[id]
		snaps = append(snaps, wire.PlayerSnapshot{
			UserID:         p.UserID,
			X:              p.X,
			Y:              p.Y,
			Rotation:       p.Rotation,
			VelX:           p.VelX,
			VelY:           p.VelY,
			Health:         p.Health,
			Alive:          p.Alive,
			LastInputSeq:   p.LastInputSeq,
			WeaponCooldown: p.WeaponCooldown,
		})
	}

	b.lastSnapshot = &snapshotData{tick: s.tick, players: snaps}

	zone := s.zone
	return wire.ServerMsg{
		Type:        wire.ServerMsgSnapshot,
		Tick:        s.tick,
		Zone:        &zone,
		PlayerSnaps: snaps,
		Events:      events,
	}
}

// buildDelta is an unwired hook for a future minimal-diff snapshot that
// only encodes players whose state changed since lastSnapshot. Not called
// anywhere; full snapshots are sent every interval.
func (b *snapshotBuilder) buildDelta(s *state, events []wire.GameEvent) wire.ServerMsg {
	panic("delta snapshots not implemented")
}
