package match

import (
	"github.com/google/uuid"

	"github.com/cruxsyn/shipwar/internal/clock"
	"github.com/cruxsyn/shipwar/internal/combat"
	"github.com/cruxsyn/shipwar/internal/physics"
	"github.com/cruxsyn/shipwar/internal/wire"
)

// updateZone advances the shrink/delay state machine by one tick and
// returns any zone_shrink event it produced. Shrink/delay ordering
// mirrors the authoritative schedule exactly: the delay after the
// current phase is read before current_zone_phase is advanced, and the
// interpolated radius uses the phase *before* the current one as its
// start point.
func (m *Match) updateZone() []wire.GameEvent {
	var events []wire.GameEvent
	s := m.state
	dt := float32(clock.TickDelta)

	s.zoneTimer -= dt

	if s.zoneTimer <= 0 {
		if s.isShrinking {
			s.zone.Radius = s.zone.TargetRadius
			s.zone.CenterX = s.zone.TargetCenterX
			s.zone.CenterY = s.zone.TargetCenterY
			s.isShrinking = false

			if s.currentZonePhase < len(s.zoneConfig.Phases) {
				s.zoneTimer = s.zoneConfig.Phases[s.currentZonePhase].DelayAfter
				s.currentZonePhase++
			}
		} else if s.currentZonePhase < len(s.zoneConfig.Phases) {
			phase := s.zoneConfig.Phases[s.currentZonePhase]

			angle := s.rng.Float32() * float32(tau)
			maxOffset := s.zone.Radius - phase.TargetRadius
			if maxOffset < 0 {
				maxOffset = 0
			}
			maxOffset *= 0.5
			offset := s.rng.Float32() * maxOffset

			s.zone.TargetCenterX = s.zone.CenterX + cos32(angle)*offset
			s.zone.TargetCenterY = s.zone.CenterY + sin32(angle)*offset
			s.zone.TargetRadius = phase.TargetRadius
			s.zone.DamagePerSec = phase.DamagePerSecond
			s.zone.Phase = uint32(s.currentZonePhase)
			s.zoneTimer = phase.ShrinkDuration
			s.isShrinking = true

			events = append(events, wire.GameEvent{
				EventType: wire.EventZoneShrink, Phase: s.zone.Phase,
				NewCenterX: s.zone.TargetCenterX, NewCenterY: s.zone.TargetCenterY, NewRadius: s.zone.TargetRadius,
			})
		}
	}

	if s.isShrinking && s.currentZonePhase < len(s.zoneConfig.Phases) {
		phase := s.zoneConfig.Phases[s.currentZonePhase]
		progress := 1.0 - clamp01(s.zoneTimer/phase.ShrinkDuration)

		var startRadius float32
		if s.currentZonePhase == 0 {
			startRadius = s.zoneConfig.InitialRadius
		} else {
			startRadius = s.zoneConfig.Phases[s.currentZonePhase-1].TargetRadius
		}

		s.zone.Radius = startRadius + (phase.TargetRadius-startRadius)*progress
	}

	s.zone.ShrinkDelay = s.zoneTimer
	return events
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// applyZoneDamage damages every player standing outside the live zone and
// reports zone_damage/kill events for deaths it causes.
func (m *Match) applyZoneDamage() []wire.GameEvent {
	var events []wire.GameEvent
	s := m.state
	zone := s.zone

	var deaths []uuid.UUID
	for _, id := range s.sortedPlayerIDs() {
		p := s.players[id]
		if !p.Alive {
			continue
		}
		if physics.IsInZone(p.X, p.Y, zone.CenterX, zone.CenterY, zone.Radius) {
			continue
		}

		newHealth, applied, died := combat.ApplyContinuousDamage(p.Health, zone.DamagePerSec*clock.TickDelta)
		if applied == 0 {
			continue
		}
		p.Health = newHealth
		p.DamageTaken += applied

		victimID := p.UserID
		events = append(events, wire.GameEvent{EventType: wire.EventZoneDamage, UserID: &victimID, Damage: applied})

		if died {
			p.Alive = false
			p.DeathTime = clock.UnixMillis()
			deaths = append(deaths, p.UserID)
		}
	}

	for _, victim := range deaths {
		events = append(events, wire.GameEvent{EventType: wire.EventKill, VictimID: &victim, Cause: wire.CauseZone})
	}

	return events
}

// checkWinCondition ends the match once one or zero players remain alive.
func (m *Match) checkWinCondition() {
	if m.state.phase != PhaseInProgress {
		return
	}
	if m.state.aliveCount() <= 1 {
		m.state.phase = PhaseEnded
		m.builder.forceNext()
	}
}
