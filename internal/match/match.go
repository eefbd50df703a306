package match

import (
	"context"
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/cruxsyn/shipwar/internal/broadcast"
	"github.com/cruxsyn/shipwar/internal/clock"
	"github.com/cruxsyn/shipwar/internal/combat"
	"github.com/cruxsyn/shipwar/internal/metrics"
	"github.com/cruxsyn/shipwar/internal/physics"
	"github.com/cruxsyn/shipwar/internal/wire"
)

// PlayerInput is a single inbound client message tagged with its
// originating user and arrival time, the unit routed through a match's
// input channel.
type PlayerInput struct {
	UserID     uuid.UUID
	Msg        wire.ClientMsg
	ReceivedAt uint64
}

// Handle is the externally-visible reference to a running match: enough
// to route input to it and subscribe to its snapshot/event stream without
// touching its internal state directly.
type Handle struct {
	ID          uuid.UUID
	InputCh     chan PlayerInput
	Snapshots   *broadcast.Publisher[wire.ServerMsg]
	playerCount atomic.Int64
}

// PlayerCount returns the current number of players in the match.
func (h *Handle) PlayerCount() int {
	return int(h.playerCount.Load())
}

// Match is the authoritative simulation for one game: it owns all player,
// zone, and projectile state and is mutated only from its own Run
// goroutine.
type Match struct {
	state    *state
	inputCh  chan PlayerInput
	snapshots *broadcast.Publisher[wire.ServerMsg]
	builder  *snapshotBuilder
	handle   *Handle
}

// New constructs a match and its handle. The match does not start
// simulating until Run is called.
func New(id uuid.UUID, seed uint64, minPlayers, maxPlayers int) (*Match, *Handle) {
	inputCh := make(chan PlayerInput, 256)
	pub := broadcast.NewPublisher[wire.ServerMsg](64)

	handle := &Handle{ID: id, InputCh: inputCh, Snapshots: pub}

	m := &Match{
		state:     newState(id, seed, minPlayers, maxPlayers),
		inputCh:   inputCh,
		snapshots: pub,
		builder:   newSnapshotBuilder(uint32(clock.SimulationTicksPerSnapshot)),
		handle:    handle,
	}
	return m, handle
}

// Run drives the authoritative tick loop until the match ends or every
// player has left. It owns all match state for its entire lifetime and
// must be invoked from a single dedicated goroutine.
func (m *Match) Run(ctx context.Context) {
	log.Printf("match %s: started", m.state.id)

	ticker := clock.NewTicker(clock.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("match %s: context cancelled", m.state.id)
			return
		case <-ticker.C():
		}

		m.processInputs()

		tickStart := time.Now()
		events := m.runTick()
		metrics.TickDuration.Observe(time.Since(tickStart).Seconds())

		if m.builder.shouldSend() {
			snapStart := time.Now()
			snap := m.builder.build(m.state, events)
			metrics.SnapshotBuildDuration.Observe(time.Since(snapStart).Seconds())
			m.snapshots.Publish(snap)
		}

		if m.state.phase == PhaseEnded {
			log.Printf("match %s: ended", m.state.id)
			break
		}

		if len(m.state.players) == 0 && m.state.phase != PhaseWaiting {
			log.Printf("match %s: all players left, ending", m.state.id)
			break
		}
	}

	var winner *uuid.UUID
	for _, id := range m.state.sortedPlayerIDs() {
		p := m.state.players[id]
		if p.Alive {
			w := p.UserID
			winner = &w
			break
		}
	}

	stats := m.buildMatchStats()
	m.snapshots.Publish(wire.ServerMsg{
		Type:         wire.ServerMsgMatchEnd,
		WinnerUserID: winner,
		Stats:        &stats,
	})
	m.snapshots.Close()
}

func (m *Match) processInputs() {
	for {
		select {
		case in := <-m.inputCh:
			m.dispatch(in)
		default:
			return
		}
	}
}

func (m *Match) dispatch(in PlayerInput) {
	switch in.Msg.Type {
	case wire.ClientMsgJoinMatch:
		m.handleJoin(in.UserID, in.Msg.ShipType)
	case wire.ClientMsgInputTick:
		m.handleInput(in.UserID, in.Msg.Seq, in.Msg.Throttle, in.Msg.Steer, in.Msg.Shoot, in.Msg.AimYaw)
	case wire.ClientMsgPing:
		m.snapshots.Publish(wire.ServerMsg{Type: wire.ServerMsgPong, T: in.Msg.T})
	case wire.ClientMsgLeaveMatch:
		m.handleLeave(in.UserID)
	}
}

func (m *Match) handleJoin(userID uuid.UUID, shipType wire.ShipType) {
	if _, ok := m.state.players[userID]; ok {
		log.Printf("match %s: player %s already in match", m.state.id, userID)
		return
	}
	if len(m.state.players) >= m.state.maxPlayers {
		m.snapshots.Publish(wire.ServerMsg{
			Type: wire.ServerMsgError, Code: "match_full", Message: "match is full",
		})
		return
	}
	if !shipType.Valid() {
		shipType = wire.ShipFighter
	}

	x, y, rot := m.state.generateSpawnPosition()
	name := "Player_" + userID.String()[:8]
	p := NewPlayerState(userID, name, shipType, nil, x, y, rot)
	m.state.players[userID] = p
	m.handle.playerCount.Store(int64(len(m.state.players)))

	m.snapshots.Publish(wire.ServerMsg{Type: wire.ServerMsgPlayerJoined, Player: infoPtr(p.info())})

	ids := m.state.sortedPlayerIDs()
	players := make([]wire.PlayerInfo, 0, len(ids))
	for _, id := range ids {
		players = append(players, m.state.players[id].info())
	}
	matchID := m.state.id
	m.snapshots.Publish(wire.ServerMsg{
		Type: wire.ServerMsgMatchJoined, MatchID: &matchID, Seed: m.state.seed, Players: players,
	})

	log.Printf("match %s: player %s joined (%d total)", m.state.id, userID, len(m.state.players))

	if m.state.phase == PhaseWaiting && len(m.state.players) >= m.state.minPlayers {
		m.state.phase = PhaseCountdown
		m.state.countdownRemaining = DefaultCountdownSecs
		m.snapshots.Publish(wire.ServerMsg{Type: wire.ServerMsgMatchCountdown, SecondsRemaining: 5})
	}
}

func infoPtr(i wire.PlayerInfo) *wire.PlayerInfo { return &i }

func (m *Match) handleInput(userID uuid.UUID, seq uint32, throttle, steer float32, shoot bool, aimYaw float32) {
	p, ok := m.state.players[userID]
	if !ok || !p.Alive || seq <= p.LastInputSeq {
		return
	}
	if throttle > 1 {
		throttle = 1
	} else if throttle < -1 {
		throttle = -1
	}
	if steer > 1 {
		steer = 1
	} else if steer < -1 {
		steer = -1
	}
	p.LastInputSeq = seq
	p.CurrentInput = TickInput{Seq: seq, Throttle: throttle, Steer: steer, Shoot: shoot, AimYaw: aimYaw}
}

func (m *Match) handleLeave(userID uuid.UUID) {
	if _, ok := m.state.players[userID]; !ok {
		return
	}
	delete(m.state.players, userID)
	m.handle.playerCount.Store(int64(len(m.state.players)))
	m.snapshots.Publish(wire.ServerMsg{Type: wire.ServerMsgPlayerLeft, UserID: &userID, Reason: "disconnected"})
	log.Printf("match %s: player %s left", m.state.id, userID)
	m.checkWinCondition()
}

func (m *Match) runTick() []wire.GameEvent {
	var events []wire.GameEvent
	m.state.tick++

	switch m.state.phase {
	case PhaseWaiting:
		// nothing to do until enough players join
	case PhaseCountdown:
		m.state.countdownRemaining -= clock.TickDelta
		if m.state.countdownRemaining <= 0 {
			m.state.phase = PhaseInProgress
			m.state.startTime = clock.UnixMillis()
			m.state.zoneTimer = m.state.zoneConfig.InitialDelay
			m.snapshots.Publish(wire.ServerMsg{Type: wire.ServerMsgMatchStarted, Tick: m.state.tick})
			log.Printf("match %s: started!", m.state.id)
		}
	case PhaseInProgress:
		m.updatePhysics()
		events = append(events, m.updateCombat()...)
		events = append(events, m.updateZone()...)
		events = append(events, m.applyZoneDamage()...)
		m.checkWinCondition()
	case PhaseEnded:
		// match is over
	}

	return events
}

func (m *Match) updatePhysics() {
	ids := m.state.sortedPlayerIDs()

	type pos struct {
		id     uuid.UUID
		x, y   float32
		radius float32
	}
	positions := make([]pos, 0, len(ids))
	for _, id := range ids {
		p := m.state.players[id]
		if !p.Alive {
			continue
		}
		stats := physics.StatsFor(p.ShipType)
		positions = append(positions, pos{id: p.UserID, x: p.X, y: p.Y, radius: stats.HitboxRadius})
	}

	for _, id := range ids {
		p := m.state.players[id]
		if !p.Alive {
			continue
		}
		stats := physics.StatsFor(p.ShipType)
		in := p.CurrentInput
		p.X, p.Y, p.Rotation, p.VelX, p.VelY = physics.UpdateShip(
			p.X, p.Y, p.Rotation, p.VelX, p.VelY, in.Throttle, in.Steer, stats, clock.TickDelta,
		)
	}

	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			a, b := positions[i], positions[j]
			if !physics.CheckShipCollision(a.x, a.y, a.radius, b.x, b.y, b.radius) {
				continue
			}
			nx1, ny1, nx2, ny2 := physics.ResolveShipCollision(a.x, a.y, a.radius, b.x, b.y, b.radius)
			if p1, ok := m.state.players[a.id]; ok {
				p1.X, p1.Y = nx1, ny1
			}
			if p2, ok := m.state.players[b.id]; ok {
				p2.X, p2.Y = nx2, ny2
			}
		}
	}
}

func (m *Match) updateCombat() []wire.GameEvent {
	var events []wire.GameEvent
	ids := m.state.sortedPlayerIDs()

	for _, id := range ids {
		p := m.state.players[id]
		if !p.Alive {
			continue
		}
		if p.WeaponCooldown > 0 {
			p.WeaponCooldown -= clock.TickDelta
			if p.WeaponCooldown < 0 {
				p.WeaponCooldown = 0
			}
		}

		if p.CurrentInput.Shoot && combat.CanFire(p.WeaponCooldown) {
			weaponStats := combat.StatsFor(p.ShipType)
			shipStats := physics.StatsFor(p.ShipType)

			spawnOffset := shipStats.HitboxRadius + 5.0
			aim := p.CurrentInput.AimYaw
			spawnX := p.X + cos32(aim)*spawnOffset
			spawnY := p.Y + sin32(aim)*spawnOffset

			proj := combat.NewProjectile(p.UserID, spawnX, spawnY, aim, weaponStats)

			shooterID, projID := p.UserID, proj.ID
			events = append(events, wire.GameEvent{
				EventType: wire.EventShot, ShooterID: &shooterID, ProjectileID: &projID,
				X: spawnX, Y: spawnY, Direction: aim, Speed: weaponStats.ProjectileSpeed,
			})

			m.state.projectiles = append(m.state.projectiles, proj)
			p.WeaponCooldown = weaponStats.Cooldown
			p.ShotsFired++
		}
	}

	type hitResult struct {
		shooterID, targetID uuid.UUID
		damage              float32
		x, y                float32
	}
	var hits []hitResult
	live := m.state.projectiles[:0]

	for i := range m.state.projectiles {
		proj := &m.state.projectiles[i]
		if expired := proj.Advance(clock.TickDelta); expired {
			continue
		}

		hit := false
		for _, id := range ids {
			p := m.state.players[id]
			if !p.Alive || p.UserID == proj.ShooterID {
				continue
			}
			shipStats := physics.StatsFor(p.ShipType)
			if proj.CheckHit(p.X, p.Y, shipStats.HitboxRadius) {
				hits = append(hits, hitResult{shooterID: proj.ShooterID, targetID: p.UserID, damage: proj.Damage, x: proj.X, y: proj.Y})
				hit = true
				break
			}
		}
		if !hit {
			live = append(live, *proj)
		}
	}
	m.state.projectiles = live

	for _, h := range hits {
		target, ok := m.state.players[h.targetID]
		if !ok {
			continue
		}
		newHealth, applied, died := combat.ApplyDamage(target.Health, h.damage)
		target.Health = newHealth
		target.DamageTaken += applied

		if shooter, ok := m.state.players[h.shooterID]; ok {
			shooter.ShotsHit++
			shooter.DamageDealt += applied
			if died {
				shooter.Kills++
			}
		}

		shooterID, targetID := h.shooterID, h.targetID
		events = append(events, wire.GameEvent{
			EventType: wire.EventHit, ShooterID: &shooterID, TargetID: &targetID, Damage: applied, X: h.x, Y: h.y,
		})

		if died {
			target.Alive = false
			target.DeathTime = clock.UnixMillis()
			killer, victim := h.shooterID, h.targetID
			events = append(events, wire.GameEvent{
				EventType: wire.EventKill, KillerID: &killer, VictimID: &victim, Cause: wire.CauseShot,
			})
		}
	}

	return events
}

func cos32(rad float32) float32 { return float32(math.Cos(float64(rad))) }
func sin32(rad float32) float32 { return float32(math.Sin(float64(rad))) }
