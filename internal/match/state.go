// Package match implements the authoritative per-match simulation: player
// state, the shrinking zone, and the fixed-rate tick loop that drives
// physics, combat, and snapshot broadcast.
package match

import (
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/cruxsyn/shipwar/internal/clock"
	"github.com/cruxsyn/shipwar/internal/combat"
	"github.com/cruxsyn/shipwar/internal/physics"
	"github.com/cruxsyn/shipwar/internal/wire"
)

// Phase is the lifecycle state of a match.
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseCountdown
	PhaseInProgress
	PhaseEnded
)

// TickInput is the most recently accepted per-tick control input for a
// player; stale or out-of-order sequence numbers are rejected by the
// caller before being stored here.
type TickInput struct {
	Seq      uint32
	Throttle float32
	Steer    float32
	Shoot    bool
	AimYaw   float32
}

// PlayerState is one player's authoritative, server-owned state within a
// match.
type PlayerState struct {
	UserID      uuid.UUID
	DisplayName string
	ShipType    wire.ShipType
	FlagSkinID  *uuid.UUID

	X, Y     float32
	Rotation float32
	VelX     float32
	VelY     float32

	Health         float32
	Alive          bool
	WeaponCooldown float32

	LastInputSeq uint32
	CurrentInput TickInput

	Kills       uint32
	DamageDealt float32
	DamageTaken float32
	ShotsFired  uint32
	ShotsHit    uint32
	SpawnTime   uint64
	DeathTime   uint64 // 0 means not dead
}

// NewPlayerState constructs a freshly spawned player.
func NewPlayerState(userID uuid.UUID, displayName string, shipType wire.ShipType, flagSkinID *uuid.UUID, spawnX, spawnY, spawnRotation float32) *PlayerState {
	stats := physics.StatsFor(shipType)
	return &PlayerState{
		UserID:      userID,
		DisplayName: displayName,
		ShipType:    shipType,
		FlagSkinID:  flagSkinID,
		X:           spawnX,
		Y:           spawnY,
		Rotation:    spawnRotation,
		Health:      stats.MaxHealth,
		Alive:       true,
		SpawnTime:   clock.UnixMillis(),
	}
}

func (p *PlayerState) info() wire.PlayerInfo {
	return wire.PlayerInfo{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		ShipType:    p.ShipType,
		FlagSkinID:  p.FlagSkinID,
	}
}

// ZonePhase describes one stage of the shrinking play-area schedule.
type ZonePhase struct {
	TargetRadius    float32
	ShrinkDuration  float32
	DamagePerSecond float32
	DelayAfter      float32
}

// ZoneConfig is the full shrink schedule for a match.
type ZoneConfig struct {
	InitialRadius float32
	InitialDelay  float32
	Phases        []ZonePhase
}

// DefaultZoneConfig matches the external wire default documented for the
// zone state machine: a 1500-unit starting radius, a 60s opening delay,
// and four successive shrink phases.
func DefaultZoneConfig() ZoneConfig {
	return ZoneConfig{
		InitialRadius: 1500.0,
		InitialDelay:  60.0,
		Phases: []ZonePhase{
			{TargetRadius: 1000.0, ShrinkDuration: 30.0, DamagePerSecond: 5.0, DelayAfter: 45.0},
			{TargetRadius: 600.0, ShrinkDuration: 25.0, DamagePerSecond: 10.0, DelayAfter: 30.0},
			{TargetRadius: 300.0, ShrinkDuration: 20.0, DamagePerSecond: 15.0, DelayAfter: 20.0},
			{TargetRadius: 50.0, ShrinkDuration: 15.0, DamagePerSecond: 25.0, DelayAfter: 0.0},
		},
	}
}

// Match defaults. The player limits are overridable via config; the
// countdown length is fixed.
const (
	DefaultMinPlayers    = 2
	DefaultMaxPlayers    = 20
	DefaultCountdownSecs = 5.0
)

const tau = 2 * math.Pi

// state is the full authoritative simulation state for one match.
type state struct {
	id    uuid.UUID
	seed  uint64
	phase Phase
	tick  uint64

	players map[uuid.UUID]*PlayerState

	zone            wire.ZoneState
	zoneConfig      ZoneConfig
	zoneTimer       float32
	currentZonePhase int
	isShrinking     bool

	projectiles []combat.Projectile

	rng *rand.Rand

	startTime         uint64
	countdownRemaining float32

	minPlayers int
	maxPlayers int
}

func newState(id uuid.UUID, seed uint64, minPlayers, maxPlayers int) *state {
	cfg := DefaultZoneConfig()
	return &state{
		id:    id,
		seed:  seed,
		phase: PhaseWaiting,
		players: make(map[uuid.UUID]*PlayerState),
		zone: wire.ZoneState{
			Radius:       cfg.InitialRadius,
			TargetRadius: cfg.InitialRadius,
			DamagePerSec: cfg.Phases[0].DamagePerSecond,
			ShrinkDelay:  cfg.InitialDelay,
		},
		zoneConfig:         cfg,
		rng:                rand.New(rand.NewSource(int64(seed))),
		countdownRemaining: DefaultCountdownSecs,
		minPlayers:         minPlayers,
		maxPlayers:         maxPlayers,
	}
}

// generateSpawnPosition draws a random point within the live zone from the
// match's seeded RNG stream, keeping spawns reproducible for a given seed.
func (s *state) generateSpawnPosition() (x, y, rotation float32) {
	angle := s.rng.Float32() * float32(tau)
	distance := 200.0 + s.rng.Float32()*(s.zone.Radius*0.8-200.0)
	x = s.zone.CenterX + float32(math.Cos(float64(angle)))*distance
	y = s.zone.CenterY + float32(math.Sin(float64(angle)))*distance
	rotation = s.rng.Float32() * float32(tau)
	return
}

func (s *state) aliveCount() int {
	n := 0
	for _, p := range s.players {
		if p.Alive {
			n++
		}
	}
	return n
}

// sortedPlayerIDs returns player ids in a stable, deterministic order so
// combat/physics passes that iterate all players never depend on Go's
// randomized map iteration order.
func (s *state) sortedPlayerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s.players))
	for id := range s.players {
		ids = append(ids, id)
	}
	sortUUIDs(ids)
	return ids
}

func sortUUIDs(ids []uuid.UUID) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1].String() > ids[j].String(); j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
