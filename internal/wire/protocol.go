// Package wire defines the JSON types exchanged between a client and the
// match server over the WebSocket connection.
package wire

import "github.com/google/uuid"

// ShipType selects a player's ship class for a match.
type ShipType string

const (
	ShipScout     ShipType = "scout"
	ShipFighter   ShipType = "fighter"
	ShipCruiser   ShipType = "cruiser"
	ShipDestroyer ShipType = "destroyer"
)

// Valid reports whether t is a known ship class.
func (t ShipType) Valid() bool {
	switch t {
	case ShipScout, ShipFighter, ShipCruiser, ShipDestroyer:
		return true
	default:
		return false
	}
}

// ClientMsg is a message sent from the client to the server. The fields
// of every variant sit side by side in one struct; Type says which of
// them carry meaning.
type ClientMsg struct {
	Type string `json:"type"`

	// join_match
	MatchID  *uuid.UUID `json:"match_id,omitempty"`
	ShipType ShipType   `json:"ship_type,omitempty"`

	// input_tick
	Seq     uint32  `json:"seq,omitempty"`
	Throttle float32 `json:"throttle,omitempty"`
	Steer    float32 `json:"steer,omitempty"`
	Shoot    bool    `json:"shoot,omitempty"`
	AimYaw   float32 `json:"aim_yaw,omitempty"`

	// ping
	T uint64 `json:"t,omitempty"`
}

// Client message type discriminators.
const (
	ClientMsgJoinMatch  = "join_match"
	ClientMsgInputTick  = "input_tick"
	ClientMsgPing       = "ping"
	ClientMsgLeaveMatch = "leave_match"
)

// PlayerInfo describes a player for lobby/join messages.
type PlayerInfo struct {
	UserID      uuid.UUID  `json:"user_id"`
	DisplayName string     `json:"display_name"`
	ShipType    ShipType   `json:"ship_type"`
	FlagSkinID  *uuid.UUID `json:"flag_skin_id,omitempty"`
}

// ZoneState is the shrinking play-area state sent in every snapshot.
type ZoneState struct {
	CenterX        float32 `json:"center_x"`
	CenterY        float32 `json:"center_y"`
	Radius         float32 `json:"radius"`
	TargetCenterX  float32 `json:"target_center_x"`
	TargetCenterY  float32 `json:"target_center_y"`
	TargetRadius   float32 `json:"target_radius"`
	DamagePerSec   float32 `json:"damage_per_second"`
	ShrinkDelay    float32 `json:"shrink_delay"`
	Phase          uint32  `json:"phase"`
}

// PlayerSnapshot is one player's simulated state in a snapshot.
type PlayerSnapshot struct {
	UserID         uuid.UUID `json:"user_id"`
	X              float32   `json:"x"`
	Y              float32   `json:"y"`
	Rotation       float32   `json:"rotation"`
	VelX           float32   `json:"vel_x"`
	VelY           float32   `json:"vel_y"`
	Health         float32   `json:"health"`
	Alive          bool      `json:"alive"`
	LastInputSeq   uint32    `json:"last_input_seq"`
	WeaponCooldown float32   `json:"weapon_cooldown"`
}

// GameEvent is a discriminated event produced during the tick whose
// snapshot carries it; events from ticks without a snapshot are not sent.
type GameEvent struct {
	EventType string `json:"event_type"`

	// shot
	ShooterID    *uuid.UUID `json:"shooter_id,omitempty"`
	ProjectileID *uuid.UUID `json:"projectile_id,omitempty"`
	X            float32    `json:"x,omitempty"`
	Y            float32    `json:"y,omitempty"`
	Direction    float32    `json:"direction,omitempty"`
	Speed        float32    `json:"speed,omitempty"`

	// hit
	TargetID *uuid.UUID `json:"target_id,omitempty"`
	Damage   float32    `json:"damage,omitempty"`

	// kill
	KillerID *uuid.UUID `json:"killer_id,omitempty"`
	VictimID *uuid.UUID `json:"victim_id,omitempty"`
	Cause    string     `json:"cause,omitempty"`

	// zone_damage reuses UserID below; zone_shrink reuses Phase/NewCenter*

	// zone_damage
	UserID *uuid.UUID `json:"user_id,omitempty"`

	// zone_shrink
	Phase        uint32  `json:"phase,omitempty"`
	NewCenterX   float32 `json:"new_center_x,omitempty"`
	NewCenterY   float32 `json:"new_center_y,omitempty"`
	NewRadius    float32 `json:"new_radius,omitempty"`
}

// Event-type discriminators for GameEvent.
const (
	EventShot       = "shot"
	EventHit        = "hit"
	EventKill       = "kill"
	EventZoneDamage = "zone_damage"
	EventZoneShrink = "zone_shrink"
)

// Kill causes.
const (
	CauseShot      = "shot"
	CauseZone      = "zone"
	CauseCollision = "collision"
)

// PlayerMatchStats is one player's final stat line.
type PlayerMatchStats struct {
	UserID        uuid.UUID `json:"user_id"`
	Kills         uint32    `json:"kills"`
	DamageDealt   float32   `json:"damage_dealt"`
	DamageTaken   float32   `json:"damage_taken"`
	ShotsFired    uint32    `json:"shots_fired"`
	ShotsHit      uint32    `json:"shots_hit"`
	Placement     uint32    `json:"placement"`
	AliveTimeSecs uint32    `json:"alive_time_secs"`
}

// MatchStats summarizes a completed match.
type MatchStats struct {
	DurationSecs uint32             `json:"duration_secs"`
	TotalPlayers uint32             `json:"total_players"`
	PlayerStats  []PlayerMatchStats `json:"player_stats"`
}

// ServerMsg is a message sent from the server to the client. The fields
// of every variant sit side by side in one struct; Type says which group
// of them is populated.
type ServerMsg struct {
	Type string `json:"type"`

	// welcome; also reused by player_left to name the departing player
	UserID     *uuid.UUID `json:"user_id,omitempty"`
	ServerTime uint64     `json:"server_time,omitempty"`

	// match_joined
	MatchID *uuid.UUID   `json:"match_id,omitempty"`
	Seed    uint64       `json:"seed,omitempty"`
	Players []PlayerInfo `json:"players,omitempty"`

	// player_joined
	Player *PlayerInfo `json:"player,omitempty"`

	// player_left
	Reason string `json:"reason,omitempty"`

	// snapshot
	Tick        uint64           `json:"tick,omitempty"`
	Zone        *ZoneState       `json:"zone,omitempty"`
	PlayerSnaps []PlayerSnapshot `json:"players,omitempty"`
	Events      []GameEvent      `json:"events,omitempty"`

	// match_countdown
	SecondsRemaining uint32 `json:"seconds_remaining,omitempty"`

	// match_end
	WinnerUserID *uuid.UUID  `json:"winner_user_id,omitempty"`
	Stats        *MatchStats `json:"stats,omitempty"`

	// error
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`

	// pong
	T uint64 `json:"t,omitempty"`
}

// Server message type discriminators.
const (
	ServerMsgWelcome        = "welcome"
	ServerMsgMatchJoined    = "match_joined"
	ServerMsgPlayerJoined   = "player_joined"
	ServerMsgPlayerLeft     = "player_left"
	ServerMsgSnapshot       = "snapshot"
	ServerMsgMatchCountdown = "match_countdown"
	ServerMsgMatchStarted   = "match_started"
	ServerMsgMatchEnd       = "match_end"
	ServerMsgError          = "error"
	ServerMsgPong           = "pong"
)
