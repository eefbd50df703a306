// Package combat implements weapon cooldowns, projectile stepping, hit
// testing, and damage application.
package combat

import (
	"math"

	"github.com/google/uuid"

	"github.com/cruxsyn/shipwar/internal/wire"
)

// WeaponStats are the per-class weapon tuning constants.
type WeaponStats struct {
	Damage             float32
	ProjectileSpeed    float32
	Cooldown           float32
	ProjectileLifetime float32
	ProjectileRadius   float32
}

var weaponStats = map[wire.ShipType]WeaponStats{
	wire.ShipScout: {
		Damage: 8, ProjectileSpeed: 600, Cooldown: 0.15,
		ProjectileLifetime: 1.5, ProjectileRadius: 3,
	},
	wire.ShipFighter: {
		Damage: 12, ProjectileSpeed: 500, Cooldown: 0.25,
		ProjectileLifetime: 2.0, ProjectileRadius: 4,
	},
	wire.ShipCruiser: {
		Damage: 15, ProjectileSpeed: 400, Cooldown: 0.40,
		ProjectileLifetime: 2.5, ProjectileRadius: 5,
	},
	wire.ShipDestroyer: {
		Damage: 25, ProjectileSpeed: 350, Cooldown: 0.60,
		ProjectileLifetime: 3.0, ProjectileRadius: 8,
	},
}

// StatsFor returns the weapon tuning constants for a ship class, defaulting
// to Fighter for an unrecognized class.
func StatsFor(t wire.ShipType) WeaponStats {
	if s, ok := weaponStats[t]; ok {
		return s
	}
	return weaponStats[wire.ShipFighter]
}

// Projectile is a single fired shot tracked until it hits or expires.
type Projectile struct {
	ID         uuid.UUID
	ShooterID  uuid.UUID
	X, Y       float32
	Direction  float32
	Speed      float32
	Damage     float32
	Radius     float32
	Remaining  float32 // seconds of life left
}

// NewProjectile spawns a projectile from a firing ship's position and aim.
func NewProjectile(shooterID uuid.UUID, x, y, direction float32, stats WeaponStats) Projectile {
	return Projectile{
		ID:        uuid.New(),
		ShooterID: shooterID,
		X:         x,
		Y:         y,
		Direction: direction,
		Speed:     stats.ProjectileSpeed,
		Damage:    stats.Damage,
		Radius:    stats.ProjectileRadius,
		Remaining: stats.ProjectileLifetime,
	}
}

// Advance steps a projectile forward by dt seconds and decrements its
// remaining lifetime. It reports whether the projectile has expired.
func (p *Projectile) Advance(dt float32) (expired bool) {
	p.X += float32(math.Cos(float64(p.Direction))) * p.Speed * dt
	p.Y += float32(math.Sin(float64(p.Direction))) * p.Speed * dt
	p.Remaining -= dt
	return p.Remaining <= 0
}

// CheckHit reports whether the projectile overlaps a target's hitbox.
func (p *Projectile) CheckHit(targetX, targetY, targetRadius float32) bool {
	dx := targetX - p.X
	dy := targetY - p.Y
	distSq := dx*dx + dy*dy
	combined := p.Radius + targetRadius
	return distSq <= combined*combined
}

// CanFire reports whether a weapon with the given remaining cooldown may
// fire this tick.
func CanFire(cooldownRemaining float32) bool {
	return cooldownRemaining <= 0
}

// ApplyDamage reduces health by amount for a discrete weapon hit,
// enforcing a minimum of 1 damage for any strictly-positive hit and never
// allowing health below zero. It reports the actual damage applied and
// whether the target died.
func ApplyDamage(health float32, amount float32) (newHealth float32, applied float32, died bool) {
	if amount <= 0 {
		return health, 0, false
	}
	if amount < 1 {
		amount = 1
	}
	newHealth = health - amount
	if newHealth <= 0 {
		return 0, health, true
	}
	return newHealth, amount, false
}

// ApplyContinuousDamage reduces health by amount with no per-application
// floor, for sources that tick many times per second (zone damage) where
// a 1-per-tick floor would distort the configured per-second rate. It
// reports the actual damage applied and whether the target died.
func ApplyContinuousDamage(health float32, amount float32) (newHealth float32, applied float32, died bool) {
	if amount <= 0 {
		return health, 0, false
	}
	newHealth = health - amount
	if newHealth <= 0 {
		return 0, health, true
	}
	return newHealth, amount, false
}
