// Package physics implements ship movement and collision resolution.
package physics

import (
	"math"

	"github.com/cruxsyn/shipwar/internal/wire"
)

// ShipStats are the per-class tuning constants governing movement and
// hit points.
type ShipStats struct {
	MaxSpeed     float32
	Acceleration float32
	Drag         float32
	TurnRate     float32
	MaxHealth    float32
	HitboxRadius float32
}

var shipStats = map[wire.ShipType]ShipStats{
	wire.ShipScout: {
		MaxSpeed: 400.0, Acceleration: 300.0, Drag: 0.95,
		TurnRate: 4.0, MaxHealth: 60.0, HitboxRadius: 15.0,
	},
	wire.ShipFighter: {
		MaxSpeed: 300.0, Acceleration: 250.0, Drag: 0.93,
		TurnRate: 3.0, MaxHealth: 100.0, HitboxRadius: 20.0,
	},
	wire.ShipCruiser: {
		MaxSpeed: 200.0, Acceleration: 150.0, Drag: 0.90,
		TurnRate: 2.0, MaxHealth: 150.0, HitboxRadius: 30.0,
	},
	wire.ShipDestroyer: {
		MaxSpeed: 180.0, Acceleration: 120.0, Drag: 0.88,
		TurnRate: 1.5, MaxHealth: 120.0, HitboxRadius: 35.0,
	},
}

// StatsFor returns the tuning constants for a ship class, defaulting to
// Fighter for an unrecognized class.
func StatsFor(t wire.ShipType) ShipStats {
	if s, ok := shipStats[t]; ok {
		return s
	}
	return shipStats[wire.ShipFighter]
}

const tau = 2 * math.Pi

// UpdateShip advances a ship one tick given the current kinematic state and
// clamped throttle/steer inputs. dt is the fixed simulation step in seconds.
func UpdateShip(x, y, rotation, velX, velY, throttle, steer float32, stats ShipStats, dt float32) (newX, newY, newRotation, newVelX, newVelY float32) {
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

	newRotation = rotation + steer*stats.TurnRate*dt
	newRotation = remEuclid(newRotation, float32(tau))

	thrustX := float32(math.Cos(float64(newRotation)))
	thrustY := float32(math.Sin(float64(newRotation)))

	var thrustPower float32
	if throttle >= 0 {
		thrustPower = throttle * stats.Acceleration
	} else {
		thrustPower = throttle * stats.Acceleration * 0.5
	}

	newVelX = velX + thrustX*thrustPower*dt
	newVelY = velY + thrustY*thrustPower*dt

	newVelX *= stats.Drag
	newVelY *= stats.Drag

	speed := float32(math.Sqrt(float64(newVelX*newVelX + newVelY*newVelY)))
	if speed > stats.MaxSpeed {
		scale := stats.MaxSpeed / speed
		newVelX *= scale
		newVelY *= scale
	}

	newX = x + newVelX*dt
	newY = y + newVelY*dt
	return
}

// remEuclid mirrors Rust's f32::rem_euclid: a non-negative remainder.
func remEuclid(a, b float32) float32 {
	r := float32(math.Mod(float64(a), float64(b)))
	if r < 0 {
		r += b
	}
	return r
}

// IsInZone reports whether (x, y) lies within the given circular zone.
func IsInZone(x, y, zoneCenterX, zoneCenterY, zoneRadius float32) bool {
	dx := x - zoneCenterX
	dy := y - zoneCenterY
	distSq := dx*dx + dy*dy
	return distSq <= zoneRadius*zoneRadius
}

// CheckShipCollision reports whether two circular hitboxes overlap.
func CheckShipCollision(x1, y1, radius1, x2, y2, radius2 float32) bool {
	dx := x2 - x1
	dy := y2 - y1
	distSq := dx*dx + dy*dy
	combined := radius1 + radius2
	return distSq <= combined*combined
}

// ResolveShipCollision pushes two overlapping ships apart along their
// separating axis, splitting the overlap evenly plus a small buffer.
func ResolveShipCollision(x1, y1, radius1, x2, y2, radius2 float32) (p1x, p1y, p2x, p2y float32) {
	dx := x2 - x1
	dy := y2 - y1
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))

	if dist < 0.001 {
		return x1 - radius1, y1, x2 + radius2, y2
	}

	combined := radius1 + radius2
	overlap := combined - dist
	if overlap <= 0 {
		return x1, y1, x2, y2
	}

	nx := dx / dist
	ny := dy / dist
	push := overlap/2.0 + 0.1

	return x1 - nx*push, y1 - ny*push, x2 + nx*push, y2 + ny*push
}
