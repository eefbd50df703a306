package physics

import (
	"math"
	"testing"

	"github.com/cruxsyn/shipwar/internal/wire"
)

func TestStatsForKnownClasses(t *testing.T) {
	cases := []struct {
		class        wire.ShipType
		maxSpeed     float32
		acceleration float32
		maxHealth    float32
	}{
		{wire.ShipScout, 400.0, 300.0, 60.0},
		{wire.ShipFighter, 300.0, 250.0, 100.0},
		{wire.ShipCruiser, 200.0, 150.0, 150.0},
		{wire.ShipDestroyer, 180.0, 120.0, 120.0},
	}
	for _, c := range cases {
		s := StatsFor(c.class)
		if s.MaxSpeed != c.maxSpeed || s.Acceleration != c.acceleration || s.MaxHealth != c.maxHealth {
			t.Errorf("StatsFor(%s) = %+v, want maxSpeed=%v accel=%v health=%v", c.class, s, c.maxSpeed, c.acceleration, c.maxHealth)
		}
	}
}

func TestStatsForUnknownDefaultsToFighter(t *testing.T) {
	got := StatsFor(wire.ShipType("bogus"))
	want := StatsFor(wire.ShipFighter)
	if got != want {
		t.Errorf("StatsFor(bogus) = %+v, want fighter stats %+v", got, want)
	}
}

func TestUpdateShipAcceleratesForward(t *testing.T) {
	stats := StatsFor(wire.ShipFighter)
	x, y, rot, vx, vy := float32(0), float32(0), float32(0), float32(0), float32(0)

	x, y, rot, vx, vy = UpdateShip(x, y, rot, vx, vy, 1.0, 0.0, stats, 1.0/30.0)

	if vx <= 0 {
		t.Fatalf("expected positive forward velocity after full throttle, got vx=%v", vx)
	}
	if x <= 0 {
		t.Fatalf("expected positive x displacement, got x=%v", x)
	}
	if y != 0 || vy != 0 {
		t.Fatalf("expected no lateral motion at rotation 0, got y=%v vy=%v", y, vy)
	}
	if rot != 0 {
		t.Fatalf("expected rotation unchanged with zero steer, got %v", rot)
	}
}

func TestUpdateShipClampsToMaxSpeed(t *testing.T) {
	stats := StatsFor(wire.ShipScout)
	x, y, rot, vx, vy := float32(0), float32(0), float32(0), float32(0), float32(0)

	for i := 0; i < 10_000; i++ {
		x, y, rot, vx, vy = UpdateShip(x, y, rot, vx, vy, 1.0, 0.0, stats, 1.0/30.0)
	}

	speed := float32(math.Sqrt(float64(vx*vx + vy*vy)))
	if speed > stats.MaxSpeed+0.01 {
		t.Fatalf("speed %v exceeds max speed %v after sustained thrust", speed, stats.MaxSpeed)
	}
}

func TestUpdateShipClampsOutOfRangeInputs(t *testing.T) {
	stats := StatsFor(wire.ShipFighter)
	_, _, rot, vx, _ := UpdateShip(0, 0, 0, 0, 0, 5.0, -5.0, stats, 1.0/30.0)
	_, _, rotClamped, vxClamped, _ := UpdateShip(0, 0, 0, 0, 0, 1.0, -1.0, stats, 1.0/30.0)
	if rot != rotClamped || vx != vxClamped {
		t.Fatalf("throttle/steer beyond [-1,1] was not clamped: got rot=%v vx=%v, want rot=%v vx=%v", rot, vx, rotClamped, vxClamped)
	}
}

func TestIsInZone(t *testing.T) {
	if !IsInZone(0, 0, 0, 0, 10) {
		t.Fatal("center point should be inside its own zone")
	}
	if IsInZone(100, 0, 0, 0, 10) {
		t.Fatal("far point should be outside zone")
	}
	if !IsInZone(10, 0, 0, 0, 10) {
		t.Fatal("point exactly on the boundary should count as inside")
	}
}

func TestCheckShipCollision(t *testing.T) {
	if !CheckShipCollision(0, 0, 10, 15, 0, 10) {
		t.Fatal("overlapping hitboxes should collide")
	}
	if CheckShipCollision(0, 0, 10, 100, 0, 10) {
		t.Fatal("distant hitboxes should not collide")
	}
}

func TestResolveShipCollisionSeparatesOverlap(t *testing.T) {
	x1, y1, x2, y2 := ResolveShipCollision(0, 0, 10, 5, 0, 10)
	if x1 >= 0 {
		t.Fatalf("ship 1 should be pushed in the negative x direction, got x1=%v", x1)
	}
	if x2 <= 5 {
		t.Fatalf("ship 2 should be pushed in the positive x direction, got x2=%v", x2)
	}
	dx := x2 - x1
	if dx < 20 {
		t.Fatalf("ships should end up separated by at least their combined radii, got dx=%v", dx)
	}
	_ = y1
	_ = y2
}

func TestResolveShipCollisionNoOverlapIsNoOp(t *testing.T) {
	x1, y1, x2, y2 := ResolveShipCollision(0, 0, 10, 100, 0, 10)
	if x1 != 0 || y1 != 0 || x2 != 100 || y2 != 0 {
		t.Fatalf("non-overlapping ships should be unchanged, got (%v,%v) (%v,%v)", x1, y1, x2, y2)
	}
}
