// Package clock holds the fixed-rate tick primitives shared by every match.
package clock

import (
	"time"
)

// Simulation and snapshot cadences. The snapshot builder sends every
// SimulationTicksPerSnapshot ticks, computed from these two rates.
const (
	SimulationTPS = 30
	SnapshotTPS   = 20
)

// SimulationTicksPerSnapshot is how many simulation ticks elapse between
// snapshot broadcasts.
var SimulationTicksPerSnapshot = ceilDiv(SimulationTPS, SnapshotTPS)

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// TickInterval is the fixed simulation step duration.
const TickInterval = time.Second / SimulationTPS

// TickDelta is the fixed simulation step duration, in seconds, used by the
// physics/combat integrators. Left as an untyped constant so it converts
// implicitly to both the float32 math used by physics/combat and any
// float64 context that needs it.
const TickDelta = 1.0 / SimulationTPS

var serverStart = time.Now()

// UptimeSeconds returns seconds elapsed since process start.
func UptimeSeconds() float64 {
	return time.Since(serverStart).Seconds()
}

// UnixMillis returns the current wall-clock time in milliseconds.
func UnixMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}

// UnixMicros returns the current wall-clock time in microseconds.
func UnixMicros() uint64 {
	return uint64(time.Now().UnixMicro())
}

// Ticker wraps time.Ticker with skip-on-miss semantics: if the consumer
// falls behind, ticks are coalesced rather than queued, matching a fixed
// simulation step that must never fall further behind wall-clock time by
// replaying missed ticks.
type Ticker struct {
	t *time.Ticker
}

// NewTicker starts a ticker at the given interval.
func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{t: time.NewTicker(interval)}
}

// C returns the underlying tick channel. time.Ticker already drops ticks
// that the receiver doesn't keep up with (it never buffers more than one),
// so a simple receive loop gives skip-on-miss behavior for free.
func (t *Ticker) C() <-chan time.Time {
	return t.t.C
}

// Stop releases the underlying timer resources.
func (t *Ticker) Stop() {
	t.t.Stop()
}
