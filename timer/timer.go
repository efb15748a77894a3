// Package timer implements the CHIP-8 60Hz countdown timers.
//
// A Timer holds only its expiry instant; the remaining tick count is
// computed from the clock whenever it is read.
package timer

import (
	"time"
)

// TICK is the duration of one timer tick.
const TICK = time.Second / 60

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now(). Its readings carry the monotonic clock,
// so timers are immune to wall clock adjustments.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a clock that only moves when advanced.
type ManualClock struct {
	Instant time.Time
}

func (mc *ManualClock) Now() time.Time {
	return mc.Instant
}

// Advance moves the clock forward.
func (mc *ManualClock) Advance(d time.Duration) {
	mc.Instant = mc.Instant.Add(d)
}

// Timer is a countdown visible as ticks remaining.
type Timer struct {
	Clock  Clock
	expiry time.Time
}

// New creates a timer on the clock. A nil clock uses SystemClock.
func New(clock Clock) (tm *Timer) {
	if clock == nil {
		clock = SystemClock{}
	}
	tm = &Timer{Clock: clock}
	tm.expiry = clock.Now()
	return
}

// Set starts the countdown from ticks.
func (tm *Timer) Set(ticks uint8) {
	tm.expiry = tm.Clock.Now().Add(time.Duration(ticks) * TICK)
}

// Remaining returns the whole ticks left before expiry.
func (tm *Timer) Remaining() uint8 {
	left := tm.expiry.Sub(tm.Clock.Now())
	if left <= 0 {
		return 0
	}

	ticks := left / TICK
	if ticks > 0xff {
		return 0xff
	}

	return uint8(ticks)
}

// Reset expires the timer.
func (tm *Timer) Reset() {
	tm.expiry = tm.Clock.Now()
}
