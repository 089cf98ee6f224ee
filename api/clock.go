package api

import (
	"math"
	"time"

	"github.com/sarchlab/akita/v4/sim"
)

// Clock measures the time that passes between two steps.
type Clock interface {
	// ElapsedMicros returns the whole microseconds since the previous
	// call. The first call returns zero.
	ElapsedMicros() uint32
}

// wallClock follows the host time. The part of the interval below one
// microsecond is carried into the next call.
type wallClock struct {
	now  func() time.Time
	last time.Time
}

// NewWallClock returns a clock that follows the host time.
func NewWallClock() Clock {
	return &wallClock{now: time.Now}
}

func (c *wallClock) ElapsedMicros() uint32 {
	now := c.now()
	if c.last.IsZero() {
		c.last = now
		return 0
	}

	us := now.Sub(c.last).Microseconds()
	if us <= 0 {
		return 0
	}

	c.last = c.last.Add(time.Duration(us) * time.Microsecond)

	return clampMicros(uint64(us))
}

type timeTeller interface {
	CurrentTime() sim.VTimeInSec
}

// engineClock follows the virtual time of an akita engine, so that runs
// are reproducible.
type engineClock struct {
	engine  timeTeller
	started bool
	lastUs  uint64
}

// NewEngineClock returns a clock that follows the engine's virtual time.
func NewEngineClock(engine sim.Engine) Clock {
	return &engineClock{engine: engine}
}

func (c *engineClock) ElapsedMicros() uint32 {
	nowUs := uint64(math.Round(float64(c.engine.CurrentTime()) * 1e6))
	if !c.started || nowUs < c.lastUs {
		c.started = true
		c.lastUs = nowUs
		return 0
	}

	elapsed := nowUs - c.lastUs
	c.lastUs = nowUs

	return clampMicros(elapsed)
}

func clampMicros(us uint64) uint32 {
	if us > math.MaxUint32 {
		return math.MaxUint32
	}

	return uint32(us)
}
