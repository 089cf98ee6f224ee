package api

import "github.com/sarchlab/akita/v4/sim"

// DriverBuilder creates a new instance of Driver.
type DriverBuilder struct {
	engine      sim.Engine
	freq        sim.Freq
	virtualTime bool
	maxSteps    uint64
	clock       Clock
}

// WithEngine sets the engine.
func (b DriverBuilder) WithEngine(engine sim.Engine) DriverBuilder {
	b.engine = engine
	return b
}

// WithFreq sets the frequency of the driver.
func (b DriverBuilder) WithFreq(freq sim.Freq) DriverBuilder {
	b.freq = freq
	return b
}

// WithVirtualTime feeds the machine timer from the engine's virtual time
// instead of the host clock.
func (b DriverBuilder) WithVirtualTime(virtual bool) DriverBuilder {
	b.virtualTime = virtual
	return b
}

// WithMaxSteps bounds the number of steps of a run. Zero means no bound.
func (b DriverBuilder) WithMaxSteps(n uint64) DriverBuilder {
	b.maxSteps = n
	return b
}

// WithClock sets the clock directly.
func (b DriverBuilder) WithClock(clock Clock) DriverBuilder {
	b.clock = clock
	return b
}

// Build create a driver.
func (b DriverBuilder) Build(name string) Driver {
	if b.engine == nil {
		b.engine = sim.NewSerialEngine()
	}

	if b.freq == 0 {
		b.freq = 1 * sim.MHz
	}

	d := &driverImpl{
		clock:    b.clock,
		maxSteps: b.maxSteps,
	}

	if d.clock == nil {
		if b.virtualTime {
			d.clock = NewEngineClock(b.engine)
		} else {
			d.clock = NewWallClock()
		}
	}

	d.TickingComponent = sim.NewTickingComponent(name, b.engine, b.freq, d)

	return d
}
