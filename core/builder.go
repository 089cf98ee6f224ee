package core

import (
	"fmt"
)

// Builder can create new CPUs.
type Builder struct {
	bus        Bus
	extensions []byte
	dramBase   uint32
	dramSize   uint32
}

// MakeBuilder returns a builder for a hart with every extension enabled.
func MakeBuilder() Builder {
	return Builder{
		extensions: DefaultExtensions,
		dramBase:   0x80000000,
		dramSize:   64 << 20,
	}
}

// WithBus sets the bus the hart is attached to.
func (b Builder) WithBus(bus Bus) Builder {
	b.bus = bus
	return b
}

// WithExtensions sets the extension search order, e.g. "imaz".
func (b Builder) WithExtensions(ids []byte) Builder {
	b.extensions = append([]byte(nil), ids...)
	return b
}

// WithDRAM sets where the program starts and where the stack begins.
func (b Builder) WithDRAM(base, size uint32) Builder {
	b.dramBase = base
	b.dramSize = size
	return b
}

// Build creates a CPU in its reset state.
func (b Builder) Build() *CPU {
	if b.bus == nil {
		panic("core: CPU needs a bus")
	}

	c := &CPU{
		decoder:  NewDecoder(b.extensions),
		dramBase: b.dramBase,
		dramSize: b.dramSize,
	}
	c.state.Bus = b.bus
	c.Reset()

	Trace("CPU built",
		"Extensions", string(b.extensions),
		"DRAM", fmt.Sprintf("0x%08x+0x%x", b.dramBase, b.dramSize))

	return c
}

// Decoder returns the decoder the CPU dispatches with.
func (c *CPU) Decoder() *Decoder {
	return c.decoder
}
