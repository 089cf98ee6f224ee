// Package config assembles a complete machine: a hart, its memory and
// its peripherals on one bus.
package config

import (
	"fmt"
	"io"

	"github.com/sarchlab/rvemu/bus"
	"github.com/sarchlab/rvemu/core"
)

// DefaultRAMSize is the DRAM size of a machine unless configured.
const DefaultRAMSize uint32 = 64 << 20

// MachineBuilder can build machines.
type MachineBuilder struct {
	ramSize    uint32
	extensions []byte
	uartOut    io.Writer
	uartIn     []byte
}

// MakeMachineBuilder returns a builder with the default memory size and
// every extension enabled.
func MakeMachineBuilder() MachineBuilder {
	return MachineBuilder{
		ramSize:    DefaultRAMSize,
		extensions: core.DefaultExtensions,
	}
}

// WithRAMSize sets the DRAM size in bytes.
func (b MachineBuilder) WithRAMSize(size uint32) MachineBuilder {
	b.ramSize = size
	return b
}

// WithExtensions sets the extension search order, such as "imaz".
func (b MachineBuilder) WithExtensions(ids string) MachineBuilder {
	b.extensions = []byte(ids)
	return b
}

// WithUARTOutput sets where the guest console output goes. The default is
// standard output.
func (b MachineBuilder) WithUARTOutput(w io.Writer) MachineBuilder {
	b.uartOut = w
	return b
}

// WithUARTInput queues bytes the guest reads from the UART as if they had
// been typed.
func (b MachineBuilder) WithUARTInput(data []byte) MachineBuilder {
	b.uartIn = data
	return b
}

// Build creates a machine in its reset state.
func (b MachineBuilder) Build(name string) *Machine {
	if b.ramSize == 0 || uint64(bus.DRAMBase)+uint64(b.ramSize) > 1<<32 {
		panic(fmt.Sprintf("%s: RAM size 0x%x does not fit above 0x%08x",
			name, b.ramSize, bus.DRAMBase))
	}

	m := &Machine{
		Name:   name,
		Bus:    bus.NewBus(),
		RAM:    bus.NewRAM(bus.DRAMBase, b.ramSize),
		UART:   bus.NewUART(bus.UARTBase, b.uartOut),
		Syscon: bus.NewSyscon(),
	}

	for _, c := range b.uartIn {
		m.UART.EnqueueByte(c)
	}

	m.Bus.Map(name+".RAM", bus.DRAMBase, b.ramSize, m.RAM)
	m.Bus.Map(name+".UART", bus.UARTBase, bus.UARTSize, m.UART)
	m.Bus.Map(name+".Syscon", bus.SysconBase, bus.SysconSize, m.Syscon)

	m.CPU = core.MakeBuilder().
		WithBus(m.Bus).
		WithExtensions(b.extensions).
		WithDRAM(bus.DRAMBase, b.ramSize).
		Build()

	m.CLINT = bus.NewCLINT(bus.CLINTBase, m.CPU)
	m.Bus.Map(name+".CLINT", bus.CLINTBase, bus.CLINTSize, m.CLINT)

	return m
}
