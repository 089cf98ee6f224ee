package config

import (
	"fmt"
	"os"

	"github.com/sarchlab/rvemu/bus"
	"github.com/sarchlab/rvemu/core"
)

// Machine is a hart with DRAM, a UART, a CLINT and a syscon.
type Machine struct {
	Name string

	Bus    *bus.Bus
	RAM    *bus.RAM
	UART   *bus.UART
	CLINT  *bus.CLINT
	Syscon *bus.Syscon
	CPU    *core.CPU
}

// LoadImage copies a flat binary to the start of DRAM one byte at a time.
func (m *Machine) LoadImage(image []byte) error {
	if uint64(len(image)) > uint64(m.RAM.Size()) {
		return fmt.Errorf("image of %d bytes does not fit in %d bytes of RAM",
			len(image), m.RAM.Size())
	}

	for i, b := range image {
		if err := m.Bus.Store8(bus.DRAMBase+uint32(i), b); err != nil {
			return err
		}
	}

	return nil
}

// LoadImageFile loads a flat binary from disk.
func (m *Machine) LoadImageFile(path string) error {
	image, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return m.LoadImage(image)
}

// LoadWords stores instruction words at the start of DRAM.
func (m *Machine) LoadWords(words ...uint32) error {
	for i, w := range words {
		if err := m.Bus.Store32(bus.DRAMBase+uint32(4*i), w); err != nil {
			return err
		}
	}

	return nil
}

// Step runs one step of the hart. A restart requested through the syscon
// resets the hart before the next step.
func (m *Machine) Step(elapsedUs uint32) error {
	if m.Syscon.TakeRestart() {
		core.Trace("Restart", "Machine", m.Name)
		m.CPU.Reset()
	}

	return m.CPU.Step(elapsedUs)
}

// Running tells whether the hart is still executing from DRAM and the
// guest has not powered off.
func (m *Machine) Running() bool {
	return !m.Syscon.PoweredOff() && m.RAM.Contains(m.CPU.PC())
}

// PoweredOff tells whether the guest powered the machine off.
func (m *Machine) PoweredOff() bool {
	return m.Syscon.PoweredOff()
}
