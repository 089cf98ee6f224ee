// Package core implements an RV32IMA hart with the Zicsr extension.
package core

import (
	"fmt"

	"github.com/sarchlab/rvemu/instr"
)

// Identification values reported through the read-only machine CSRs.
const (
	VendorID uint32 = 0xff0ff0ff
	ArchID   uint32 = 0
	ImpID    uint32 = 0
	HartID   uint32 = 0
)

// CPU is one hart. It owns its registers and CSRs and reaches memory only
// through the bus.
type CPU struct {
	state   State
	decoder *Decoder

	dramBase uint32
	dramSize uint32
}

// Reset puts the hart in its power-on state. Memory is left alone.
func (c *CPU) Reset() {
	bus := c.state.Bus
	c.state = State{Bus: bus}

	c.state.PC = c.dramBase
	c.state.X[2] = c.dramBase + c.dramSize

	c.state.CSR.Mvendorid = VendorID
	c.state.CSR.Marchid = ArchID
	c.state.CSR.Mimpid = ImpID
	c.state.CSR.Mhartid = HartID
	c.state.CSR.Misa = misaFor(c.decoder.Extensions())
	c.state.setPriv(privMachine)
}

// Step runs one step of the hart. elapsedUs is the time in microseconds
// since the previous step and drives the machine timer.
//
// A step does nothing but advance the timer while the hart waits for an
// interrupt. Otherwise it either takes a pending timer interrupt or
// executes one instruction, then takes any trap that was raised.
func (c *CPU) Step(elapsedUs uint32) error {
	s := &c.state

	c.advanceTimer(elapsedUs)
	c.updateTimerPending()

	if s.CSR.Extraflags&wfiFlag != 0 {
		return nil
	}

	s.Trap = 0

	if c.interruptTaken() {
		s.Trap = TrapTimerInterrupt
	} else if err := c.execute(); err != nil {
		return err
	}

	if s.Trap != 0 {
		c.enterTrap()
	}

	c.advanceCycle()

	return nil
}

func (c *CPU) execute() error {
	s := &c.state

	if s.PC&3 != 0 {
		s.RaiseTrap(TrapInstAddrMisaligned)
		return nil
	}

	word, err := s.Bus.Load32(s.PC)
	if err != nil {
		return fmt.Errorf("fetch at 0x%08x: %w", s.PC, err)
	}

	s.X[0] = 0
	s.jumped = false

	err = c.decoder.Dispatch(word, s)
	s.X[0] = 0

	if err != nil {
		return fmt.Errorf("pc 0x%08x: %w", s.PC, err)
	}

	if s.Trap != 0 {
		return nil
	}

	if s.jumped {
		s.PC = s.nextPC
	} else {
		s.PC += instr.WordSize
	}

	return nil
}

func (c *CPU) interruptTaken() bool {
	csr := &c.state.CSR

	return csr.Mip&mipMTIP != 0 &&
		csr.Mie&mieMTIE != 0 &&
		csr.Mstatus&mstatusMIE != 0
}

// enterTrap vectors to mtvec. pc still points at the instruction that
// faulted, or at the one the interrupt preempted.
func (c *CPU) enterTrap() {
	s := &c.state
	csr := &s.CSR

	if s.Trap&interruptBit != 0 {
		csr.Mcause = s.Trap
		csr.Mtval = 0
	} else {
		csr.Mcause = s.Trap - 1
		if s.Trap > 5 && s.Trap <= 8 {
			csr.Mtval = s.FaultAddr
		} else {
			csr.Mtval = s.PC
		}
	}

	Trace("Trap",
		"PC", fmt.Sprintf("0x%08x", s.PC),
		"Cause", fmt.Sprintf("0x%08x", csr.Mcause))

	csr.Mepc = s.PC
	csr.Mstatus = (csr.Mstatus&mstatusMIE)<<4 | s.Priv()<<11
	s.PC = csr.Mtvec &^ 3
	s.setPriv(privMachine)
	s.Trap = 0
}

// advanceTimer adds us to the 64-bit timer, carrying into the high word
// when the low word wraps.
func (c *CPU) advanceTimer(us uint32) {
	csr := &c.state.CSR

	lo := csr.Timel + us
	if lo < csr.Timel {
		csr.Timeh++
	}
	csr.Timel = lo
}

func (c *CPU) updateTimerPending() {
	csr := &c.state.CSR

	cmp := c.TimerCompare()
	if cmp != 0 && c.Time() >= cmp {
		csr.Extraflags &^= wfiFlag
		csr.Mip |= mipMTIP
	} else {
		csr.Mip &^= mipMTIP
	}
}

func (c *CPU) advanceCycle() {
	csr := &c.state.CSR

	lo := csr.Cyclel + 1
	if lo < csr.Cyclel {
		csr.Cycleh++
	}
	csr.Cyclel = lo
}

// PC returns the program counter.
func (c *CPU) PC() uint32 {
	return c.state.PC
}

// Reg returns general purpose register i.
func (c *CPU) Reg(i int) uint32 {
	return c.state.X[i]
}

// Registers returns a copy of the register file.
func (c *CPU) Registers() [32]uint32 {
	return c.state.X
}

// Waiting tells whether the hart is stalled on WFI.
func (c *CPU) Waiting() bool {
	return c.state.CSR.Extraflags&wfiFlag != 0
}

// Cycles returns the number of steps that retired an instruction or took
// a trap.
func (c *CPU) Cycles() uint64 {
	return uint64(c.state.CSR.Cycleh)<<32 | uint64(c.state.CSR.Cyclel)
}

// Time returns the machine timer in microseconds.
func (c *CPU) Time() uint64 {
	return uint64(c.state.CSR.Timeh)<<32 | uint64(c.state.CSR.Timel)
}

// TimerCompare returns the timer comparator. Zero disables the timer
// interrupt.
func (c *CPU) TimerCompare() uint64 {
	return uint64(c.state.CSR.Timecmph)<<32 | uint64(c.state.CSR.Timecmpl)
}

func (c *CPU) SetTimeLow(v uint32) { c.state.CSR.Timel = v }

func (c *CPU) SetTimeHigh(v uint32) { c.state.CSR.Timeh = v }

func (c *CPU) SetTimerCompareLow(v uint32) { c.state.CSR.Timecmpl = v }

func (c *CPU) SetTimerCompareHigh(v uint32) { c.state.CSR.Timecmph = v }
