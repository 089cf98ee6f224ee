// Package api drives a machine step by step on an akita engine.
package api

import (
	"errors"

	"github.com/sarchlab/akita/v4/sim"
)

// ErrNoMachine is returned when a driver is used before a machine is
// registered.
var ErrNoMachine = errors.New("no machine registered")

// Machine is what a driver steps.
type Machine interface {
	// Step advances the machine by one step. elapsedUs is the time since
	// the previous step in microseconds.
	Step(elapsedUs uint32) error

	// Running is the continuation condition of a run.
	Running() bool
}

// Driver provides the interface to control an emulated machine.
type Driver interface {
	// RegisterMachine sets the machine the driver controls.
	RegisterMachine(m Machine)

	// Step advances the machine by exactly one step.
	Step() error

	// Run steps the machine until it stops running, a step fails, or the
	// step budget is used up. It returns the error that ended the run.
	Run() error

	// Steps returns the number of steps taken so far.
	Steps() uint64

	// Err returns the error that stopped the machine, if any.
	Err() error
}

type driverImpl struct {
	*sim.TickingComponent

	machine  Machine
	clock    Clock
	maxSteps uint64

	steps uint64
	err   error
}

func (d *driverImpl) RegisterMachine(m Machine) {
	d.machine = m
}

// Tick runs the machine for one step.
func (d *driverImpl) Tick() (madeProgress bool) {
	if !d.canContinue() {
		return false
	}

	if err := d.step(); err != nil {
		d.err = err
		return false
	}

	return true
}

func (d *driverImpl) canContinue() bool {
	if d.machine == nil || d.err != nil {
		return false
	}

	if d.maxSteps > 0 && d.steps >= d.maxSteps {
		return false
	}

	return d.machine.Running()
}

func (d *driverImpl) step() error {
	elapsed := d.clock.ElapsedMicros()
	d.steps++

	return d.machine.Step(elapsed)
}

func (d *driverImpl) Step() error {
	if d.machine == nil {
		return ErrNoMachine
	}

	if err := d.step(); err != nil {
		d.err = err
		return err
	}

	return nil
}

func (d *driverImpl) Run() error {
	if d.machine == nil {
		return ErrNoMachine
	}

	d.TickNow()
	d.Engine.Run()

	return d.err
}

func (d *driverImpl) Steps() uint64 {
	return d.steps
}

func (d *driverImpl) Err() error {
	return d.err
}
