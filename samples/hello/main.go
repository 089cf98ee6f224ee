package main

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/rvemu/api"
	"github.com/sarchlab/rvemu/bus"
	"github.com/sarchlab/rvemu/config"
	"github.com/sarchlab/rvemu/instr"
)

const (
	t0 = 5
	t1 = 6
	t2 = 7
	t3 = 28
)

// helloImage prints msg through the UART and powers the machine off.
func helloImage(msg string) []byte {
	code := []uint32{
		instr.EncodeU(0x37, t0, bus.UARTBase>>12),
		instr.EncodeU(0x37, t1, bus.DRAMBase>>12),
		instr.EncodeI(0x13, t1, 0, t1, 13*4), // message follows the code
		instr.EncodeI(0x03, t2, 4, t1, 0),    // loop: lbu t2, 0(t1)
		instr.EncodeB(0x63, 0, t2, 0, 16),    // beq t2, zero, done
		instr.EncodeS(0x23, 0, t0, t2, 0),
		instr.EncodeI(0x13, t1, 0, t1, 1),
		instr.EncodeJ(0x6f, 0, -16),
		instr.EncodeU(0x37, t0, bus.SysconBase>>12), // done:
		instr.EncodeU(0x37, t3, bus.SysconPowerOff>>12),
		instr.EncodeI(0x13, t3, 0, t3, int32(bus.SysconPowerOff&0xfff)),
		instr.EncodeS(0x23, 2, t0, t3, 0),
		instr.EncodeJ(0x6f, 0, 0),
	}

	image := make([]byte, 4*len(code), 4*len(code)+len(msg)+1)
	for i, w := range code {
		binary.LittleEndian.PutUint32(image[4*i:], w)
	}

	image = append(image, msg...)

	return append(image, 0)
}

func main() {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	engine := sim.NewSerialEngine()

	driver := api.DriverBuilder{}.
		WithEngine(engine).
		WithFreq(1 * sim.MHz).
		WithVirtualTime(true).
		WithMaxSteps(10000).
		Build("Driver")

	machine := config.MakeMachineBuilder().
		WithRAMSize(1 << 20).
		Build("Machine")

	if err := machine.LoadImage(helloImage("Hello from RV32IMA\n")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	driver.RegisterMachine(machine)

	if err := driver.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	slog.Info("Done", "Steps", driver.Steps(), "PoweredOff", machine.PoweredOff())
	atexit.Exit(0)
}
