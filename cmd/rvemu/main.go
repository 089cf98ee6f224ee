// Command rvemu runs a flat RV32 image on the emulated machine.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/rvemu/api"
	"github.com/sarchlab/rvemu/bus"
	"github.com/sarchlab/rvemu/config"
	"github.com/sarchlab/rvemu/console"
	"github.com/sarchlab/rvemu/core"
	"github.com/sarchlab/rvemu/verify"
)

// detachable stops the run when the console is detached.
type detachable struct {
	*config.Machine
	detached atomic.Bool
}

func (m *detachable) Running() bool {
	return !m.detached.Load() && m.Machine.Running()
}

func main() {
	configPath := flag.String("config", "", "YAML machine file")
	imagePath := flag.String("image", "", "Flat binary loaded at the start of DRAM")
	ramSize := flag.Uint("ram", 0, "DRAM size in bytes")
	exts := flag.String("ext", "", "Extension search order, e.g. imaz")
	maxSteps := flag.Uint64("max-steps", 0, "Stop after this many steps (0 = no bound)")
	virtual := flag.Bool("virtual", false, "Drive the timer from simulated time")
	trace := flag.Bool("trace", false, "Log every executed instruction")
	dump := flag.Bool("dump", false, "Print the register file on exit")
	lint := flag.Bool("lint", false, "Check the image before running it")

	flag.Parse()

	level := slog.LevelInfo
	if *trace {
		level = core.LevelTrace
	}

	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))

	spec := config.DefaultMachineSpec()
	if *configPath != "" {
		var err error
		if spec, err = config.LoadMachineSpecFromYAML(*configPath); err != nil {
			fail(err)
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "image":
			spec.Image = *imagePath
		case "ram":
			spec.RAMSize = uint32(*ramSize)
		case "ext":
			spec.Extensions = *exts
		case "max-steps":
			spec.MaxSteps = *maxSteps
		case "virtual":
			spec.VirtualTime = *virtual
		}
	})

	if spec.Image == "" {
		fmt.Fprintln(os.Stderr, "No image provided. Use -image or a config file.")
		atexit.Exit(2)
	}

	m := &detachable{
		Machine: config.MakeMachineBuilder().
			ApplyMachineSpec(spec).
			Build("Machine"),
	}

	image, err := os.ReadFile(spec.Image)
	if err != nil {
		fail(err)
	}

	if *lint {
		report := verify.GenerateReport(image, bus.DRAMBase, m.CPU.Decoder())
		report.WriteReport(os.Stderr)
	}

	if err := m.LoadImage(image); err != nil {
		fail(err)
	}

	if console.IsTerminal(int(os.Stdin.Fd())) {
		host := console.NewTerminalHost(m.UART)
		host.OnEscape(func() { m.detached.Store(true) })

		if err := host.Start(); err != nil {
			slog.Warn("Console input disabled", "Error", err)
		} else {
			atexit.Register(host.Stop)
		}
	}

	if *dump {
		atexit.Register(func() { m.CPU.DumpState(os.Stderr) })
	}

	driver := api.DriverBuilder{}.
		WithFreq(sim.Freq(spec.FreqMHz) * sim.MHz).
		WithVirtualTime(spec.VirtualTime).
		WithMaxSteps(spec.MaxSteps).
		Build("Driver")
	driver.RegisterMachine(m)

	err = driver.Run()

	slog.Info("Stopped",
		"Steps", driver.Steps(),
		"PC", fmt.Sprintf("0x%08x", m.CPU.PC()),
		"PoweredOff", m.PoweredOff())

	if err != nil {
		m.CPU.LogState()
		fail(err)
	}

	atexit.Exit(0)
}

func fail(err error) {
	slog.Error("rvemu", "Error", err)
	atexit.Exit(1)
}
