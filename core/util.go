package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
)

// LevelTrace sits below debug so per-instruction logs stay off unless a
// handler asks for them.
const LevelTrace slog.Level = slog.LevelDebug - 4

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

func traceEnabled() bool {
	return slog.Default().Enabled(context.Background(), LevelTrace)
}

var abiNames = [32]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// DumpState renders the pc and the register file as a table.
func (c *CPU) DumpState(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("pc 0x%08x", c.state.PC))
	t.AppendHeader(table.Row{"Reg", "Value", "Reg", "Value", "Reg", "Value", "Reg", "Value"})

	for row := 0; row < 8; row++ {
		r := make(table.Row, 0, 8)
		for col := 0; col < 4; col++ {
			i := col*8 + row
			r = append(r,
				fmt.Sprintf("x%d/%s", i, abiNames[i]),
				fmt.Sprintf("0x%08x", c.state.X[i]))
		}
		t.AppendRow(r)
	}

	t.Render()
}

// LogState writes the architectural state at debug level.
func (c *CPU) LogState() {
	s := &c.state
	slog.Debug("StateCheckpoint",
		"PC", fmt.Sprintf("0x%08x", s.PC),
		"Registers", s.X,
		"Mstatus", s.CSR.Mstatus,
		"Mcause", s.CSR.Mcause,
		"Mepc", s.CSR.Mepc,
		"Priv", s.Priv(),
		"Waiting", c.Waiting(),
	)
}
