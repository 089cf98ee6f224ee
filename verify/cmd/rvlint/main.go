// Command rvlint checks a flat RV32 image without running it.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/rvemu/bus"
	"github.com/sarchlab/rvemu/core"
	"github.com/sarchlab/rvemu/verify"
)

func main() {
	base := flag.Uint("base", uint(bus.DRAMBase), "Load address of the image")
	exts := flag.String("ext", string(core.DefaultExtensions), "Extension search order")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: rvlint [-base addr] [-ext imaz] image.bin")
		atexit.Exit(2)
	}

	image, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		atexit.Exit(1)
	}

	dec := core.NewDecoder([]byte(*exts))
	report := verify.GenerateReport(image, uint32(*base), dec)
	report.WriteReport(os.Stdout)

	if !report.OK() {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
