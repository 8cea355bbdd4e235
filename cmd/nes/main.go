// nes loads an iNES ROM and runs it to completion (BRK or JAM), printing
// one nestest.log-compatible trace line per retired instruction when
// -trace is set. It is a thin front-end: all emulation lives in the cpu,
// bus, ppu, and rom packages.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"github.com/kestrel-emu/nes6502/bus"
	"github.com/kestrel-emu/nes6502/cpu"
	"github.com/kestrel-emu/nes6502/rom"
	"github.com/kestrel-emu/nes6502/trace"
)

var (
	traceFlag   = flag.Bool("trace", false, "print one trace line per retired instruction")
	nestestMode = flag.Bool("nestest", false, "start execution at $C000, the conventional nestest.nes entry point")
	dumpState   = flag.Bool("dump_state", false, "on halt, dump full CPU state with go-spew instead of just the error")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("usage: %s [flags] <rom.nes>", os.Args[0])
	}

	data, err := ioutil.ReadFile(flag.Args()[0])
	if err != nil {
		log.Fatal(errors.Wrapf(err, "reading %s", flag.Args()[0]))
	}

	r, err := rom.Parse(data)
	if err != nil {
		log.Fatalf("loading ROM: %v", err)
	}

	b := bus.New(r)
	c, err := cpu.Init(&cpu.ChipDef{Bus: b})
	if err != nil {
		log.Fatalf("initializing CPU: %v", err)
	}
	if *nestestMode {
		c.PC = 0xC000
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	var traceFn cpu.TraceFunc
	if *traceFlag {
		traceFn = func(c *cpu.Chip, in *cpu.Instruction) {
			fmt.Fprintln(out, trace.Line(c, b, in))
		}
	}

	if err := c.Run(traceFn); err != nil {
		out.Flush()
		if *dumpState {
			log.Fatalf("halted: %v\n%s", err, spew.Sdump(c))
		}
		log.Fatalf("halted: %v", err)
	}
}
