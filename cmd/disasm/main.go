// disasm loads an iNES ROM and statically disassembles its PRG-ROM from a
// given start address, one instruction per line. It does not execute
// anything and does not follow control flow: a JMP/JSR target is printed
// as an address, not traversed.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/kestrel-emu/nes6502/disassemble"
	"github.com/kestrel-emu/nes6502/rom"
)

var startPC = flag.Int("start_pc", 0x8000, "address to start disassembling from")

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("usage: %s [-start_pc <addr>] <rom.nes>", os.Args[0])
	}

	data, err := ioutil.ReadFile(flag.Args()[0])
	if err != nil {
		log.Fatal(errors.Wrapf(err, "reading %s", flag.Args()[0]))
	}
	r, err := rom.Parse(data)
	if err != nil {
		log.Fatalf("loading ROM: %v", err)
	}

	prg := &prgRAM{data: r.PRG}
	pc := uint16(*startPC)
	end := uint16(0x8000) + uint16(len(r.PRG))
	for pc < end-1 {
		asm, length := disassemble.Step(pc, prg)
		fmt.Printf("%04X  %s\n", pc, asm)
		pc += uint16(length)
	}
}

// prgRAM adapts a ROM's PRG-ROM payload, addressed at its natural CPU
// location (0x8000+), to the memory.Ram interface disassemble.Step reads
// through. Writes are accepted and discarded: disassembly never mutates.
type prgRAM struct {
	data []uint8
}

func (p *prgRAM) Read(addr uint16) uint8 {
	off := int(addr) - 0x8000
	if off < 0 || off >= len(p.data) {
		if len(p.data) == 0x4000 {
			return p.data[(int(addr)-0x8000)%0x4000]
		}
		return 0
	}
	return p.data[off]
}

func (p *prgRAM) Write(addr uint16, val uint8) {}

func (p *prgRAM) PowerOn() {}
