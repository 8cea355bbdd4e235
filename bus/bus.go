// Package bus wires CPU RAM, the PPU's memory-mapped registers, and
// cartridge program ROM into the single 16-bit address space the CPU
// drives. It is the only component that holds all three; the CPU borrows
// it through the cpu.Bus interface and never reaches around it.
package bus

import (
	"fmt"
	"os"

	"github.com/kestrel-emu/nes6502/memory"
	"github.com/kestrel-emu/nes6502/ppu"
	"github.com/kestrel-emu/nes6502/rom"
)

const (
	ramSize    = 0x0800
	ramMask    = 0x07FF
	ppuRegMask = 0x2007

	prgPageSize = 0x4000 // 16 KiB
)

// Bus is the NES memory bus. It satisfies cpu.Bus structurally; neither
// package imports the other, so the interface is left implicit on
// purpose, matching the decoupled, test-friendly style of this
// emulator's component boundaries.
type Bus struct {
	ram   memory.Ram
	ppu   *ppu.PPU
	prg   []uint8
	cycle uint64
}

// New constructs a bus over a parsed ROM's PRG-ROM bytes and a fresh PPU
// and RAM, both powered on.
func New(r *rom.ROM) *Bus {
	ram, err := memory.NewRAM(ramSize)
	if err != nil {
		panic(fmt.Sprintf("bus: %v", err))
	}
	ram.PowerOn()
	p := ppu.New(r.CHR, r.Mirroring)
	b := &Bus{ram: ram, ppu: p, prg: r.PRG}
	return b
}

// SwapROM atomically replaces the program ROM and CHR data. Callers that
// hold a CPU built over this bus must call cpu.Reset afterward to reload
// PC from the new reset vector — SwapROM itself touches nothing but the
// cartridge data.
func (b *Bus) SwapROM(r *rom.ROM) {
	b.prg = r.PRG
	b.ppu.SetCHR(r.CHR, r.Mirroring)
}

// Read implements cpu.Bus.
func (b *Bus) Read(addr uint16) uint8 {
	switch {
	case addr <= 0x1FFF:
		return b.ram.Read(addr & ramMask)

	case addr == 0x2002:
		return b.ppu.ReadStatus()
	case addr == 0x2004:
		return b.ppu.ReadOAMData()
	case addr == 0x2007:
		return b.ppu.ReadData()
	case addr == 0x2000 || addr == 0x2001 || addr == 0x2003 || addr == 0x2005 ||
		addr == 0x2006 || addr == 0x4014:
		fatal("read from write-only PPU register $%04X", addr)

	case addr >= 0x2008 && addr <= 0x3FFF:
		return b.Read(0x2000 | (addr & ppuRegMask))

	case addr >= 0x8000:
		return b.prg[b.prgIndex(addr)]
	}
	return 0
}

// Write implements cpu.Bus.
func (b *Bus) Write(addr uint16, val uint8) {
	switch {
	case addr <= 0x1FFF:
		b.ram.Write(addr&ramMask, val)
		return

	case addr == 0x2000:
		b.ppu.WriteControl(val)
		return
	case addr == 0x2001:
		b.ppu.WriteMask(val)
		return
	case addr == 0x2003:
		b.ppu.WriteOAMAddr(val)
		return
	case addr == 0x2004:
		b.ppu.WriteOAMData(val)
		return
	case addr == 0x2005:
		b.ppu.WriteScroll(val)
		return
	case addr == 0x2006:
		b.ppu.WriteAddr(val)
		return
	case addr == 0x2007:
		b.ppu.WriteData(val)
		return
	case addr == 0x4014:
		b.oamDMA(val)
		return
	case addr == 0x2002:
		fatal("write to read-only PPU register $%04X", addr)

	case addr >= 0x2008 && addr <= 0x3FFF:
		b.Write(0x2000|(addr&ppuRegMask), val)
		return

	case addr >= 0x8000:
		fatal("write to program ROM at $%04X", addr)
	}
	// Unmapped: no-op, per the routing table's final row.
}

// prgIndex maps a CPU address in 0x8000..=0xFFFF onto the PRG-ROM buffer,
// mirroring the lower 16 KiB page if only one is present (mapper 0).
func (b *Bus) prgIndex(addr uint16) int {
	off := int(addr - 0x8000)
	if len(b.prg) == prgPageSize {
		return off % prgPageSize
	}
	return off
}

// oamDMA copies one page of CPU RAM/ROM starting at page*0x100 into OAM.
// Real hardware stalls the CPU for 513-514 cycles during this transfer;
// that stall is not modeled: no extra cycles are charged via Tick.
func (b *Bus) oamDMA(page uint8) {
	base := uint16(page) << 8
	for i := 0; i < 256; i++ {
		b.ppu.WriteOAMData(b.Read(base + uint16(i)))
	}
}

// Tick implements cpu.Bus: advances the cycle counter and drives the PPU
// 3 PPU cycles for every CPU cycle charged.
func (b *Bus) Tick(cycles uint8) {
	b.cycle += uint64(cycles)
	b.ppu.Tick(int(cycles) * 3)
}

// PollNMI implements cpu.Bus.
func (b *Bus) PollNMI() bool {
	return b.ppu.PollNMI()
}

// Cycle returns the cumulative CPU cycle count since power-on, used by
// the tracer's CYC column.
func (b *Bus) Cycle() uint64 { return b.cycle }

// PPU exposes the bus's PPU for the tracer's PPU:scanline,cycle column
// and for tests that need to force VBlank.
func (b *Bus) PPU() *ppu.PPU { return b.ppu }

// fatal reports an unrecoverable bus invariant violation. The CPU models
// a closed hardware device with no recovery strategy for a malformed
// memory access, so this terminates the process rather than returning an
// error up through cpu.Bus's infallible signature.
func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "bus: fatal: "+format+"\n", args...)
	os.Exit(1)
}
