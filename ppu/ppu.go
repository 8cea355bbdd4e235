// Package ppu models the register file and scanline/cycle timing of the
// NES Picture Processing Unit to the extent the CPU-facing emulator core
// needs: enough to keep CYC/PPU trace columns accurate and to raise the
// VBlank-NMI the CPU polls once per dispatch iteration. Pixel rendering is
// explicitly out of scope; no framebuffer is produced.
package ppu

import "github.com/kestrel-emu/nes6502/irq"

// irqSender is a package-local alias for irq.Sender, used only by the
// compile-time assertion below so this file doesn't need to spell the
// imported package name at every use site.
type irqSender = irq.Sender

// Mirroring selects how the PPU's two physical nametables are mapped onto
// the four logical nametable slots a mapper-0 cartridge's wiring exposes.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
	MirrorFourScreen
)

const (
	cyclesPerScanline = 341
	scanlinesPerFrame = 262
	vblankScanline    = 241
)

// control register bits (PPUCTRL, $2000).
const (
	ctrlNMIEnable = 0x80
)

// mask register bits (PPUMASK, $2001) — stored but not interpreted by
// this emulator, since rendering is out of scope.
const ()

// status register bits (PPUSTATUS, $2002).
const (
	statusVBlank = 0x80
)

// PPU holds the register file, OAM, and the scanline/cycle counters that
// drive VBlank timing.
type PPU struct {
	chr       []uint8
	vram      [2048]uint8
	palette   [32]uint8
	oam       [256]uint8
	mirroring Mirroring

	ctrl   uint8
	mask   uint8
	status uint8

	oamAddr uint8

	addr      uint16
	addrLatch bool // shared PPUSCROLL/PPUADDR write-toggle
	readBuf   uint8
	scrollX   uint8
	scrollY   uint8

	scanline int
	cycle    int

	nmiPending bool
	nmiLine    bool // not read or written; Tick sets nmiPending directly on entering VBlank
}

// New constructs a powered-on PPU over the cartridge's CHR-ROM (or
// CHR-RAM, copied in as the initial contents) and nametable mirroring
// mode.
func New(chr []uint8, mirroring Mirroring) *PPU {
	p := &PPU{mirroring: mirroring}
	p.SetCHR(chr, mirroring)
	p.scanline = -1
	return p
}

// SetCHR replaces the pattern-table backing store and mirroring mode,
// used both at construction and by bus.SwapROM.
func (p *PPU) SetCHR(chr []uint8, mirroring Mirroring) {
	p.chr = chr
	p.mirroring = mirroring
}

// WriteControl implements the PPUCTRL ($2000) register.
func (p *PPU) WriteControl(val uint8) { p.ctrl = val }

// WriteMask implements the PPUMASK ($2001) register.
func (p *PPU) WriteMask(val uint8) { p.mask = val }

// ReadStatus implements the PPUSTATUS ($2002) register: clears VBlank and
// resets the shared write latch used by PPUSCROLL/PPUADDR.
func (p *PPU) ReadStatus() uint8 {
	result := p.status
	p.status &^= statusVBlank
	p.addrLatch = false
	return result
}

// WriteOAMAddr implements OAMADDR ($2003).
func (p *PPU) WriteOAMAddr(val uint8) { p.oamAddr = val }

// ReadOAMData implements reading OAMDATA ($2004).
func (p *PPU) ReadOAMData() uint8 { return p.oam[p.oamAddr] }

// WriteOAMData implements writing OAMDATA ($2004); used both by direct
// CPU writes and by the bus's OAM-DMA helper.
func (p *PPU) WriteOAMData(val uint8) {
	p.oam[p.oamAddr] = val
	p.oamAddr++
}

// WriteScroll implements PPUSCROLL ($2005), which shares its write latch
// with PPUADDR: the first write of a pair sets X, the second sets Y.
func (p *PPU) WriteScroll(val uint8) {
	if !p.addrLatch {
		p.scrollX = val
	} else {
		p.scrollY = val
	}
	p.addrLatch = !p.addrLatch
}

// WriteAddr implements PPUADDR ($2006): two writes, high byte then low.
func (p *PPU) WriteAddr(val uint8) {
	if !p.addrLatch {
		p.addr = (p.addr & 0x00FF) | (uint16(val) << 8)
	} else {
		p.addr = (p.addr & 0xFF00) | uint16(val)
	}
	p.addrLatch = !p.addrLatch
}

// ReadData implements PPUDATA ($2007): buffered for everything below the
// palette range, direct for palette reads, and auto-increments addr by 1
// or 32 depending on PPUCTRL bit 2.
func (p *PPU) ReadData() uint8 {
	addr := p.addr
	p.incrementAddr()
	if addr >= 0x3F00 {
		return p.readPalette(addr)
	}
	result := p.readBuf
	p.readBuf = p.readVRAM(addr)
	return result
}

// WriteData implements writing PPUDATA ($2007).
func (p *PPU) WriteData(val uint8) {
	addr := p.addr
	p.incrementAddr()
	if addr >= 0x3F00 {
		p.writePalette(addr, val)
		return
	}
	p.writeVRAM(addr, val)
}

func (p *PPU) incrementAddr() {
	if p.ctrl&0x04 != 0 {
		p.addr += 32
	} else {
		p.addr++
	}
}

func (p *PPU) readVRAM(addr uint16) uint8 {
	if addr < 0x2000 {
		if int(addr) < len(p.chr) {
			return p.chr[addr]
		}
		return 0
	}
	return p.vram[p.mirrorVRAMAddr(addr)]
}

func (p *PPU) writeVRAM(addr uint16, val uint8) {
	if addr < 0x2000 {
		if int(addr) < len(p.chr) {
			p.chr[addr] = val
		}
		return
	}
	p.vram[p.mirrorVRAMAddr(addr)] = val
}

// mirrorVRAMAddr folds a $2000-$3EFF nametable address down onto the
// PPU's 2 KiB of physical VRAM per the cartridge's mirroring wiring.
func (p *PPU) mirrorVRAMAddr(addr uint16) uint16 {
	vramAddr := (addr - 0x2000) & 0x0FFF
	table := vramAddr / 0x0400
	offset := vramAddr % 0x0400
	switch p.mirroring {
	case MirrorVertical:
		return (table%2)*0x0400 + offset
	case MirrorHorizontal:
		return (table/2)*0x0400 + offset
	default: // MirrorFourScreen: not backed by extra VRAM, fold onto 2K anyway
		return vramAddr & 0x07FF
	}
}

// palette addresses 0x3F10/0x3F14/0x3F18/0x3F1C mirror their backdrop
// counterparts 0x3F00/0x3F04/0x3F08/0x3F0C.
func palIndex(addr uint16) uint16 {
	i := (addr - 0x3F00) % 32
	if i >= 16 && i%4 == 0 {
		i -= 16
	}
	return i
}

func (p *PPU) readPalette(addr uint16) uint8  { return p.palette[palIndex(addr)] }
func (p *PPU) writePalette(addr uint16, v uint8) { p.palette[palIndex(addr)] = v }

// Tick advances the PPU by n PPU cycles (n = 3*CPU-cycles, supplied by
// the bus), rolling scanline/cycle counters and raising the VBlank-NMI
// latch at the start of scanline 241 when PPUCTRL's NMI-enable bit is
// set. No pixel is ever produced.
func (p *PPU) Tick(n int) {
	for i := 0; i < n; i++ {
		p.cycle++
		if p.cycle >= cyclesPerScanline {
			p.cycle = 0
			p.scanline++
			if p.scanline == vblankScanline {
				p.status |= statusVBlank
				if p.ctrl&ctrlNMIEnable != 0 {
					p.nmiPending = true
				}
			}
			if p.scanline >= scanlinesPerFrame {
				p.scanline = -1
				p.status &^= statusVBlank
			}
		}
	}
}

// PollNMI reports and clears a latched VBlank-NMI, consumed once per CPU
// dispatch-loop iteration.
func (p *PPU) PollNMI() bool {
	pending := p.nmiPending
	p.nmiPending = false
	return pending
}

// Raised implements irq.Sender: a non-destructive peek at the latched
// VBlank-NMI, for callers (diagnostics, future IRQ-sharing logic) that
// must not consume the edge the way PollNMI does.
func (p *PPU) Raised() bool { return p.nmiPending }

var _ irqSender = (*PPU)(nil)

// Scanline and Cycle expose the timing counters the tracer's PPU column
// needs; both start at (-1, 0) on power-on/reset, matching nestest.log.
func (p *PPU) Scanline() int { return p.scanline }
func (p *PPU) Cycle() int    { return p.cycle }

// Control exposes the current PPUCTRL value, used by tests that need to
// confirm register-mirror writes landed on the same backing register.
func (p *PPU) Control() uint8 { return p.ctrl }
