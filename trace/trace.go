// Package trace formats one nestest.log-compatible line per retired
// instruction. Formatting lives entirely here, not on the CPU core: the
// core exposes accessors (PC, registers, MemRead, bus cycle/PPU counters)
// and this package is the only thing that knows about column widths.
package trace

import (
	"fmt"
	"strings"

	"github.com/kestrel-emu/nes6502/bus"
	"github.com/kestrel-emu/nes6502/cpu"
)

// asmColumnWidth is the fixed left-justified width of the disassembly
// column between the raw instruction bytes and the register dump.
const asmColumnWidth = 26

// Line renders one trace line for in, the instruction fetch() just
// decoded, read against the bus's current (pre-execute) memory state.
func Line(c *cpu.Chip, b *bus.Bus, in *cpu.Instruction) string {
	var out strings.Builder

	fmt.Fprintf(&out, "%04X  ", in.PC)
	writeBytes(&out, c, in)
	out.WriteString(" ")
	asm := disassemble(c, in)
	out.WriteString(padRight(asm, asmColumnWidth))
	out.WriteString(" ")
	fmt.Fprintf(&out, "A:%02X X:%02X Y:%02X P:%02X SP:%02X ", c.A, c.X, c.Y, uint8(c.P), c.SP)
	fmt.Fprintf(&out, "PPU:%3d,%3d CYC:%d", b.PPU().Scanline(), b.PPU().Cycle(), b.Cycle())
	return out.String()
}

// writeBytes prints the 1-3 raw instruction bytes, right-padded with
// spaces to a fixed 3-byte field width.
func writeBytes(out *strings.Builder, c *cpu.Chip, in *cpu.Instruction) {
	length := in.Mode.Length()
	bytesOut := make([]string, 3)
	bytesOut[0] = fmt.Sprintf("%02X", in.Opcode)
	for i := uint8(1); i < 3; i++ {
		if i < length {
			bytesOut[i] = fmt.Sprintf("%02X", c.MemRead(in.PC+uint16(i)))
		} else {
			bytesOut[i] = "  "
		}
	}
	fmt.Fprintf(out, "%s %s %s", bytesOut[0], bytesOut[1], bytesOut[2])
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// disassemble formats the operand column for one instruction per its
// addressing mode, matching nestest.log's conventions (target address
// and dereferenced value where applicable).
func disassemble(c *cpu.Chip, in *cpu.Instruction) string {
	name := in.Name
	prefix := " "
	if in.Unofficial {
		prefix = "*"
	}
	mnemonic := prefix + name

	switch in.Mode {
	case cpu.Implied:
		return mnemonic

	case cpu.Accumulator:
		return fmt.Sprintf("%s A", mnemonic)

	case cpu.Immediate:
		operand := c.MemRead(in.PC + 1)
		return fmt.Sprintf("%s #$%02X", mnemonic, operand)

	case cpu.ZeroPage:
		zp := c.MemRead(in.PC + 1)
		val := c.MemRead(uint16(zp))
		return fmt.Sprintf("%s $%02X = %02X", mnemonic, zp, val)

	case cpu.ZeroPageX:
		zp := c.MemRead(in.PC + 1)
		return fmt.Sprintf("%s $%02X,X @ %02X = %02X", mnemonic, zp, uint8(in.EffectiveAddr()), c.MemRead(in.EffectiveAddr()))

	case cpu.ZeroPageY:
		zp := c.MemRead(in.PC + 1)
		return fmt.Sprintf("%s $%02X,Y @ %02X = %02X", mnemonic, zp, uint8(in.EffectiveAddr()), c.MemRead(in.EffectiveAddr()))

	case cpu.Relative:
		return fmt.Sprintf("%s $%04X", mnemonic, in.EffectiveAddr())

	case cpu.Absolute:
		addr := in.EffectiveAddr()
		if name == "JMP" || name == "JSR" {
			return fmt.Sprintf("%s $%04X", mnemonic, addr)
		}
		return fmt.Sprintf("%s $%04X = %02X", mnemonic, addr, c.MemRead(addr))

	case cpu.AbsoluteX:
		lo := uint16(c.MemRead(in.PC + 1))
		hi := uint16(c.MemRead(in.PC + 2))
		base := (hi << 8) | lo
		addr := in.EffectiveAddr()
		return fmt.Sprintf("%s $%04X,X @ %04X = %02X", mnemonic, base, addr, c.MemRead(addr))

	case cpu.AbsoluteY:
		lo := uint16(c.MemRead(in.PC + 1))
		hi := uint16(c.MemRead(in.PC + 2))
		base := (hi << 8) | lo
		addr := in.EffectiveAddr()
		return fmt.Sprintf("%s $%04X,Y @ %04X = %02X", mnemonic, base, addr, c.MemRead(addr))

	case cpu.Indirect:
		lo := uint16(c.MemRead(in.PC + 1))
		hi := uint16(c.MemRead(in.PC + 2))
		base := (hi << 8) | lo
		return fmt.Sprintf("%s ($%04X) = %04X", mnemonic, base, in.EffectiveAddr())

	case cpu.IndirectX:
		zp := c.MemRead(in.PC + 1)
		ptr := zp + c.X
		addr := in.EffectiveAddr()
		return fmt.Sprintf("%s ($%02X,X) @ %02X = %04X = %02X", mnemonic, zp, ptr, addr, c.MemRead(addr))

	case cpu.IndirectY:
		zp := c.MemRead(in.PC + 1)
		lo := uint16(c.MemRead(uint16(zp)))
		hi := uint16(c.MemRead(uint16(zp + 1)))
		base := (hi << 8) | lo
		addr := in.EffectiveAddr()
		return fmt.Sprintf("%s ($%02X),Y = %04X @ %04X = %02X", mnemonic, zp, base, addr, c.MemRead(addr))
	}
	return mnemonic
}
