// Package disassemble implements a static (non-executing) disassembler
// for 6502 opcodes, reusing the cpu package's opcode metadata table so
// mnemonic/mode data is defined exactly once in the module. Step does not
// interpret the instructions: a JMP target is printed, not followed.
package disassemble

import (
	"fmt"

	"github.com/kestrel-emu/nes6502/cpu"
	"github.com/kestrel-emu/nes6502/memory"
)

// Step disassembles the instruction at pc and returns its text plus the
// number of bytes to advance to reach the next instruction. For modes
// with an operand it reads one or two bytes past pc, so the caller must
// ensure those addresses are valid (e.g. not past the last byte of ROM).
func Step(pc uint16, r memory.Ram) (string, int) {
	opcode := r.Read(pc)
	name, mode := cpu.OpcodeInfo(opcode)
	length := int(mode.Length())

	var operand string
	switch mode {
	case cpu.Implied:
		operand = ""
	case cpu.Accumulator:
		operand = "A"
	case cpu.Immediate:
		operand = fmt.Sprintf("#$%02X", r.Read(pc+1))
	case cpu.ZeroPage:
		operand = fmt.Sprintf("$%02X", r.Read(pc+1))
	case cpu.ZeroPageX:
		operand = fmt.Sprintf("$%02X,X", r.Read(pc+1))
	case cpu.ZeroPageY:
		operand = fmt.Sprintf("$%02X,Y", r.Read(pc+1))
	case cpu.Relative:
		off := int8(r.Read(pc + 1))
		target := uint16(int32(pc) + 2 + int32(off))
		operand = fmt.Sprintf("$%04X", target)
	case cpu.Absolute:
		operand = fmt.Sprintf("$%04X", read16(r, pc+1))
	case cpu.AbsoluteX:
		operand = fmt.Sprintf("$%04X,X", read16(r, pc+1))
	case cpu.AbsoluteY:
		operand = fmt.Sprintf("$%04X,Y", read16(r, pc+1))
	case cpu.Indirect:
		operand = fmt.Sprintf("($%04X)", read16(r, pc+1))
	case cpu.IndirectX:
		operand = fmt.Sprintf("($%02X,X)", r.Read(pc+1))
	case cpu.IndirectY:
		operand = fmt.Sprintf("($%02X),Y", r.Read(pc+1))
	}

	if operand == "" {
		return name, length
	}
	return fmt.Sprintf("%s %s", name, operand), length
}

func read16(r memory.Ram, addr uint16) uint16 {
	lo := uint16(r.Read(addr))
	hi := uint16(r.Read(addr + 1))
	return (hi << 8) | lo
}
