package cpu

// opFunc implements one opcode's execute() step. op receives the decoded
// Instruction (with its operand already evaluated) and is free to mutate
// c and to set c.PC directly for control-flow instructions (JMP/JSR/RTS/
// RTI/branches); Step applies PC advancement BEFORE calling exec, so any
// jump target computed here must account for that.
type opFunc func(c *Chip, in *Instruction)

// opcode is one row of the 256-entry dispatch table: everything fetch()
// needs to know about an opcode byte except its runtime operand.
type opcode struct {
	name        string
	mode        AddrMode
	cycles      uint8
	pageCrossOK bool // if true, an addressing page-cross adds one cycle
	exec        opFunc
	unofficial  bool // true for every undocumented opcode and JAM; false for the 0xEB SBC synonym
}

// Instruction is a single decoded instruction, valid for the duration of
// one Step call. PC is the address of the opcode byte (pre-advance),
// matching what the tracer prints.
type Instruction struct {
	PC         uint16
	Opcode     uint8
	Name       string
	Mode       AddrMode
	NumCycles  uint8
	Unofficial bool
	operand

	op opFunc
}

// EffectiveAddr exposes the decoded operand address for trace/disassembly
// formatting. It is meaningless for Implied/Accumulator/Immediate modes.
func (in *Instruction) EffectiveAddr() uint16 { return in.addr }

// OpcodeInfo exposes one opcodeTable row's static mnemonic and addressing
// mode, for the disassemble package (and any other non-executing
// consumer) so the 256-entry table is defined exactly once.
func OpcodeInfo(opcode uint8) (name string, mode AddrMode) {
	row := &opcodeTable[opcode]
	return row.name, row.mode
}

// fetch decodes the instruction at c.PC (c.IR must already hold the
// opcode byte read from that address) without advancing PC or executing
// anything. Unmapped opcodes are decoded as JAM by the table itself — the
// 256-entry table below has no gaps.
func (c *Chip) fetch() *Instruction {
	row := &opcodeTable[c.IR]
	op := evalAddr(c, row.mode)
	cycles := row.cycles
	if row.pageCrossOK && op.pageCross {
		cycles++
	}
	return &Instruction{
		PC:         c.PC,
		Opcode:     c.IR,
		Name:       row.name,
		Mode:       row.mode,
		NumCycles:  cycles,
		Unofficial: row.unofficial,
		operand:    op,
		op:         row.exec,
	}
}

// opcodeTable is indexed by opcode byte. It is the single source of truth
// for mnemonic, addressing mode, and base cycle count; package trace and
// package disassemble both reuse it rather than keeping their own copies.
var opcodeTable = [256]opcode{
	0x00: {"BRK", Implied, 7, false, execBRK, false},
	0x01: {"ORA", IndirectX, 6, false, execORA, false},
	0x02: {"JAM", Implied, 0, false, execJAM, true},
	0x03: {"SLO", IndirectX, 8, false, execSLO, true},
	0x04: {"NOP", ZeroPage, 3, false, execNOP, true},
	0x05: {"ORA", ZeroPage, 3, false, execORA, false},
	0x06: {"ASL", ZeroPage, 5, false, execASL, false},
	0x07: {"SLO", ZeroPage, 5, false, execSLO, true},
	0x08: {"PHP", Implied, 3, false, execPHP, false},
	0x09: {"ORA", Immediate, 2, false, execORA, false},
	0x0A: {"ASL", Accumulator, 2, false, execASLAcc, false},
	0x0B: {"ANC", Immediate, 2, false, execANC, true},
	0x0C: {"NOP", Absolute, 4, false, execNOP, true},
	0x0D: {"ORA", Absolute, 4, false, execORA, false},
	0x0E: {"ASL", Absolute, 6, false, execASL, false},
	0x0F: {"SLO", Absolute, 6, false, execSLO, true},

	0x10: {"BPL", Relative, 2, false, execBPL, false},
	0x11: {"ORA", IndirectY, 5, true, execORA, false},
	0x12: {"JAM", Implied, 0, false, execJAM, true},
	0x13: {"SLO", IndirectY, 8, false, execSLO, true},
	0x14: {"NOP", ZeroPageX, 4, false, execNOP, true},
	0x15: {"ORA", ZeroPageX, 4, false, execORA, false},
	0x16: {"ASL", ZeroPageX, 6, false, execASL, false},
	0x17: {"SLO", ZeroPageX, 6, false, execSLO, true},
	0x18: {"CLC", Implied, 2, false, execCLC, false},
	0x19: {"ORA", AbsoluteY, 4, true, execORA, false},
	0x1A: {"NOP", Implied, 2, false, execNOP, true},
	0x1B: {"SLO", AbsoluteY, 7, false, execSLO, true},
	0x1C: {"NOP", AbsoluteX, 4, true, execNOP, true},
	0x1D: {"ORA", AbsoluteX, 4, true, execORA, false},
	0x1E: {"ASL", AbsoluteX, 7, false, execASL, false},
	0x1F: {"SLO", AbsoluteX, 7, false, execSLO, true},

	0x20: {"JSR", Absolute, 6, false, execJSR, false},
	0x21: {"AND", IndirectX, 6, false, execAND, false},
	0x22: {"JAM", Implied, 0, false, execJAM, true},
	0x23: {"RLA", IndirectX, 8, false, execRLA, true},
	0x24: {"BIT", ZeroPage, 3, false, execBIT, false},
	0x25: {"AND", ZeroPage, 3, false, execAND, false},
	0x26: {"ROL", ZeroPage, 5, false, execROL, false},
	0x27: {"RLA", ZeroPage, 5, false, execRLA, true},
	0x28: {"PLP", Implied, 4, false, execPLP, false},
	0x29: {"AND", Immediate, 2, false, execAND, false},
	0x2A: {"ROL", Accumulator, 2, false, execROLAcc, false},
	0x2B: {"ANC", Immediate, 2, false, execANC, true},
	0x2C: {"BIT", Absolute, 4, false, execBIT, false},
	0x2D: {"AND", Absolute, 4, false, execAND, false},
	0x2E: {"ROL", Absolute, 6, false, execROL, false},
	0x2F: {"RLA", Absolute, 6, false, execRLA, true},

	0x30: {"BMI", Relative, 2, false, execBMI, false},
	0x31: {"AND", IndirectY, 5, true, execAND, false},
	0x32: {"JAM", Implied, 0, false, execJAM, true},
	0x33: {"RLA", IndirectY, 8, false, execRLA, true},
	0x34: {"NOP", ZeroPageX, 4, false, execNOP, true},
	0x35: {"AND", ZeroPageX, 4, false, execAND, false},
	0x36: {"ROL", ZeroPageX, 6, false, execROL, false},
	0x37: {"RLA", ZeroPageX, 6, false, execRLA, true},
	0x38: {"SEC", Implied, 2, false, execSEC, false},
	0x39: {"AND", AbsoluteY, 4, true, execAND, false},
	0x3A: {"NOP", Implied, 2, false, execNOP, true},
	0x3B: {"RLA", AbsoluteY, 7, false, execRLA, true},
	0x3C: {"NOP", AbsoluteX, 4, true, execNOP, true},
	0x3D: {"AND", AbsoluteX, 4, true, execAND, false},
	0x3E: {"ROL", AbsoluteX, 7, false, execROL, false},
	0x3F: {"RLA", AbsoluteX, 7, false, execRLA, true},

	0x40: {"RTI", Implied, 6, false, execRTI, false},
	0x41: {"EOR", IndirectX, 6, false, execEOR, false},
	0x42: {"JAM", Implied, 0, false, execJAM, true},
	0x43: {"SRE", IndirectX, 8, false, execSRE, true},
	0x44: {"NOP", ZeroPage, 3, false, execNOP, true},
	0x45: {"EOR", ZeroPage, 3, false, execEOR, false},
	0x46: {"LSR", ZeroPage, 5, false, execLSR, false},
	0x47: {"SRE", ZeroPage, 5, false, execSRE, true},
	0x48: {"PHA", Implied, 3, false, execPHA, false},
	0x49: {"EOR", Immediate, 2, false, execEOR, false},
	0x4A: {"LSR", Accumulator, 2, false, execLSRAcc, false},
	0x4B: {"ALR", Immediate, 2, false, execALR, true},
	0x4C: {"JMP", Absolute, 3, false, execJMP, false},
	0x4D: {"EOR", Absolute, 4, false, execEOR, false},
	0x4E: {"LSR", Absolute, 6, false, execLSR, false},
	0x4F: {"SRE", Absolute, 6, false, execSRE, true},

	0x50: {"BVC", Relative, 2, false, execBVC, false},
	0x51: {"EOR", IndirectY, 5, true, execEOR, false},
	0x52: {"JAM", Implied, 0, false, execJAM, true},
	0x53: {"SRE", IndirectY, 8, false, execSRE, true},
	0x54: {"NOP", ZeroPageX, 4, false, execNOP, true},
	0x55: {"EOR", ZeroPageX, 4, false, execEOR, false},
	0x56: {"LSR", ZeroPageX, 6, false, execLSR, false},
	0x57: {"SRE", ZeroPageX, 6, false, execSRE, true},
	0x58: {"CLI", Implied, 2, false, execCLI, false},
	0x59: {"EOR", AbsoluteY, 4, true, execEOR, false},
	0x5A: {"NOP", Implied, 2, false, execNOP, true},
	0x5B: {"SRE", AbsoluteY, 7, false, execSRE, true},
	0x5C: {"NOP", AbsoluteX, 4, true, execNOP, true},
	0x5D: {"EOR", AbsoluteX, 4, true, execEOR, false},
	0x5E: {"LSR", AbsoluteX, 7, false, execLSR, false},
	0x5F: {"SRE", AbsoluteX, 7, false, execSRE, true},

	0x60: {"RTS", Implied, 6, false, execRTS, false},
	0x61: {"ADC", IndirectX, 6, false, execADC, false},
	0x62: {"JAM", Implied, 0, false, execJAM, true},
	0x63: {"RRA", IndirectX, 8, false, execRRA, true},
	0x64: {"NOP", ZeroPage, 3, false, execNOP, true},
	0x65: {"ADC", ZeroPage, 3, false, execADC, false},
	0x66: {"ROR", ZeroPage, 5, false, execROR, false},
	0x67: {"RRA", ZeroPage, 5, false, execRRA, true},
	0x68: {"PLA", Implied, 4, false, execPLA, false},
	0x69: {"ADC", Immediate, 2, false, execADC, false},
	0x6A: {"ROR", Accumulator, 2, false, execRORAcc, false},
	0x6B: {"ARR", Immediate, 2, false, execARR, true},
	0x6C: {"JMP", Indirect, 5, false, execJMP, false},
	0x6D: {"ADC", Absolute, 4, false, execADC, false},
	0x6E: {"ROR", Absolute, 6, false, execROR, false},
	0x6F: {"RRA", Absolute, 6, false, execRRA, true},

	0x70: {"BVS", Relative, 2, false, execBVS, false},
	0x71: {"ADC", IndirectY, 5, true, execADC, false},
	0x72: {"JAM", Implied, 0, false, execJAM, true},
	0x73: {"RRA", IndirectY, 8, false, execRRA, true},
	0x74: {"NOP", ZeroPageX, 4, false, execNOP, true},
	0x75: {"ADC", ZeroPageX, 4, false, execADC, false},
	0x76: {"ROR", ZeroPageX, 6, false, execROR, false},
	0x77: {"RRA", ZeroPageX, 6, false, execRRA, true},
	0x78: {"SEI", Implied, 2, false, execSEI, false},
	0x79: {"ADC", AbsoluteY, 4, true, execADC, false},
	0x7A: {"NOP", Implied, 2, false, execNOP, true},
	0x7B: {"RRA", AbsoluteY, 7, false, execRRA, true},
	0x7C: {"NOP", AbsoluteX, 4, true, execNOP, true},
	0x7D: {"ADC", AbsoluteX, 4, true, execADC, false},
	0x7E: {"ROR", AbsoluteX, 7, false, execROR, false},
	0x7F: {"RRA", AbsoluteX, 7, false, execRRA, true},

	0x80: {"NOP", Immediate, 2, false, execNOP, true},
	0x81: {"STA", IndirectX, 6, false, execSTA, false},
	0x82: {"NOP", Immediate, 2, false, execNOP, true},
	0x83: {"SAX", IndirectX, 6, false, execSAX, true},
	0x84: {"STY", ZeroPage, 3, false, execSTY, false},
	0x85: {"STA", ZeroPage, 3, false, execSTA, false},
	0x86: {"STX", ZeroPage, 3, false, execSTX, false},
	0x87: {"SAX", ZeroPage, 3, false, execSAX, true},
	0x88: {"DEY", Implied, 2, false, execDEY, false},
	0x89: {"NOP", Immediate, 2, false, execNOP, true},
	0x8A: {"TXA", Implied, 2, false, execTXA, false},
	0x8B: {"ANE", Immediate, 2, false, execANE, true},
	0x8C: {"STY", Absolute, 4, false, execSTY, false},
	0x8D: {"STA", Absolute, 4, false, execSTA, false},
	0x8E: {"STX", Absolute, 4, false, execSTX, false},
	0x8F: {"SAX", Absolute, 4, false, execSAX, true},

	0x90: {"BCC", Relative, 2, false, execBCC, false},
	0x91: {"STA", IndirectY, 6, false, execSTA, false},
	0x92: {"JAM", Implied, 0, false, execJAM, true},
	0x93: {"SHA", IndirectY, 6, false, execSHA, true},
	0x94: {"STY", ZeroPageX, 4, false, execSTY, false},
	0x95: {"STA", ZeroPageX, 4, false, execSTA, false},
	0x96: {"STX", ZeroPageY, 4, false, execSTX, false},
	0x97: {"SAX", ZeroPageY, 4, false, execSAX, true},
	0x98: {"TYA", Implied, 2, false, execTYA, false},
	0x99: {"STA", AbsoluteY, 5, false, execSTA, false},
	0x9A: {"TXS", Implied, 2, false, execTXS, false},
	0x9B: {"TAS", AbsoluteY, 5, false, execTAS, true},
	0x9C: {"SHY", AbsoluteX, 5, false, execSHY, true},
	0x9D: {"STA", AbsoluteX, 5, false, execSTA, false},
	0x9E: {"SHX", AbsoluteY, 5, false, execSHX, true},
	0x9F: {"SHA", AbsoluteY, 5, false, execSHA, true},

	0xA0: {"LDY", Immediate, 2, false, execLDY, false},
	0xA1: {"LDA", IndirectX, 6, false, execLDA, false},
	0xA2: {"LDX", Immediate, 2, false, execLDX, false},
	0xA3: {"LAX", IndirectX, 6, false, execLAX, true},
	0xA4: {"LDY", ZeroPage, 3, false, execLDY, false},
	0xA5: {"LDA", ZeroPage, 3, false, execLDA, false},
	0xA6: {"LDX", ZeroPage, 3, false, execLDX, false},
	0xA7: {"LAX", ZeroPage, 3, false, execLAX, true},
	0xA8: {"TAY", Implied, 2, false, execTAY, false},
	0xA9: {"LDA", Immediate, 2, false, execLDA, false},
	0xAA: {"TAX", Implied, 2, false, execTAX, false},
	0xAB: {"LXA", Immediate, 2, false, execLXA, true},
	0xAC: {"LDY", Absolute, 4, false, execLDY, false},
	0xAD: {"LDA", Absolute, 4, false, execLDA, false},
	0xAE: {"LDX", Absolute, 4, false, execLDX, false},
	0xAF: {"LAX", Absolute, 4, false, execLAX, true},

	0xB0: {"BCS", Relative, 2, false, execBCS, false},
	0xB1: {"LDA", IndirectY, 5, true, execLDA, false},
	0xB2: {"JAM", Implied, 0, false, execJAM, true},
	0xB3: {"LAX", IndirectY, 5, true, execLAX, true},
	0xB4: {"LDY", ZeroPageX, 4, false, execLDY, false},
	0xB5: {"LDA", ZeroPageX, 4, false, execLDA, false},
	0xB6: {"LDX", ZeroPageY, 4, false, execLDX, false},
	0xB7: {"LAX", ZeroPageY, 4, false, execLAX, true},
	0xB8: {"CLV", Implied, 2, false, execCLV, false},
	0xB9: {"LDA", AbsoluteY, 4, true, execLDA, false},
	0xBA: {"TSX", Implied, 2, false, execTSX, false},
	0xBB: {"LAS", AbsoluteY, 4, true, execLAS, true},
	0xBC: {"LDY", AbsoluteX, 4, true, execLDY, false},
	0xBD: {"LDA", AbsoluteX, 4, true, execLDA, false},
	0xBE: {"LDX", AbsoluteY, 4, true, execLDX, false},
	0xBF: {"LAX", AbsoluteY, 4, true, execLAX, true},

	0xC0: {"CPY", Immediate, 2, false, execCPY, false},
	0xC1: {"CMP", IndirectX, 6, false, execCMP, false},
	0xC2: {"NOP", Immediate, 2, false, execNOP, true},
	0xC3: {"DCP", IndirectX, 8, false, execDCP, true},
	0xC4: {"CPY", ZeroPage, 3, false, execCPY, false},
	0xC5: {"CMP", ZeroPage, 3, false, execCMP, false},
	0xC6: {"DEC", ZeroPage, 5, false, execDEC, false},
	0xC7: {"DCP", ZeroPage, 5, false, execDCP, true},
	0xC8: {"INY", Implied, 2, false, execINY, false},
	0xC9: {"CMP", Immediate, 2, false, execCMP, false},
	0xCA: {"DEX", Implied, 2, false, execDEX, false},
	0xCB: {"AXS", Immediate, 2, false, execAXS, true},
	0xCC: {"CPY", Absolute, 4, false, execCPY, false},
	0xCD: {"CMP", Absolute, 4, false, execCMP, false},
	0xCE: {"DEC", Absolute, 6, false, execDEC, false},
	0xCF: {"DCP", Absolute, 6, false, execDCP, true},

	0xD0: {"BNE", Relative, 2, false, execBNE, false},
	0xD1: {"CMP", IndirectY, 5, true, execCMP, false},
	0xD2: {"JAM", Implied, 0, false, execJAM, true},
	0xD3: {"DCP", IndirectY, 8, false, execDCP, true},
	0xD4: {"NOP", ZeroPageX, 4, false, execNOP, true},
	0xD5: {"CMP", ZeroPageX, 4, false, execCMP, false},
	0xD6: {"DEC", ZeroPageX, 6, false, execDEC, false},
	0xD7: {"DCP", ZeroPageX, 6, false, execDCP, true},
	0xD8: {"CLD", Implied, 2, false, execCLD, false},
	0xD9: {"CMP", AbsoluteY, 4, true, execCMP, false},
	0xDA: {"NOP", Implied, 2, false, execNOP, true},
	0xDB: {"DCP", AbsoluteY, 7, false, execDCP, true},
	0xDC: {"NOP", AbsoluteX, 4, true, execNOP, true},
	0xDD: {"CMP", AbsoluteX, 4, true, execCMP, false},
	0xDE: {"DEC", AbsoluteX, 7, false, execDEC, false},
	0xDF: {"DCP", AbsoluteX, 7, false, execDCP, true},

	0xE0: {"CPX", Immediate, 2, false, execCPX, false},
	0xE1: {"SBC", IndirectX, 6, false, execSBC, false},
	0xE2: {"NOP", Immediate, 2, false, execNOP, true},
	0xE3: {"ISC", IndirectX, 8, false, execISC, true},
	0xE4: {"CPX", ZeroPage, 3, false, execCPX, false},
	0xE5: {"SBC", ZeroPage, 3, false, execSBC, false},
	0xE6: {"INC", ZeroPage, 5, false, execINC, false},
	0xE7: {"ISC", ZeroPage, 5, false, execISC, true},
	0xE8: {"INX", Implied, 2, false, execINX, false},
	0xE9: {"SBC", Immediate, 2, false, execSBC, false},
	0xEA: {"NOP", Implied, 2, false, execNOP, false},
	0xEB: {"SBC", Immediate, 2, false, execSBC, false},
	0xEC: {"CPX", Absolute, 4, false, execCPX, false},
	0xED: {"SBC", Absolute, 4, false, execSBC, false},
	0xEE: {"INC", Absolute, 6, false, execINC, false},
	0xEF: {"ISC", Absolute, 6, false, execISC, true},

	0xF0: {"BEQ", Relative, 2, false, execBEQ, false},
	0xF1: {"SBC", IndirectY, 5, true, execSBC, false},
	0xF2: {"JAM", Implied, 0, false, execJAM, true},
	0xF3: {"ISC", IndirectY, 8, false, execISC, true},
	0xF4: {"NOP", ZeroPageX, 4, false, execNOP, true},
	0xF5: {"SBC", ZeroPageX, 4, false, execSBC, false},
	0xF6: {"INC", ZeroPageX, 6, false, execINC, false},
	0xF7: {"ISC", ZeroPageX, 6, false, execISC, true},
	0xF8: {"SED", Implied, 2, false, execSED, false},
	0xF9: {"SBC", AbsoluteY, 4, true, execSBC, false},
	0xFA: {"NOP", Implied, 2, false, execNOP, true},
	0xFB: {"ISC", AbsoluteY, 7, false, execISC, true},
	0xFC: {"NOP", AbsoluteX, 4, true, execNOP, true},
	0xFD: {"SBC", AbsoluteX, 4, true, execSBC, false},
	0xFE: {"INC", AbsoluteX, 7, false, execINC, false},
	0xFF: {"ISC", AbsoluteX, 7, false, execISC, true},
}