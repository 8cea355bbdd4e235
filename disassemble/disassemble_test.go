package disassemble

import "testing"

type flatRAM []uint8

func (r flatRAM) Read(addr uint16) uint8     { return r[addr] }
func (r flatRAM) Write(addr uint16, v uint8) { r[addr] = v }
func (r flatRAM) PowerOn()                   {}

func TestStepImmediate(t *testing.T) {
	r := make(flatRAM, 0x10000)
	r[0x8000] = 0xA9 // LDA #imm
	r[0x8001] = 0x05
	text, length := Step(0x8000, r)
	if text != "LDA #$05" {
		t.Errorf("text = %q, want %q", text, "LDA #$05")
	}
	if length != 2 {
		t.Errorf("length = %d, want 2", length)
	}
}

func TestStepImplied(t *testing.T) {
	r := make(flatRAM, 0x10000)
	r[0x8000] = 0xEA // NOP
	text, length := Step(0x8000, r)
	if text != "NOP" {
		t.Errorf("text = %q, want %q", text, "NOP")
	}
	if length != 1 {
		t.Errorf("length = %d, want 1", length)
	}
}

func TestStepRelativeComputesTarget(t *testing.T) {
	r := make(flatRAM, 0x10000)
	r[0x8000] = 0x90 // BCC
	r[0x8001] = 0x05
	text, length := Step(0x8000, r)
	if text != "BCC $8007" {
		t.Errorf("text = %q, want %q", text, "BCC $8007")
	}
	if length != 2 {
		t.Errorf("length = %d, want 2", length)
	}
}

func TestStepIndirectX(t *testing.T) {
	r := make(flatRAM, 0x10000)
	r[0x8000] = 0xA1 // LDA (zp,X)
	r[0x8001] = 0x80
	text, _ := Step(0x8000, r)
	if text != "LDA ($80,X)" {
		t.Errorf("text = %q, want %q", text, "LDA ($80,X)")
	}
}

func TestStepAbsoluteY(t *testing.T) {
	r := make(flatRAM, 0x10000)
	r[0x8000] = 0x99 // STA abs,Y
	r[0x8001] = 0x00
	r[0x8002] = 0x02
	text, length := Step(0x8000, r)
	if text != "STA $0200,Y" {
		t.Errorf("text = %q, want %q", text, "STA $0200,Y")
	}
	if length != 3 {
		t.Errorf("length = %d, want 3", length)
	}
}
