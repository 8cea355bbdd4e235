// Package rom parses iNES-format NES cartridge images into the PRG-ROM,
// CHR-ROM, and mirroring data the bus and PPU need. Parsing is the only
// fallible, recoverable step in the emulator core: everything past this
// package models a closed hardware device that terminates on a malformed
// access instead of returning an error.
package rom

import (
	"fmt"

	"github.com/kestrel-emu/nes6502/ppu"
)

const (
	headerSize     = 16
	trainerSize    = 512
	prgPageSize    = 16 * 1024
	chrPageSize    = 8 * 1024
	flagsSixTrainerBit = 0x04
	flagsSixFourScreenBit = 0x08
	flagsSixVerticalBit = 0x01
)

var magic = [4]byte{'N', 'E', 'S', 0x1A}

// Error is the ROM-loading error type. It is a distinct variant per
// failure mode so a front-end can format a precise, user-facing message;
// the Kind field identifies the cause.
type Error struct {
	Kind    ErrorKind
	Message string
}

// Error implements error.
func (e *Error) Error() string { return e.Message }

// ErrorKind enumerates the recoverable ROM-loading failure modes.
type ErrorKind int

const (
	ErrTooShort ErrorKind = iota
	ErrWrongMagic
	ErrUnsupportedFormat
	ErrTruncatedPayload
)

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ROM is a parsed iNES image: PRG-ROM and CHR-ROM payloads plus the
// nametable mirroring mode declared by the header. Mapper logic beyond
// mapper-0 program-ROM mirroring is out of scope; a non-zero mapper
// number is accepted but ignored.
type ROM struct {
	PRG       []uint8
	CHR       []uint8
	Mapper    uint8
	Mirroring ppu.Mirroring
	Battery   bool
}

// Parse decodes a complete iNES image from data. It never mutates data;
// the returned ROM's PRG/CHR slices are fresh copies.
func Parse(data []byte) (*ROM, error) {
	if len(data) < headerSize {
		return nil, newError(ErrTooShort, "rom: header truncated: got %d bytes, need at least %d", len(data), headerSize)
	}
	if data[0] != magic[0] || data[1] != magic[1] || data[2] != magic[2] || data[3] != magic[3] {
		return nil, newError(ErrWrongMagic, "rom: bad magic: got % X, want % X", data[0:4], magic)
	}

	prgPages := int(data[4])
	chrPages := int(data[5])
	flagsSix := data[6]
	flagsSeven := data[7]

	subformat := (flagsSeven >> 2) & 0x03
	if subformat != 0 {
		return nil, newError(ErrUnsupportedFormat, "rom: unsupported header subformat %02b (only iNES 1.0 is supported)", subformat)
	}

	mapper := (flagsSeven & 0xF0) | (flagsSix >> 4)

	hasTrainer := flagsSix&flagsSixTrainerBit != 0
	fourScreen := flagsSix&flagsSixFourScreenBit != 0
	vertical := flagsSix&flagsSixVerticalBit != 0

	offset := headerSize
	if hasTrainer {
		offset += trainerSize
	}

	prgSize := prgPages * prgPageSize
	prgEnd := offset + prgSize
	if prgEnd > len(data) {
		return nil, newError(ErrTruncatedPayload, "rom: PRG-ROM truncated: declared %d bytes at offset %d, data is %d bytes long", prgSize, offset, len(data))
	}
	prg := append([]uint8(nil), data[offset:prgEnd]...)

	chrSize := chrPages * chrPageSize
	chrStart := prgEnd
	chrEnd := chrStart + chrSize
	var chr []uint8
	if chrSize == 0 {
		// CHR-RAM cartridge: no ROM payload, 8 KiB of writable pattern
		// tables instead.
		chr = make([]uint8, chrPageSize)
	} else {
		if chrEnd > len(data) {
			return nil, newError(ErrTruncatedPayload, "rom: CHR-ROM truncated: declared %d bytes at offset %d, data is %d bytes long", chrSize, chrStart, len(data))
		}
		chr = append([]uint8(nil), data[chrStart:chrEnd]...)
	}

	mirroring := ppu.MirrorHorizontal
	if vertical {
		mirroring = ppu.MirrorVertical
	}
	if fourScreen {
		mirroring = ppu.MirrorFourScreen
	}

	return &ROM{
		PRG:       prg,
		CHR:       chr,
		Mapper:    mapper,
		Mirroring: mirroring,
		Battery:   flagsSix&0x02 != 0,
	}, nil
}
