package emu

import (
	"fmt"
	"hash/crc32"
)

// ROM image sizes and their offsets on the 25-bit download port. The
// download stream populates every image before (or while) the board
// runs; writes land immediately.
//
//	$0000000  program ROM low half, 32 KB (two 16 KB banks)
//	$0008000  program ROM high half, 16 KB (vectors)
//	$000C000  sound program ROM, 32 KB
//	$0014000  graphics ROM, 256 KB (16-bit words, two 128 KB halves)
const (
	progLowROMSize  = 0x8000
	progHighROMSize = 0x4000
	soundROMSize    = 0x8000
	gfxROMSize      = 0x40000

	dlProgLowBase  = 0x0000000
	dlProgHighBase = 0x0008000
	dlSoundBase    = 0x000C000
	dlGfxBase      = 0x0014000

	// ROMSetSize is the length of a complete combined image.
	ROMSetSize = dlGfxBase + gfxROMSize

	dlAddrMask = 1<<25 - 1
)

// ROMSet holds every mask ROM on the board.
type ROMSet struct {
	ProgLow  [progLowROMSize]uint8
	ProgHigh [progHighROMSize]uint8
	Sound    [soundROMSize]uint8
	Gfx      [gfxROMSize]uint8
}

// NewROMSet returns an empty (all-zero) ROM set.
func NewROMSet() *ROMSet {
	return &ROMSet{}
}

// Download writes one byte arriving on the download port. Addresses
// past the last image are ignored, matching an unwired strobe.
func (r *ROMSet) Download(addr uint32, data uint8) {
	addr &= dlAddrMask
	switch {
	case addr < dlProgHighBase:
		r.ProgLow[addr-dlProgLowBase] = data
	case addr < dlSoundBase:
		r.ProgHigh[addr-dlProgHighBase] = data
	case addr < dlGfxBase:
		r.Sound[addr-dlSoundBase] = data
	case addr < ROMSetSize:
		r.Gfx[addr-dlGfxBase] = data
	}
}

// LoadImage populates the whole set from a combined image laid out in
// download-port order.
func (r *ROMSet) LoadImage(data []byte) error {
	if len(data) != ROMSetSize {
		return fmt.Errorf("ROM image is %d bytes, want %d", len(data), ROMSetSize)
	}
	copy(r.ProgLow[:], data[dlProgLowBase:])
	copy(r.ProgHigh[:], data[dlProgHighBase:])
	copy(r.Sound[:], data[dlSoundBase:])
	copy(r.Gfx[:], data[dlGfxBase:])
	return nil
}

// GfxWord reads a 16-bit big-endian word from the graphics ROM. word is
// the 17-bit address presented by the fetch arbiter: the top bit is the
// channel-select bit partitioning the ROM into two independent halves.
func (r *ROMSet) GfxWord(word uint32) uint16 {
	off := (word << 1) & (gfxROMSize - 1)
	return uint16(r.Gfx[off])<<8 | uint16(r.Gfx[off+1])
}

// CRC32 hashes every image, in download-port order. Used to tie save
// states to the ROM set they were taken from.
func (r *ROMSet) CRC32() uint32 {
	crc := crc32.ChecksumIEEE(r.ProgLow[:])
	crc = crc32.Update(crc, crc32.IEEETable, r.ProgHigh[:])
	crc = crc32.Update(crc, crc32.IEEETable, r.Sound[:])
	crc = crc32.Update(crc, crc32.IEEETable, r.Gfx[:])
	return crc
}
