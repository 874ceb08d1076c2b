package emu

// Address decoding for both CPUs. The decoder ASIC is modeled as a
// priority-ordered decision table rather than the chip's raw boolean
// equations; the priority order is the contract.
//
// Main CPU map (16-bit):
//
//	$0000-$001F  I/O window, four sub-selects from A3:A2
//	$0020-$005F  tilegen register window (both chips in parallel)
//	$0060-$1FFF  shared dual-port work RAM
//	$2000-$2FFF  tile RAM    (tile bank bit picks tilegen 0 or 1)
//	$3000-$3FFF  sprite RAM  (sprite bank bit picks tilegen 0 or 1)
//	$8000-$BFFF  program ROM low half (banked)
//	$C000-$FFFF  program ROM high half (fixed)
//
// Sound CPU map (16-bit, decoded from A15:A13):
//
//	$2000-$3FFF  synthesizer
//	$4000-$5FFF  palette RAM
//	$6000-$7FFF  shared dual-port work RAM
//	$8000-$FFFF  sound program ROM

// I/O window sub-selects (A3:A2).
const (
	ioSubSystem = iota // r: coin/start/service, w: bank + coin counters
	ioSubP1            // r: P1 stick/buttons (rotary variants: rotary 1)
	ioSubP2            // r: P2 stick/buttons (rotary variants: rotary 2)
	ioSubDIP           // r: DIP banks, w: interrupt enable / watchdog kick
)

// tgRegion says which window of a tilegen a main-CPU access landed in.
type tgRegion uint8

const (
	tgNone tgRegion = iota
	tgReg
	tgTile
	tgSprite
)

// mainSelects is the raw select set the decoder ASIC derives for one
// main-CPU address. Both tilegen selects assert for the shared register
// window; reads resolve in the fixed priority order implemented by
// busReadMain.
type mainSelects struct {
	io       bool
	ioSub    uint8
	tg       [2]bool
	tgRegion tgRegion
	shared   bool
	romLow   bool
	romHigh  bool
}

// decodeMain decodes a main-CPU address. Decoding is pure: it depends
// only on the address and the sampled bank bits.
func decodeMain(addr uint16, banks bankState) mainSelects {
	var s mainSelects

	switch {
	case addr < 0x0020:
		s.io = true
		s.ioSub = uint8(addr>>2) & 3
	case addr < 0x0060:
		// Register window: both chips listen, tilegen 0 answers reads.
		s.tg[0] = true
		s.tg[1] = true
		s.tgRegion = tgReg
	case addr < 0x2000:
		s.shared = true
	case addr < 0x3000:
		s.tg[banks.tile&1] = true
		s.tgRegion = tgTile
	case addr < 0x4000:
		s.tg[banks.sprite&1] = true
		s.tgRegion = tgSprite
	case addr >= 0xC000:
		s.romHigh = true
	case addr >= 0x8000:
		s.romLow = true
	}
	return s
}

// soundSelect identifies the sound-CPU bus slave.
type soundSelect uint8

const (
	soundSelNone soundSelect = iota
	soundSelSynth
	soundSelPalette
	soundSelShared
	soundSelROM
)

// decodeSound decodes a sound-CPU address from its top three bits.
func decodeSound(addr uint16) soundSelect {
	if addr&0x8000 != 0 {
		return soundSelROM
	}
	switch addr >> 13 {
	case 1:
		return soundSelSynth
	case 2:
		return soundSelPalette
	case 3:
		return soundSelShared
	}
	return soundSelNone
}

// progLowAddr maps a low-half program-ROM access to an offset within
// the 32 KB banked ROM image. The program bank bit is the top image
// address bit: bank 0 exposes the first 16 KB, bank 1 the second.
func progLowAddr(addr uint16, progBank uint8) uint32 {
	return uint32(progBank&1)<<14 | uint32(addr&0x3FFF)
}

// progHighAddr maps a high-half program-ROM access to an offset within
// the fixed 16 KB ROM image holding the vectors.
func progHighAddr(addr uint16) uint32 {
	return uint32(addr & 0x3FFF)
}
