package emu

// paletteEntries is the composited color space: two 4-bit codes.
const paletteEntries = 256

// ComposeIndex merges the two controllers' 5-bit color outputs into the
// 8-bit palette address. Bit 4 of each input is the secondary flag.
//
//	both secondary   -> {code1, code0}, the combined tile blend space
//	one primary      -> fixed pattern 0x10 (controller 0) or 0x20
//	                    (controller 1) over that controller's code
//	both primary     -> controller 0 wins
func ComposeIndex(c0, c1 uint8) uint8 {
	code0 := c0 & 0x0F
	code1 := c1 & 0x0F
	sec0 := c0&0x10 != 0
	sec1 := c1&0x10 != 0

	switch {
	case sec0 && sec1:
		return code1<<4 | code0
	case !sec0:
		return 0x10 | code0
	default:
		return 0x20 | code1
	}
}

// Palette is the color RAM and DAC chip. The sound CPU writes entries
// bytewise; a write latches on the strobe and lands in RAM one bus
// phase later, so readback within the same phase still sees the old
// byte. Entries are 15-bit xBBBBBGGGGGRRRRR.
type Palette struct {
	ram [paletteEntries * 2]uint8

	pendAddr  uint16
	pendData  uint8
	pendValid bool

	// The bootleg palette daughterboard omits the blanking gate that
	// forces black when both controllers output code zero.
	blankDisabled bool
}

// NewPalette creates the palette chip. bootleg disables the combined
// code-zero blanking gate.
func NewPalette(bootleg bool) *Palette {
	return &Palette{blankDisabled: bootleg}
}

// SetBootleg switches the blanking gate at runtime.
func (p *Palette) SetBootleg(bootleg bool) {
	p.blankDisabled = bootleg
}

// Reset drops any pending write. Color RAM keeps its contents.
func (p *Palette) Reset() {
	p.pendValid = false
}

// Read returns a committed palette byte.
func (p *Palette) Read(addr uint16) uint8 {
	return p.ram[addr&(paletteEntries*2-1)]
}

// Write latches a byte write. It commits on the next Tick.
func (p *Palette) Write(addr uint16, data uint8) {
	p.pendAddr = addr & (paletteEntries*2 - 1)
	p.pendData = data
	p.pendValid = true
}

// Tick commits a latched write. The board calls this one bus phase
// after the write strobe.
func (p *Palette) Tick() {
	if p.pendValid {
		p.ram[p.pendAddr] = p.pendData
		p.pendValid = false
	}
}

// dac5 expands a 5-bit DAC level to 8 bits.
func dac5(v uint16) uint8 {
	v &= 0x1F
	return uint8(v<<3 | v>>2)
}

// Pixel composites the two controllers' color outputs and resolves them
// through color RAM and the DACs. When both controllers emit code zero
// the output is forced black, unless the bootleg gate removal is in
// effect.
func (p *Palette) Pixel(c0, c1 uint8) (r, g, b uint8) {
	if !p.blankDisabled && c0&0x0F == 0 && c1&0x0F == 0 {
		return 0, 0, 0
	}
	idx := uint16(ComposeIndex(c0, c1)) * 2
	entry := uint16(p.ram[idx]) | uint16(p.ram[idx+1])<<8
	return dac5(entry), dac5(entry >> 5), dac5(entry >> 10)
}
