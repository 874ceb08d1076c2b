package emu

// Tile layout: a 64x32 map of 8x8 4bpp tiles. Codes live in the low 2 KB
// of tile RAM, attributes in the high 2 KB.
//
// Attribute byte:
//
//	bits 0-1  tile code bits 8-9
//	bits 2-3  extra color bits, driven onto the idle RAM data lines for
//	          the external attribute latch
//	bits 4-7  latched but unused
//
// An 8x8 4bpp tile is 16 words, two per row, so the 14-bit tile fetch
// address is {code[9:0], row[2:0], word}.

// Sprite slot layout, 8 bytes per slot, 64 slots per RAM page:
//
//	0  Y position
//	1  code
//	2  attribute (bits latched, unused)
//	3  X position
//	4-7 unused
//
// Sprites are 16x16 4bpp, 64 words apiece: address {code[7:0], row[3:0], word[1:0]}.

// TickPixel advances the controller by one pixel enable. Classification
// happens against the pipeline state from the previous tick; the
// committed color output changes only at the end of the tick.
func (t *TileGen) TickPixel() {
	t.linePulse = false
	t.vblankStart = false

	visible := t.h < hActive && t.v < vActive

	var raw uint8
	secondary := true

	if visible && t.displayEnabled() {
		wx := t.h + t.scrollX()
		if wx&3 == 0 {
			// World-aligned group boundary: consume the arbiter's
			// result register and present the address for the next
			// group. A stale result register shows stale pixels.
			t.pixelWord = t.fetchData
			t.presentTileFetch(wx+4, t.v+t.scrollY())
		}
		shift := uint(3-(wx&3)) * 4
		raw = uint8(t.pixelWord>>shift) & 0x0F

		if sp := t.lineBuf[t.h]; sp != 0 {
			raw = sp
			secondary = false
		}
	}

	t.rawCode = raw
	// Feedback: the chip's own lookup input is its raw code output.
	t.colorOut = t.classify(t.rawCode, secondary)

	t.h++
	if t.h == hActive {
		t.linePulse = true
		t.evalSprites(t.v + 1)
	}
	if t.h == hTotal {
		t.h = 0
		t.v++
		if t.v == vActive {
			t.vblankStart = true
		}
		if t.v == vTotal {
			t.v = 0
		}
		// Prime the pipeline for the new line.
		if t.v < vActive && t.displayEnabled() {
			t.presentTileFetch(t.scrollX(), t.v+t.scrollY())
		}
	}
}

// classify maps a 4-bit raw code to the 5-bit color index. Bit 4 is the
// secondary flag: clear for sprite (opaque) pixels, set for tile pixels.
func (t *TileGen) classify(raw uint8, secondary bool) uint8 {
	c := raw & 0x0F
	if secondary {
		c |= 0x10
	}
	return c
}

// presentTileFetch computes the 14-bit word address for the 4-pixel
// group containing world coordinate (wx, wy) and drives the extra color
// bits onto the idle data lines.
func (t *TileGen) presentTileFetch(wx, wy int) {
	col := (wx >> 3) & 63
	row := (wy >> 3) & 31
	idx := uint16(row)<<6 | uint16(col)

	code := uint16(t.tileRAM[idx])
	attr := t.tileRAM[0x800|idx]
	code |= uint16(attr&0x03) << 8

	t.tileFetchAddr = code<<4 | uint16(wy&7)<<1 | uint16((wx>>2)&1)
	t.attrLines = (attr >> 2) & 0x03
}

// evalSprites scans the active sprite page during horizontal blanking
// and builds the line buffer for scanline line. Sprite data comes from
// the chip's own ROM channel half through the dedicated blanking slots,
// so it does not contend with tile fetches.
func (t *TileGen) evalSprites(line int) {
	t.lineBuf = [ScreenWidth]uint8{}
	if line >= vActive || !t.displayEnabled() {
		return
	}

	base := t.spritePage()
	for s := 0; s < spriteCount; s++ {
		slot := base + uint16(s)*8
		sy := int(t.spriteRAM[slot])
		row := line - sy
		if row < 0 || row > 15 {
			continue
		}
		code := uint16(t.spriteRAM[slot+1])
		sx := int(t.spriteRAM[slot+3])

		for w := 0; w < 4; w++ {
			t.spriteFetchAddr = code<<6 | uint16(row)<<2 | uint16(w)
			word := t.romWord(uint32(t.spriteFetchAddr))
			for p := 0; p < 4; p++ {
				x := sx + w*4 + p
				if x >= ScreenWidth {
					break
				}
				pix := uint8(word>>(uint(3-p)*4)) & 0x0F
				if pix != 0 && t.lineBuf[x] == 0 {
					t.lineBuf[x] = pix
				}
			}
		}
	}
}
