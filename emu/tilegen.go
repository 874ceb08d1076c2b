package emu

// Raster geometry. Both tilegen instances run the same 396x262 raster
// off the 6.144 MHz pixel enable; only instance 0's sync outputs are
// wired off-chip.
const (
	hTotal  = 396
	vTotal  = 262
	hActive = 240
	vActive = 224

	hSyncStart = 268
	hSyncWidth = 32
	vSyncStart = 240
	vSyncLines = 8

	tileRAMSize   = 0x1000
	spriteRAMSize = 0x1000

	// ScreenWidth and ScreenHeight are the visible raster.
	ScreenWidth  = hActive
	ScreenHeight = vActive
)

// spriteCount is how many sprite slots one RAM page holds.
const spriteCount = 64

// TileGen is one of the two custom video/timing chips. Each instance is
// a bus slave (registers, tile RAM, sprite RAM) plus an autonomous
// pixel-timing engine producing a 5-bit color index per pixel enable.
//
// The color index carries 4 code bits plus a secondary flag (bit 4):
// flag low means the pixel comes from the sprite plane (opaque), flag
// high means the tile plane (secondary). The 4-bit raw code the chip
// classifies is fed back into its own color-lookup input; there is no
// external lookup PROM.
type TileGen struct {
	index     int // 0 drives the shared sync outputs
	timingRef bool

	romWord func(uint32) uint16 // sprite-slot ROM access within this chip's channel half

	regs      [8]uint8
	tileRAM   [tileRAMSize]uint8
	spriteRAM [spriteRAMSize]uint8

	// Centering and compatibility inputs; wired on instance 0 only.
	hAdjust int
	vAdjust int
	compat  bool

	h int
	v int

	// Tile fetch pipeline. The presented address is registered by the
	// fetch arbiter; the fetched word arrives via SetFetchData and is
	// shifted out four pixels at a time.
	tileFetchAddr   uint16 // 14-bit word address presented to the arbiter
	spriteFetchAddr uint16 // 14-bit address of the last sprite slot access
	fetchData       uint16 // arbiter result register
	pixelWord       uint16 // shift word for the current 4-pixel group
	attrLines       uint8  // extra color bits riding the idle RAM data lines

	// Color pipeline, two-phase: raw classification computed first,
	// committed color readable by the compositor afterwards.
	rawCode  uint8
	colorOut uint8

	lineBuf [ScreenWidth]uint8 // sprite line buffer for the next line

	linePulse   bool
	vblankStart bool
}

// NewTileGen creates one controller instance. romWord resolves sprite
// slot reads inside this chip's half of the graphics ROM.
func NewTileGen(index int, romWord func(uint32) uint16) *TileGen {
	return &TileGen{
		index:     index,
		timingRef: index == 0,
		romWord:   romWord,
	}
}

// Reset returns counters, registers and pipelines to power-on state.
// Tile and sprite RAM are not cleared; the hardware leaves them as-is.
func (t *TileGen) Reset() {
	t.regs = [8]uint8{}
	t.h = 0
	t.v = 0
	t.tileFetchAddr = 0
	t.spriteFetchAddr = 0
	t.fetchData = 0
	t.pixelWord = 0
	t.attrLines = 0
	t.rawCode = 0
	t.colorOut = 0
	t.lineBuf = [ScreenWidth]uint8{}
	t.linePulse = false
	t.vblankStart = false
}

// SetCentering applies the 4-bit horizontal and vertical adjustment
// inputs. Only instance 0 has these pins wired.
func (t *TileGen) SetCentering(h, v uint8) {
	if !t.timingRef {
		return
	}
	t.hAdjust = int(h&0x0F) - 8
	t.vAdjust = int(v&0x0F) - 8
}

// SetCompat drives the compatibility-mode pin (instance 0 only). The
// pin is latched but has no effect on the pixel stream in this model:
// the bootleg boards' visible differences live in the palette blanking
// gate and the audio filter chain, not inside this chip.
func (t *TileGen) SetCompat(flag bool) {
	if t.timingRef {
		t.compat = flag
	}
}

// Compat reports the latched compatibility pin.
func (t *TileGen) Compat() bool { return t.compat }

// Register file:
//
//	0  scroll X low 8 bits
//	1  bit 0: scroll X bit 8, bit 1: display enable
//	2  scroll Y
//	3  control (unused bits latch and read back)
//	4  bit 0: sprite RAM page select

// WriteReg writes the register window. Both chips sit on the bus in
// parallel for this window, so the board calls both.
func (t *TileGen) WriteReg(addr uint16, data uint8) {
	t.regs[addr&7] = data
}

// ReadReg reads the register window.
func (t *TileGen) ReadReg(addr uint16) uint8 {
	return t.regs[addr&7]
}

// WriteTile writes tile RAM: codes in the low half, attributes in the
// high half.
func (t *TileGen) WriteTile(addr uint16, data uint8) {
	t.tileRAM[addr&(tileRAMSize-1)] = data
}

// ReadTile reads tile RAM.
func (t *TileGen) ReadTile(addr uint16) uint8 {
	return t.tileRAM[addr&(tileRAMSize-1)]
}

// WriteSprite writes sprite RAM.
func (t *TileGen) WriteSprite(addr uint16, data uint8) {
	t.spriteRAM[addr&(spriteRAMSize-1)] = data
}

// ReadSprite reads sprite RAM.
func (t *TileGen) ReadSprite(addr uint16) uint8 {
	return t.spriteRAM[addr&(spriteRAMSize-1)]
}

func (t *TileGen) scrollX() int {
	return int(t.regs[0]) | int(t.regs[1]&1)<<8
}

func (t *TileGen) scrollY() int {
	return int(t.regs[2])
}

func (t *TileGen) displayEnabled() bool {
	return t.regs[1]&0x02 != 0
}

func (t *TileGen) spritePage() uint16 {
	return uint16(t.regs[4]&1) * 0x800
}

// TileFetchAddr is the 14-bit tile word address presented to the fetch
// arbiter this tick.
func (t *TileGen) TileFetchAddr() uint16 { return t.tileFetchAddr }

// SpriteFetchAddr is the 14-bit address of the chip's most recent
// sprite slot access.
func (t *TileGen) SpriteFetchAddr() uint16 { return t.spriteFetchAddr }

// SetFetchData registers a fetched tile word. The arbiter calls this
// one cycle after the address was presented, or later when the external
// channel is slow; a late word simply leaves stale pixels.
func (t *TileGen) SetFetchData(w uint16) { t.fetchData = w }

// AttrLines returns the two extra color bits for the tile group whose
// fetch address is currently presented.
func (t *TileGen) AttrLines() uint8 { return t.attrLines }

// ColorOut returns the committed 5-bit color index for this tick.
func (t *TileGen) ColorOut() uint8 { return t.colorOut }

// LinePulse is the once-per-line timing anchor, asserted for one pixel
// enable at the start of horizontal blanking.
func (t *TileGen) LinePulse() bool { return t.linePulse }

// HBlank reports horizontal blanking.
func (t *TileGen) HBlank() bool { return t.h >= hActive }

// VBlank reports vertical blanking.
func (t *TileGen) VBlank() bool { return t.v >= vActive }

// HSync reports the horizontal sync pulse, shifted by the centering
// adjustment.
func (t *TileGen) HSync() bool {
	start := hSyncStart + t.hAdjust
	return t.h >= start && t.h < start+hSyncWidth
}

// VSync reports the vertical sync pulse, shifted by the centering
// adjustment.
func (t *TileGen) VSync() bool {
	start := vSyncStart + t.vAdjust
	return t.v >= start && t.v < start+vSyncLines
}

// CSync is the composite sync output.
func (t *TileGen) CSync() bool { return t.HSync() != t.VSync() }

// VBlankStart is a one-tick pulse at the first tick of vertical
// blanking, used by the board as the interrupt source.
func (t *TileGen) VBlankStart() bool { return t.vblankStart }

// HPos and VPos expose the raster counters for framebuffer assembly.
func (t *TileGen) HPos() int { return t.h }
func (t *TileGen) VPos() int { return t.v }
