package emu

import (
	"strconv"

	emucore "github.com/user-none/eblitui/api"
)

// Core identity, reported through the adapter.
const (
	Name    = "emjackal"
	Version = "0.1.0"

	MaxScreenHeight = ScreenHeight
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Emulator)(nil)
var _ emucore.SaveStater = (*Emulator)(nil)
var _ emucore.BatterySaver = (*Emulator)(nil)
var _ emucore.MemoryInspector = (*Emulator)(nil)
var _ emucore.MemoryMapper = (*Emulator)(nil)

// Flat address boundaries for ReadMemory.
const (
	sharedRAMStart = 0x000000
	sharedRAMEnd   = sharedRAMStart + sharedRAMSize - 1
	paletteStart   = 0x002000
	paletteEnd     = paletteStart + paletteEntries*2 - 1
)

// Emulator is the whole board: every chip advances in lock-step with
// the master clock, gated by the enables the clock generator derives.
type Emulator struct {
	clock  *ClockGen
	rom    *ROMSet
	dpram  *DPRAM
	io     *IO
	tg     [2]*TileGen
	arb    *FetchArbiter
	gfxMem *ROMGfxMemory
	pal    *Palette
	synth  Synth
	filter *FilterChain

	mainCPU  BusMaster
	soundCPU BusMaster

	// Bank bits as last sampled, plus the write waiting for the next
	// pixel enable.
	banks         bankState
	bankPend      uint8
	bankPendValid bool

	// Data latched for each CPU's next cycle.
	mainData  uint8
	soundData uint8

	variant   Variant
	region    Region
	altTiming bool
	timing    BoardTiming
	dip       uint32
	hCenter   uint8
	vCenter   uint8
	paused    bool

	// Interrupt line levels as last driven.
	irqMain  bool
	irqSound bool

	// Current filter chain output, decimated into audioBuffer.
	audioL     int16
	audioR     int16
	sampleTick int

	audioBuffer []int16
	framebuffer []byte
}

// NewEmulator builds the board around a combined ROM image.
func NewEmulator(rom []byte, region Region) (Emulator, error) {
	romset := &ROMSet{}
	if err := romset.LoadImage(rom); err != nil {
		return Emulator{}, err
	}

	// Each controller's sprite slots read from its own channel half.
	chanWord := func(half uint32) func(uint32) uint16 {
		return func(w uint32) uint16 {
			return romset.GfxWord(half<<16 | w&0xFFFF)
		}
	}
	tg0 := NewTileGen(0, chanWord(0))
	tg1 := NewTileGen(1, chanWord(1))
	gfxMem := NewROMGfxMemory(romset)

	return Emulator{
		clock:       NewClockGen(false),
		rom:         romset,
		dpram:       NewDPRAM(),
		io:          NewIO(VariantJackal),
		tg:          [2]*TileGen{tg0, tg1},
		arb:         NewFetchArbiter(gfxMem, tg0, tg1),
		gfxMem:      gfxMem,
		pal:         NewPalette(false),
		synth:       silentSynth{},
		filter:      NewFilterChain(false, false),
		mainCPU:     idleMaster{},
		soundCPU:    idleMaster{},
		variant:     VariantJackal,
		region:      region,
		dip:         dipDefault,
		timing:      GetTiming(false),
		hCenter:     8,
		vCenter:     8,
		audioBuffer: make([]int16, 0, 2048),
		framebuffer: make([]byte, ScreenWidth*ScreenHeight*4),
	}, nil
}

// AttachCPU plugs a main CPU core into its socket. nil restores the
// idle placeholder.
func (e *Emulator) AttachCPU(cpu BusMaster) {
	if cpu == nil {
		cpu = idleMaster{}
	}
	e.mainCPU = cpu
}

// AttachSoundCPU plugs a sound CPU core into its socket.
func (e *Emulator) AttachSoundCPU(cpu BusMaster) {
	if cpu == nil {
		cpu = idleMaster{}
	}
	e.soundCPU = cpu
}

// AttachSynth plugs a synthesizer into its socket.
func (e *Emulator) AttachSynth(s Synth) {
	if s == nil {
		s = silentSynth{}
	}
	e.synth = s
}

// Reset drives the board reset line: every chip returns to power-on
// state. ROM contents, inputs, DIP switches and configuration survive.
func (e *Emulator) Reset() {
	e.clock.Reset()
	e.dpram.Reset()
	e.io.Reset()
	e.tg[0].Reset()
	e.tg[1].Reset()
	e.arb.Reset()
	e.pal.Reset()
	e.filter.Reset()
	e.synth.Reset()
	e.mainCPU.Reset()
	e.soundCPU.Reset()

	e.banks = bankState{}
	e.bankPendValid = false
	e.mainData = 0
	e.soundData = 0
	e.irqMain = false
	e.irqSound = false
	e.audioL = 0
	e.audioR = 0
	e.sampleTick = 0
}

// Step advances the whole board by one master clock edge. Update order
// within a tick is fixed: bank sample, video, fetch channel, bus
// cycles, audio. Registers written during a tick are seen next tick.
func (e *Emulator) Step() {
	en := e.clock.Tick()

	if en.Pix {
		e.commitBank()

		h, v := e.tg[0].HPos(), e.tg[0].VPos()
		e.tg[0].TickPixel()
		e.tg[1].TickPixel()
		e.arb.TickPixel(e.tg[0].LinePulse())

		if h < ScreenWidth && v < ScreenHeight {
			r, g, b := e.pal.Pixel(e.tg[0].ColorOut(), e.tg[1].ColorOut())
			off := (v*ScreenWidth + h) * 4
			e.framebuffer[off] = r
			e.framebuffer[off+1] = g
			e.framebuffer[off+2] = b
			e.framebuffer[off+3] = 0xFF
		}

		e.updateIRQLines()
	}

	if en.Fetch {
		e.arb.TickFetch()
	}

	if en.QMain {
		// Palette write strobes land one bus phase after the sound
		// CPU's E, which is this slot.
		e.pal.Tick()
	}
	if en.EMain {
		e.busCycleMain()
	}
	if en.ESound {
		e.busCycleSound()
	}

	if en.Synth {
		l, r := e.synth.Step()
		e.audioL, e.audioR = e.filter.Step(l, r, en.SynthHalf)
	}

	e.sampleTick++
	if e.sampleTick == sampleDiv {
		e.sampleTick = 0
		e.audioBuffer = append(e.audioBuffer, e.audioL, e.audioR)
	}
}

// updateIRQLines drives both CPUs' IRQ inputs from the V-blank level,
// masked by the interrupt enable register.
func (e *Emulator) updateIRQLines() {
	vb := e.tg[0].VBlank()

	main := vb && e.io.MainIRQEnabled()
	if main != e.irqMain {
		e.irqMain = main
		e.mainCPU.SetIRQ(main)
	}

	sound := vb && e.io.SoundIRQEnabled()
	if sound != e.irqSound {
		e.irqSound = sound
		e.soundCPU.SetIRQ(sound)
	}
}

// RunFrame executes one frame of emulation.
func (e *Emulator) RunFrame() {
	e.audioBuffer = e.audioBuffer[:0]
	if e.paused {
		return
	}

	for i := 0; i < e.timing.TicksPerFrame; i++ {
		e.Step()
	}

	if e.io.TickFrame() {
		// Watchdog expired: the board resets itself.
		e.Reset()
	}
}

// SetPaused drives the pause/halt input. A paused board holds all
// state and produces no audio.
func (e *Emulator) SetPaused(paused bool) {
	e.paused = paused
}

// Button bit assignments for SetInput. Directions follow the common
// emucore layout; the rest are board-specific.
const (
	ButtonFire1   = 4
	ButtonFire2   = 5
	ButtonStart   = 7
	ButtonCoin    = 8
	ButtonRotCCW  = 9
	ButtonRotCW   = 10
	ButtonService = 11
)

// SetInput unpacks a button bitmask and sets input state for a player.
func (e *Emulator) SetInput(player int, buttons uint32) {
	up := buttons&(1<<emucore.ButtonUp) != 0
	down := buttons&(1<<emucore.ButtonDown) != 0
	left := buttons&(1<<emucore.ButtonLeft) != 0
	right := buttons&(1<<emucore.ButtonRight) != 0
	b1 := buttons&(1<<ButtonFire1) != 0
	b2 := buttons&(1<<ButtonFire2) != 0
	start := buttons&(1<<ButtonStart) != 0
	coin := buttons&(1<<ButtonCoin) != 0
	ccw := buttons&(1<<ButtonRotCCW) != 0
	cw := buttons&(1<<ButtonRotCW) != 0
	service := buttons&(1<<ButtonService) != 0

	switch player {
	case 0:
		e.io.InputP1.Set(up, down, left, right, b1, b2, start, ccw, cw)
		e.io.Coin1 = coin
		e.io.Service = service
	case 1:
		e.io.InputP2.Set(up, down, left, right, b1, b2, start, ccw, cw)
		e.io.Coin2 = coin
	}
}

// SetVariant reconfigures the board variant. The bootleg flag fans out
// to the filter chain, the palette blanking gate and the primary
// controller's compatibility pin.
func (e *Emulator) SetVariant(v Variant) {
	e.variant = v
	e.io.SetVariant(v)
	e.pal.SetBootleg(v.Bootleg())
	e.filter.SetBootleg(v.Bootleg())
	e.tg[0].SetCompat(v.Bootleg())
}

// GetVariant returns the configured board variant.
func (e *Emulator) GetVariant() Variant {
	return e.variant
}

// SetAltTiming switches between native and 60 Hz-normalized timing.
func (e *Emulator) SetAltTiming(alt bool) {
	e.altTiming = alt
	e.clock.SetTiming(alt)
	e.timing = GetTiming(alt)
}

// SetHiscorePort drives the shared-RAM side channel for one access.
func (e *Emulator) SetHiscorePort(addr uint16, data uint8, write, enable bool) {
	e.dpram.SetHiscorePort(addr, data, write, enable)
}

// HiscoreReadData returns the side channel's captured read data.
func (e *Emulator) HiscoreReadData() uint8 {
	return e.dpram.HiscoreReadData()
}

// Download feeds one byte of the ROM download stream.
func (e *Emulator) Download(addr uint32, data uint8) {
	e.rom.Download(addr, data)
}

// GetFramebuffer returns raw RGBA pixel data for the current frame.
func (e *Emulator) GetFramebuffer() []byte {
	return e.framebuffer
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (e *Emulator) GetFramebufferStride() int {
	return ScreenWidth * 4
}

// GetActiveHeight returns the active display height.
func (e *Emulator) GetActiveHeight() int {
	return ScreenHeight
}

// GetAudioSamples returns accumulated audio samples as 16-bit stereo PCM.
func (e *Emulator) GetAudioSamples() []int16 {
	return e.audioBuffer
}

// GetRegion returns the emulator's region setting.
func (e *Emulator) GetRegion() Region {
	return e.region
}

// SetRegion stores the region. An arcade board has no regional timing
// difference; frame pacing is governed by the alternate-timing selector.
func (e *Emulator) SetRegion(region Region) {
	e.region = region
}

// GetTiming returns FPS and scanline count for the current timing mode.
func (e *Emulator) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       e.timing.FPS,
		Scanlines: e.timing.Scanlines,
	}
}

// HasSRAM reports battery backing. The board's battery holds the
// shared work RAM so hiscores survive power-off.
func (e *Emulator) HasSRAM() bool {
	return true
}

// GetSRAM returns a copy of the battery-backed shared RAM.
func (e *Emulator) GetSRAM() []byte {
	out := make([]byte, sharedRAMSize)
	copy(out, e.dpram.mem[:])
	return out
}

// SetSRAM loads battery contents into the shared RAM.
func (e *Emulator) SetSRAM(data []byte) {
	copy(e.dpram.mem[:], data)
}

// GetSRAMSize returns the battery payload size.
func (e *Emulator) GetSRAMSize() int {
	return sharedRAMSize
}

// ReadSharedRAM reads a single byte from the shared work RAM without
// touching either port.
func (e *Emulator) ReadSharedRAM(addr uint16) byte {
	return e.dpram.mem[addr&sharedMask]
}

// GetSharedRAM returns a copy of the shared work RAM.
func (e *Emulator) GetSharedRAM() []byte {
	return e.GetSRAM()
}

// SetSharedRAM writes data into the shared work RAM.
func (e *Emulator) SetSharedRAM(data []byte) {
	copy(e.dpram.mem[:], data)
}

// Close releases any resources held by the emulator.
func (e *Emulator) Close() {}

// SetOption applies a core option change identified by key.
func (e *Emulator) SetOption(key string, value string) {
	switch key {
	case "variant":
		e.SetVariant(VariantFromOption(value))
	case "alternate_timing":
		e.SetAltTiming(value == "true")
	case "mono":
		e.filter.SetMono(value == "true")
	case "dsw1":
		e.setDIPByte(0, value)
	case "dsw2":
		e.setDIPByte(8, value)
	case "dsw3":
		e.setDIPByte(16, value)
	case "h_center":
		if v, err := strconv.ParseUint(value, 10, 8); err == nil {
			e.hCenter = uint8(v)
			e.tg[0].SetCentering(e.hCenter, e.vCenter)
		}
	case "v_center":
		if v, err := strconv.ParseUint(value, 10, 8); err == nil {
			e.vCenter = uint8(v)
			e.tg[0].SetCentering(e.hCenter, e.vCenter)
		}
	}
}

// setDIPByte parses one DIP bank. Base 0 so frontends can hand over
// either the decimal range value or a 0x-prefixed byte.
func (e *Emulator) setDIPByte(shift uint, value string) {
	v, err := strconv.ParseUint(value, 0, 8)
	if err != nil {
		return
	}
	e.dip = e.dip&^(0xFF<<shift) | uint32(v)<<shift
	e.io.SetDIPSwitches(e.dip)
}

// ReadMemory reads from a flat address into buf and returns the number
// of bytes read.
func (e *Emulator) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := addr + uint32(i)
		var b byte
		switch {
		case cur <= sharedRAMEnd:
			b = e.ReadSharedRAM(uint16(cur))
		case cur >= paletteStart && cur <= paletteEnd:
			b = e.pal.Read(uint16(cur - paletteStart))
		default:
			return count
		}
		buf[i] = b
		count++
	}
	return count
}

// MemoryMap returns a list of available memory regions with sizes.
func (e *Emulator) MemoryMap() []emucore.MemoryRegion {
	return []emucore.MemoryRegion{
		{Type: emucore.MemorySystemRAM, Size: sharedRAMSize},
		{Type: emucore.MemorySaveRAM, Size: sharedRAMSize},
	}
}

// ReadRegion returns a copy of the specified memory region.
func (e *Emulator) ReadRegion(regionType int) []byte {
	switch regionType {
	case emucore.MemorySystemRAM, emucore.MemorySaveRAM:
		return e.GetSharedRAM()
	default:
		return nil
	}
}

// WriteRegion writes data to the specified memory region.
func (e *Emulator) WriteRegion(regionType int, data []byte) {
	switch regionType {
	case emucore.MemorySystemRAM, emucore.MemorySaveRAM:
		e.SetSharedRAM(data)
	}
}
