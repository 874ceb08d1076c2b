package emu

// Input holds one player's control state. All board inputs are active
// low on the bus; this struct stores them active high and the read path
// inverts.
type Input struct {
	up, down, left, right bool
	btn1, btn2            bool
	start                 bool

	// Rotary joystick state (rotary variants only): an 8-position
	// encoder exposed one-hot on the bus. The ccw/cw flags are edge
	// detected so a held key advances one position per press.
	rotaryPos uint8
	lastCCW   bool
	lastCW    bool
}

// Set updates stick and button state. ccw/cw step the rotary encoder on
// their rising edges.
func (inp *Input) Set(up, down, left, right, btn1, btn2, start, ccw, cw bool) {
	inp.up = up
	inp.down = down
	inp.left = left
	inp.right = right
	inp.btn1 = btn1
	inp.btn2 = btn2
	inp.start = start

	if ccw && !inp.lastCCW {
		inp.rotaryPos = (inp.rotaryPos + 7) & 7
	}
	if cw && !inp.lastCW {
		inp.rotaryPos = (inp.rotaryPos + 1) & 7
	}
	inp.lastCCW = ccw
	inp.lastCW = cw
}

// watchdogTimeoutFrames is how many frames may elapse without a kick
// before the watchdog pulls board reset.
const watchdogTimeoutFrames = 8

// IO is the board's I/O window: system inputs, two player ports, the
// 20-bit DIP word, interrupt enables, coin counters and the watchdog.
type IO struct {
	InputP1 Input
	InputP2 Input

	Coin1   bool
	Coin2   bool
	Service bool

	variant Variant

	dsw1 uint8 // 8 switches
	dsw2 uint8 // 8 switches
	dsw3 uint8 // 4 switches, upper bits read back high

	irqEnable   uint8 // bit 0: main CPU V-blank IRQ, bit 1: sound CPU
	coinCounter [2]uint32

	watchdog int
}

// dipDefault is the factory DIP setting: open switch lines read back
// high, so all banks start with every switch off.
const dipDefault = 0x0FFFFF

// NewIO creates the I/O window for the given board variant.
func NewIO(variant Variant) *IO {
	io := &IO{variant: variant}
	io.SetDIPSwitches(dipDefault)
	return io
}

// Reset clears the latched registers. Input and DIP state model
// physical switches and survive reset.
func (io *IO) Reset() {
	io.irqEnable = 0
	io.watchdog = 0
}

// SetVariant swaps the board variant. Rotary routing takes effect on
// the next read.
func (io *IO) SetVariant(v Variant) {
	io.variant = v
}

// SetDIPSwitches unpacks the 20-bit DIP word: DSW1 in bits 7:0, DSW2 in
// bits 15:8, DSW3 in bits 19:16.
func (io *IO) SetDIPSwitches(word uint32) {
	io.dsw1 = uint8(word)
	io.dsw2 = uint8(word >> 8)
	io.dsw3 = uint8(word>>16) & 0x0F
}

// MainIRQEnabled reports whether the main CPU V-blank interrupt is
// unmasked.
func (io *IO) MainIRQEnabled() bool { return io.irqEnable&0x01 != 0 }

// SoundIRQEnabled reports whether the sound CPU V-blank interrupt is
// unmasked.
func (io *IO) SoundIRQEnabled() bool { return io.irqEnable&0x02 != 0 }

// Read returns the byte a CPU sees for a decoded I/O access.
func (io *IO) Read(sub uint8, addr uint16) uint8 {
	switch sub {
	case ioSubSystem:
		return io.readSystem()
	case ioSubP1:
		return io.readPlayer(&io.InputP1, addr)
	case ioSubP2:
		return io.readPlayer(&io.InputP2, addr)
	case ioSubDIP:
		switch addr & 3 {
		case 0:
			return io.dsw1
		case 1:
			return io.dsw2
		case 2:
			return io.dsw3 | 0xF0
		}
	}
	return 0xFF
}

// Write handles a decoded I/O write. The bank register lives in the bus
// (it steers addressing); everything else lands here.
func (io *IO) Write(sub uint8, addr uint16, data uint8) {
	switch sub {
	case ioSubSystem:
		// Bits 4/5 drive the coin counters; the mech pulses once per
		// accepted coin.
		if data&0x10 != 0 {
			io.coinCounter[0]++
		}
		if data&0x20 != 0 {
			io.coinCounter[1]++
		}
	case ioSubDIP:
		io.irqEnable = data & 0x03
		io.watchdog = 0
	}
}

// readSystem returns the coin/start/service byte, active low.
func (io *IO) readSystem() uint8 {
	var v uint8 = 0xFF
	if io.Coin1 {
		v &^= 0x01
	}
	if io.Coin2 {
		v &^= 0x02
	}
	if io.Service {
		v &^= 0x04
	}
	if io.InputP1.start {
		v &^= 0x08
	}
	if io.InputP2.start {
		v &^= 0x10
	}
	return v
}

// readPlayer returns a player port byte, active low. On rotary variants
// the odd address within the sub-region exposes the one-hot rotary
// position instead of the stick.
func (io *IO) readPlayer(inp *Input, addr uint16) uint8 {
	if io.variant.Rotary() && addr&1 != 0 {
		return ^(uint8(1) << (inp.rotaryPos & 7))
	}

	var v uint8 = 0xFF
	if inp.up {
		v &^= 0x01
	}
	if inp.down {
		v &^= 0x02
	}
	if inp.left {
		v &^= 0x04
	}
	if inp.right {
		v &^= 0x08
	}
	if inp.btn1 {
		v &^= 0x10
	}
	if inp.btn2 {
		v &^= 0x20
	}
	return v
}

// TickFrame advances the watchdog one frame and reports whether it
// expired. A decoded kick write restarts the count.
func (io *IO) TickFrame() (expired bool) {
	io.watchdog++
	if io.watchdog >= watchdogTimeoutFrames {
		io.watchdog = 0
		return true
	}
	return false
}
