package emu

// Master clock and derived enable rates. The whole board advances in
// lock-step with the master clock; every lower-frequency "clock" is an
// enable pulse evaluated once per master tick.
const (
	// MasterClockHz is the nominal board crystal (49.152 MHz).
	MasterClockHz = 49152000

	pixelDiv = 8  // 6.144 MHz pixel enable
	fetchDiv = 16 // 3.072 MHz graphics-fetch enable

	// Synthesizer clock approximated by the fractional divider below.
	// 3.579545 MHz / 49.152 MHz reduces to 715909 / 9830400.
	synthCenN = 715909
	synthCenM = 9830400

	// Divisor pair for the 60 Hz-normalized timing mode. The master rate
	// is stretched so a frame lands exactly on 1/60 s, and the synth
	// divider is reselected to keep its absolute rate at 3.579545 MHz.
	synthCenAltM = 9960192
)

// Four-phase CPU bus sequencer slots. The two 6809s run quadrature E/Q
// clocks offset by two slots so their bus activity never overlaps.
const (
	phaseQMain = iota
	phaseEMain
	phaseQSound
	phaseESound
)

// Enables is the set of enable pulses derived from one master tick.
// At most one of the four CPU phase pulses is set per tick.
type Enables struct {
	Pix   bool // 6.144 MHz pixel enable
	Fetch bool // 3.072 MHz fetch-arbiter enable

	QMain  bool // main CPU Q phase
	EMain  bool // main CPU E phase (bus-cycle anchor)
	QSound bool // sound CPU Q phase
	ESound bool // sound CPU E phase (bus-cycle anchor)

	Synth     bool // ~3.579545 MHz synthesizer enable
	SynthHalf bool // ~1.789772 MHz enable for the DC-removal stage
}

// fracCen is an accumulate-and-overflow (error feedback) fractional
// divider. Each master tick it adds n to the accumulator; an overflow
// past m emits the full-rate pulse, and every second full-rate pulse
// emits the half-rate pulse. A plain counter cannot hit 3.579545 MHz
// from 49.152 MHz; the accumulator keeps long-run phase exact.
type fracCen struct {
	n, m  uint32
	acc   uint32
	count uint32
}

func (f *fracCen) reset() {
	f.acc = 0
	f.count = 0
}

func (f *fracCen) tick() (full, half bool) {
	f.acc += f.n
	if f.acc >= f.m {
		f.acc -= f.m
		full = true
		f.count++
		half = f.count&1 == 0
	}
	return
}

// ClockGen derives every enable pulse on the board from the master clock.
type ClockGen struct {
	div   uint32 // master tick counter for the integer divisors
	phase uint8  // four-phase CPU sequencer, advanced on the pixel enable
	synth fracCen
}

// NewClockGen creates a clock generator. altTiming selects the
// 60 Hz-normalized divisor pair instead of the native one.
func NewClockGen(altTiming bool) *ClockGen {
	c := &ClockGen{}
	c.SetTiming(altTiming)
	return c
}

// SetTiming reselects the synthesizer divisor pair. The accumulator is
// cleared so the new ratio starts phase-aligned.
func (c *ClockGen) SetTiming(altTiming bool) {
	c.synth.n = synthCenN
	if altTiming {
		c.synth.m = synthCenAltM
	} else {
		c.synth.m = synthCenM
	}
	c.synth.reset()
}

// Reset returns all counters to their power-on state. The divisor pair
// selection is configuration, not register state, and survives reset.
func (c *ClockGen) Reset() {
	c.div = 0
	c.phase = 0
	c.synth.reset()
}

// Tick advances one master clock edge and returns the enables for it.
func (c *ClockGen) Tick() Enables {
	var en Enables

	c.div++
	en.Pix = c.div%pixelDiv == 0
	en.Fetch = c.div%fetchDiv == 0

	if en.Pix {
		switch c.phase {
		case phaseQMain:
			en.QMain = true
		case phaseEMain:
			en.EMain = true
		case phaseQSound:
			en.QSound = true
		case phaseESound:
			en.ESound = true
		}
		c.phase = (c.phase + 1) & 3
	}

	en.Synth, en.SynthHalf = c.synth.tick()
	return en
}
