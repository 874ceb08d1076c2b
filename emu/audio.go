package emu

import "math"

const (
	sampleRate = 48000
	// The master clock is an exact multiple of the host sample rate, so
	// output decimation is a plain counter.
	sampleDiv = MasterClockHz / sampleRate

	lpfCutoffHz = 7200.0
	dcCutoffHz  = 20.0
)

// synthRateHz is the synthesizer enable rate in Hz.
var synthRateHz = float64(MasterClockHz) * synthCenN / synthCenM

// Smoothing factors for the first-order RC stages, derived from
// alpha = dt / (RC + dt) with RC = 1/(2*pi*fc). The DC tracker runs at
// the half-rate enable.
var (
	lpfAlpha = 1.0 / (synthRateHz/(2*math.Pi*lpfCutoffHz) + 1)
	dcAlpha  = 1.0 / ((synthRateHz/2)/(2*math.Pi*dcCutoffHz) + 1)
)

// Synth is the sound synthesizer, a black-box bus slave on the sound
// CPU bus. Step advances it by one synthesizer enable and returns its
// current signed stereo output lines.
type Synth interface {
	Reset()
	Read(addr uint16) uint8
	Write(addr uint16, data uint8)
	Step() (l, r int16)
}

// silentSynth is the default synthesizer: register writes are accepted
// and dropped, status reads report never-busy, output is silence.
type silentSynth struct{}

func (silentSynth) Reset() {}

func (silentSynth) Read(uint16) uint8 { return 0 }

func (silentSynth) Write(uint16, uint8) {}

func (silentSynth) Step() (int16, int16) { return 0, 0 }

// FilterChain is the analog post-filter path between the synthesizer
// and the board edge. Per synthesizer enable it attenuates both
// channels by 6 dB, tracks and removes DC from the unattenuated signal
// at the half-rate enable, low-pass filters whichever of those two
// paths the bootleg flag selects, and optionally folds the result to
// mono.
type FilterChain struct {
	bootleg bool
	mono    bool

	dcL, dcR float64 // running DC estimate, unsigned domain
	hpL, hpR float64 // high-pass outputs, held between half enables
	lpL, lpR float64
}

// NewFilterChain builds the chain. bootleg selects the extra high-pass
// stage as the low-pass input; mono folds the output.
func NewFilterChain(bootleg, mono bool) *FilterChain {
	return &FilterChain{bootleg: bootleg, mono: mono}
}

// SetBootleg switches which path feeds the low-pass stage.
func (f *FilterChain) SetBootleg(bootleg bool) { f.bootleg = bootleg }

// SetMono switches the mono fold.
func (f *FilterChain) SetMono(mono bool) { f.mono = mono }

// Reset clears all filter state.
func (f *FilterChain) Reset() {
	f.dcL, f.dcR = 0, 0
	f.hpL, f.hpR = 0, 0
	f.lpL, f.lpR = 0, 0
}

// Step advances the chain by one synthesizer enable. l and r are the
// synthesizer's current output lines; half is the half-rate enable.
func (f *FilterChain) Step(l, r int16, half bool) (int16, int16) {
	attL := float64(l >> 1)
	attR := float64(r >> 1)

	if half {
		uL := float64(int32(l) + 32768)
		uR := float64(int32(r) + 32768)
		f.dcL += dcAlpha * (uL - f.dcL)
		f.dcR += dcAlpha * (uR - f.dcR)
		f.hpL = uL - f.dcL
		f.hpR = uR - f.dcR
	}

	inL, inR := attL, attR
	if f.bootleg {
		inL, inR = f.hpL, f.hpR
	}
	f.lpL = lpfAlpha*inL + (1-lpfAlpha)*f.lpL
	f.lpR = lpfAlpha*inR + (1-lpfAlpha)*f.lpR

	outL := int16(clampInt32(int32(math.Round(f.lpL)), -32768, 32767))
	outR := int16(clampInt32(int32(math.Round(f.lpR)), -32768, 32767))

	if f.mono {
		m := outL/2 + outR/2
		return m, m
	}
	return outL, outR
}

// clampInt32 clamps v to [min, max].
func clampInt32(v, min, max int32) int32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
