package emu

import emucore "github.com/user-none/eblitui/api"

// Region is an alias for emucore.Region so internal code compiles unchanged.
// Arcade boards have no region lockout; the core always reports NTSC and
// display timing is governed by the alternate-timing selector instead.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// DetectRegion reports the region for a ROM image. The board generates
// its own display timing, so every image is NTSC.
func DetectRegion(rom []byte) Region {
	return RegionNTSC
}

// Variant selects which board population the core reproduces, mapping
// the 2-bit compatibility selector on the board edge.
type Variant uint8

const (
	VariantJackal        Variant = iota // genuine board
	VariantTopGunner                    // genuine board, rotary joysticks
	VariantBootleg                      // bootleg: extra sound filter, no forced blank
	VariantBootlegRotary                // bootleg with rotary joysticks
)

// Bootleg reports whether the variant carries the bootleg filter stage
// and disables the forced-blank compositing rule.
func (v Variant) Bootleg() bool {
	return v == VariantBootleg || v == VariantBootlegRotary
}

// Rotary reports whether the variant wires rotary joysticks into the
// player input sub-regions.
func (v Variant) Rotary() bool {
	return v == VariantTopGunner || v == VariantBootlegRotary
}

// VariantFromOption maps a core option string to a Variant.
func VariantFromOption(value string) Variant {
	switch value {
	case "topgunner":
		return VariantTopGunner
	case "bootleg":
		return VariantBootleg
	case "bootleg_rotary":
		return VariantBootlegRotary
	default:
		return VariantJackal
	}
}

// BoardTiming holds frame timing for one timing mode. The tick count
// per frame never changes; the alternate mode stretches the master
// clock so a frame lands exactly on 1/60 s.
type BoardTiming struct {
	FPS           int
	Scanlines     int
	TicksPerFrame int
}

// Native timing: 6.144 MHz pixel clock, 396x262 raster, ~59.2 Hz.
var nativeTiming = BoardTiming{
	FPS:           59,
	Scanlines:     vTotal,
	TicksPerFrame: hTotal * vTotal * pixelDiv,
}

// Normalized timing: same raster, master clock stretched to 60 Hz for
// displays that cannot track the native rate.
var normalizedTiming = BoardTiming{
	FPS:           60,
	Scanlines:     vTotal,
	TicksPerFrame: hTotal * vTotal * pixelDiv,
}

// GetTiming returns the timing table for the selected mode.
func GetTiming(altTiming bool) BoardTiming {
	if altTiming {
		return normalizedTiming
	}
	return nativeTiming
}
