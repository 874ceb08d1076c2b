package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	emubridge "github.com/user-none/emjackal/bridge/ebiten"
	"github.com/user-none/emjackal/cli"
	"github.com/user-none/emjackal/emu"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM file (required)")
	variantFlag := flag.String("variant", "jackal", "board variant: jackal, topgunner, bootleg, or bootleg_rotary")
	altTiming := flag.Bool("alt-timing", false, "stretch the master clock to an exact 60 Hz frame rate")
	mono := flag.Bool("mono", false, "sum both audio channels to mono")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("ROM path is required. Usage: emjackal -rom <path>")
	}

	romData, err := os.ReadFile(*romPath)
	if err != nil {
		log.Fatalf("Failed to load ROM: %v", err)
	}

	e, err := emubridge.NewEmulator(romData, emu.DetectRegion(romData))
	if err != nil {
		log.Fatalf("Failed to initialize emulator: %v", err)
	}

	e.SetVariant(emu.VariantFromOption(*variantFlag))
	e.SetOption("alternate_timing", strconv.FormatBool(*altTiming))
	e.SetOption("mono", strconv.FormatBool(*mono))

	// Load the battery-backed shared RAM save if it exists
	srmPath := strings.TrimSuffix(*romPath, filepath.Ext(*romPath)) + ".srm"
	if e.HasSRAM() {
		if data, err := os.ReadFile(srmPath); err == nil {
			e.SetSRAM(data)
		}
	}

	ebiten.SetWindowSize(emu.ScreenWidth*3, emu.ScreenHeight*3)
	ebiten.SetWindowTitle(emu.Name)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(emu.ScreenWidth, emu.ScreenHeight, -1, -1)
	ebiten.SetTPS(60)

	runner := cli.NewRunner(e)
	defer runner.Close()
	defer e.Close()

	// Save the battery-backed shared RAM on exit
	defer func() {
		if e.HasSRAM() {
			if data := e.GetSRAM(); data != nil {
				os.WriteFile(srmPath, data, 0644)
			}
		}
	}()

	if err := ebiten.RunGame(runner); err != nil {
		log.Fatal(err)
	}
}
