//go:build !libretro && !ios

package main

import (
	"flag"
	"log"
	"strconv"

	"github.com/user-none/eblitui/standalone"
	"github.com/user-none/emjackal/adapter"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM file (opens UI if not provided)")
	variantFlag := flag.String("variant", "jackal", "board variant: jackal, topgunner, bootleg, or bootleg_rotary")
	altTiming := flag.Bool("alt-timing", false, "stretch the master clock to an exact 60 Hz frame rate")
	mono := flag.Bool("mono", false, "sum both audio channels to mono")
	flag.Parse()

	factory := &adapter.Factory{}

	if *romPath != "" {
		options := map[string]string{
			"variant":          *variantFlag,
			"alternate_timing": strconv.FormatBool(*altTiming),
			"mono":             strconv.FormatBool(*mono),
		}
		if err := standalone.RunDirect(factory, *romPath, "ntsc", options); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
