package main

import (
	libretro "github.com/user-none/eblitui/libretro"
	"github.com/user-none/emjackal/adapter"
	"github.com/user-none/emjackal/emu"
)

func init() {
	libretro.RegisterFactory(&adapter.Factory{}, []libretro.RetropadMapping{
		{RetroID: libretro.JoypadB, BitID: emu.ButtonFire1},
		{RetroID: libretro.JoypadA, BitID: emu.ButtonFire2},
		{RetroID: libretro.JoypadStart, BitID: emu.ButtonStart},
		{RetroID: libretro.JoypadSelect, BitID: emu.ButtonCoin},
		{RetroID: libretro.JoypadL, BitID: emu.ButtonRotCCW},
		{RetroID: libretro.JoypadR, BitID: emu.ButtonRotCW},
		{RetroID: libretro.JoypadY, BitID: emu.ButtonService},
	})
}

func main() {}
