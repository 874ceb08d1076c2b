package adapter

import (
	emucore "github.com/user-none/eblitui/api"
	"github.com/user-none/emjackal/emu"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the Jackal board emulator.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            "emjackal",
		ConsoleName:     "Konami Jackal",
		Extensions:      []string{".jkl", ".bin"},
		ScreenWidth:     emu.ScreenWidth,
		MaxScreenHeight: emu.MaxScreenHeight,
		AspectRatio:     240.0 / 224.0,
		SampleRate:      48000,
		Buttons: []emucore.Button{
			{Name: "Fire 1", ID: emu.ButtonFire1, DefaultKey: "J", DefaultPad: "B"},
			{Name: "Fire 2", ID: emu.ButtonFire2, DefaultKey: "K", DefaultPad: "A"},
			{Name: "Start", ID: emu.ButtonStart, DefaultKey: "Enter", DefaultPad: "Start"},
			{Name: "Coin", ID: emu.ButtonCoin, DefaultKey: "C", DefaultPad: "Select"},
			{Name: "Rotate CCW", ID: emu.ButtonRotCCW, DefaultKey: "Q", DefaultPad: "L1"},
			{Name: "Rotate CW", ID: emu.ButtonRotCW, DefaultKey: "E", DefaultPad: "R1"},
			{Name: "Service", ID: emu.ButtonService, DefaultKey: "F2", DefaultPad: "Y"},
		},
		Players: 2,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         "variant",
				Label:       "Board Variant",
				Description: "Which board population to reproduce",
				Type:        emucore.CoreOptionSelect,
				Default:     "jackal",
				Values:      []string{"jackal", "topgunner", "bootleg", "bootleg_rotary"},
				Category:    emucore.CoreOptionCategoryCore,
			},
			{
				Key:         "alternate_timing",
				Label:       "Normalized 60 Hz Timing",
				Description: "Stretch the master clock so a frame lands exactly on 1/60 s",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
				Category:    emucore.CoreOptionCategoryVideo,
			},
			{
				Key:         "mono",
				Label:       "Mono Audio",
				Description: "Sum both output channels as the single-speaker cabinets do",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
				Category:    emucore.CoreOptionCategoryAudio,
			},
			{
				Key:         "dsw1",
				Label:       "DIP Bank 1",
				Description: "Coinage switches; open switches read back high",
				Type:        emucore.CoreOptionRange,
				Default:     "255",
				Min:         0,
				Max:         255,
				Step:        1,
				Category:    emucore.CoreOptionCategoryCore,
				PerGame:     true,
			},
			{
				Key:         "dsw2",
				Label:       "DIP Bank 2",
				Description: "Lives, difficulty and cabinet switches",
				Type:        emucore.CoreOptionRange,
				Default:     "255",
				Min:         0,
				Max:         255,
				Step:        1,
				Category:    emucore.CoreOptionCategoryCore,
				PerGame:     true,
			},
			{
				Key:         "dsw3",
				Label:       "DIP Bank 3",
				Description: "Four switches; the unused upper bits read back high",
				Type:        emucore.CoreOptionRange,
				Default:     "15",
				Min:         0,
				Max:         15,
				Step:        1,
				Category:    emucore.CoreOptionCategoryCore,
				PerGame:     true,
			},
			{
				Key:         "h_center",
				Label:       "Horizontal Centering",
				Description: "Sync position trim, 8 is the factory setting",
				Type:        emucore.CoreOptionRange,
				Default:     "8",
				Min:         0,
				Max:         15,
				Step:        1,
				Category:    emucore.CoreOptionCategoryVideo,
			},
			{
				Key:         "v_center",
				Label:       "Vertical Centering",
				Description: "Sync position trim, 8 is the factory setting",
				Type:        emucore.CoreOptionRange,
				Default:     "8",
				Min:         0,
				Max:         15,
				Step:        1,
				Category:    emucore.CoreOptionCategoryVideo,
			},
		},
		RDBName:       "MAME",
		ThumbnailRepo: "MAME",
		DataDirName:   "emjackal",
		CoreName:      emu.Name,
		CoreVersion:   emu.Version,
		SerializeSize: emu.SerializeSize(),
	}
}

// CreateEmulator creates a new emulator instance with the given ROM and region.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	e, err := emu.NewEmulator(rom, region)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DetectRegion auto-detects the region from ROM data. The bool return is
// false since the board has no region lockout and no database is consulted.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return emu.DetectRegion(rom), false
}
