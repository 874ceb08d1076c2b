package emu

import "testing"

func TestIO_SystemByteActiveLow(t *testing.T) {
	io := NewIO(VariantJackal)

	if got := io.Read(ioSubSystem, 0x0000); got != 0xFF {
		t.Errorf("idle system byte: got $%02X, want $FF", got)
	}

	io.Coin1 = true
	io.InputP1.start = true
	got := io.Read(ioSubSystem, 0x0000)
	if got&0x01 != 0 {
		t.Errorf("coin 1 bit not asserted: $%02X", got)
	}
	if got&0x08 != 0 {
		t.Errorf("start 1 bit not asserted: $%02X", got)
	}
}

func TestIO_PlayerByte(t *testing.T) {
	io := NewIO(VariantJackal)
	io.InputP1.Set(true, false, false, true, true, false, false, false, false)

	got := io.Read(ioSubP1, 0x0004)
	// up (bit 0), right (bit 3) and button 1 (bit 4) low, rest high.
	if want := uint8(0xFF &^ (0x01 | 0x08 | 0x10)); got != want {
		t.Errorf("P1 byte: got $%02X, want $%02X", got, want)
	}

	// Player 2 independent.
	if got := io.Read(ioSubP2, 0x0008); got != 0xFF {
		t.Errorf("P2 byte: got $%02X, want $FF", got)
	}
}

func TestIO_DIPWord(t *testing.T) {
	io := NewIO(VariantJackal)
	io.SetDIPSwitches(0xC<<16 | 0x34AB)

	if got := io.Read(ioSubDIP, 0x001C); got != 0xAB {
		t.Errorf("DSW1: got $%02X, want $AB", got)
	}
	if got := io.Read(ioSubDIP, 0x001D); got != 0x34 {
		t.Errorf("DSW2: got $%02X, want $34", got)
	}
	if got := io.Read(ioSubDIP, 0x001E); got != 0xFC {
		t.Errorf("DSW3: got $%02X, want $FC (upper bits pulled high)", got)
	}
	if got := io.Read(ioSubDIP, 0x001F); got != 0xFF {
		t.Errorf("unused DIP address: got $%02X, want $FF", got)
	}
}

func TestIO_RotaryVariant(t *testing.T) {
	io := NewIO(VariantTopGunner)

	// Position 0 one-hot, active low.
	if got := io.Read(ioSubP1, 0x0005); got != uint8(^uint8(0x01)) {
		t.Errorf("rotary pos 0: got $%02X, want $FE", got)
	}

	// One CW edge advances one position; holding does not repeat.
	io.InputP1.Set(false, false, false, false, false, false, false, false, true)
	io.InputP1.Set(false, false, false, false, false, false, false, false, true)
	if got := io.Read(ioSubP1, 0x0005); got != uint8(^uint8(0x02)) {
		t.Errorf("rotary pos 1: got $%02X, want $FD", got)
	}

	// CCW wraps.
	io.InputP1.Set(false, false, false, false, false, false, false, true, false)
	io.InputP1.Set(false, false, false, false, false, false, false, true, false)
	if got := io.Read(ioSubP1, 0x0005); got != uint8(^uint8(0x01)) {
		t.Errorf("rotary back to 0: got $%02X", got)
	}

	// Non-rotary variants never expose the encoder.
	io.SetVariant(VariantJackal)
	if got := io.Read(ioSubP1, 0x0005); got != 0xFF {
		t.Errorf("stick read on odd address: got $%02X, want $FF", got)
	}
}

func TestIO_IRQEnableAndWatchdog(t *testing.T) {
	io := NewIO(VariantJackal)

	if io.MainIRQEnabled() || io.SoundIRQEnabled() {
		t.Fatal("IRQs enabled out of reset")
	}

	io.Write(ioSubDIP, 0x001C, 0x03)
	if !io.MainIRQEnabled() || !io.SoundIRQEnabled() {
		t.Fatal("IRQ enable write not latched")
	}

	// The enable write doubles as the watchdog kick.
	for i := 0; i < watchdogTimeoutFrames-1; i++ {
		if io.TickFrame() {
			t.Fatalf("watchdog fired after %d frames", i+1)
		}
	}
	io.Write(ioSubDIP, 0x001C, 0x03)
	if io.TickFrame() {
		t.Fatal("watchdog fired immediately after kick")
	}

	io.Reset()
	if io.MainIRQEnabled() {
		t.Fatal("IRQ enable survived reset")
	}
}

func TestIO_WatchdogExpires(t *testing.T) {
	io := NewIO(VariantJackal)
	fired := false
	for i := 0; i < watchdogTimeoutFrames; i++ {
		if io.TickFrame() {
			fired = true
		}
	}
	if !fired {
		t.Fatal("watchdog never expired without kicks")
	}
}
