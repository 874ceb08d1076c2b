package emu

import (
	"bytes"
	"testing"
)

func scrambledEmulator(t *testing.T) *Emulator {
	t.Helper()
	image := make([]byte, ROMSetSize)
	for i := range image {
		image[i] = uint8(i * 13)
	}
	e := testEmulator(t, image)

	main := &scriptMaster{script: []Transaction{
		{Addr: 0x0000, Data: bankProgBit | bankTileBit, Write: true},
		{Addr: 0x0100, Data: 0xA5, Write: true},
		{Addr: 0x2000, Data: 0x31, Write: true},
		{Addr: 0x3000, Data: 0x42, Write: true},
		{Addr: 0x0025, Data: 0x02, Write: true},
		{Addr: 0x000C, Data: 0x03, Write: true},
		{Addr: 0x8000},
	}, loop: true}
	sound := &scriptMaster{script: []Transaction{
		{Addr: 0x4002, Data: 0x1F, Write: true},
		{Addr: 0x6200, Data: 0x77, Write: true},
		{Addr: 0x8000},
	}, loop: true}
	e.AttachCPU(main)
	e.AttachSoundCPU(sound)

	e.RunFrame()
	e.RunFrame()
	return e
}

func TestSerialize_RoundTrip(t *testing.T) {
	e := scrambledEmulator(t)

	state, err := e.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if len(state) != SerializeSize() {
		t.Fatalf("state size: got %d want %d", len(state), SerializeSize())
	}

	// Diverge, then restore.
	e.RunFrame()
	if err := e.Deserialize(state); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}

	state2, err := e.Serialize()
	if err != nil {
		t.Fatalf("second Serialize: %v", err)
	}
	if !bytes.Equal(state, state2) {
		t.Error("state differs after round trip")
	}
}

func TestSerialize_RestoredBoardRunsIdentically(t *testing.T) {
	e := scrambledEmulator(t)
	state, err := e.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	e.RunFrame()
	fbAfter := append([]byte(nil), e.GetFramebuffer()...)

	if err := e.Deserialize(state); err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	e.RunFrame()

	if !bytes.Equal(fbAfter, e.GetFramebuffer()) {
		t.Error("restored board rendered a different frame")
	}
}

func TestVerifyState_Rejections(t *testing.T) {
	e := scrambledEmulator(t)
	state, err := e.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	if err := e.VerifyState(state[:10]); err == nil {
		t.Error("accepted truncated state")
	}

	bad := append([]byte(nil), state...)
	bad[0] ^= 0xFF
	if err := e.VerifyState(bad); err == nil {
		t.Error("accepted wrong magic")
	}

	bad = append([]byte(nil), state...)
	bad[len(bad)-1] ^= 0xFF
	if err := e.VerifyState(bad); err == nil {
		t.Error("accepted corrupted payload")
	}

	other := testEmulator(t, nil)
	if err := other.VerifyState(state); err == nil {
		t.Error("accepted state from a different ROM")
	}
}
