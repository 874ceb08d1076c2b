package emu

import "testing"

// scriptMaster is a scripted bus master: it walks a fixed transaction
// list, recording the data handed to each cycle and every IRQ edge.
// After the script it idles; with loop set it starts over instead.
type scriptMaster struct {
	script []Transaction
	loop   bool

	pos    int
	reads  []uint8
	irqs   []bool
	resets int
}

func (m *scriptMaster) Reset() {
	m.pos = 0
	m.resets++
}

func (m *scriptMaster) Cycle(din uint8) Transaction {
	m.reads = append(m.reads, din)
	if m.pos >= len(m.script) {
		if !m.loop {
			return Transaction{Addr: 0xFFFE}
		}
		m.pos = 0
	}
	tx := m.script[m.pos]
	m.pos++
	return tx
}

func (m *scriptMaster) SetIRQ(asserted bool) {
	m.irqs = append(m.irqs, asserted)
}

func testEmulator(t *testing.T, image []byte) *Emulator {
	t.Helper()
	if image == nil {
		image = make([]byte, ROMSetSize)
	}
	e, err := NewEmulator(image, RegionNTSC)
	if err != nil {
		t.Fatalf("NewEmulator: %v", err)
	}
	return &e
}

// stepCycles runs enough master ticks for n main-CPU bus cycles.
func stepCycles(e *Emulator, n int) {
	for i := 0; i < n*4*pixelDiv; i++ {
		e.Step()
	}
}

func TestEmulator_RejectsWrongImageSize(t *testing.T) {
	if _, err := NewEmulator(make([]byte, 123), RegionNTSC); err == nil {
		t.Error("expected error for undersized image")
	}
}

func TestEmulator_BankedROMFetch(t *testing.T) {
	image := make([]byte, ROMSetSize)
	image[dlProgLowBase] = 0x11        // bank 0, offset 0
	image[dlProgLowBase+0x4000] = 0x22 // bank 1, offset 0

	e := testEmulator(t, image)
	cpu := &scriptMaster{script: []Transaction{
		{Addr: 0x8000}, // read banked ROM, bank 0
		{Addr: 0x0000, Data: bankProgBit, Write: true}, // switch program bank
		{Addr: 0x8000}, // read banked ROM, bank 1
	}}
	e.AttachCPU(cpu)

	stepCycles(e, 5)

	// reads[i] is the data handed *into* cycle i, so each read's result
	// arrives one entry later. The bank write leaves the latch as-is.
	if got := cpu.reads[1]; got != 0x11 {
		t.Errorf("bank 0 fetch: got %02X want 11", got)
	}
	if got := cpu.reads[3]; got != 0x22 {
		t.Errorf("bank 1 fetch after bank write: got %02X want 22", got)
	}
}

func TestEmulator_ResetClearsBankBits(t *testing.T) {
	e := testEmulator(t, nil)
	cpu := &scriptMaster{script: []Transaction{
		{Addr: 0x0000, Data: bankProgBit | bankTileBit | bankSpriteBit, Write: true},
	}}
	e.AttachCPU(cpu)

	stepCycles(e, 3)

	want := bankState{prog: 1, tile: 1, sprite: 1}
	if e.banks != want {
		t.Fatalf("bank bits after decoded write: got %+v want %+v", e.banks, want)
	}

	// A latched write that has not been sampled yet must not survive
	// reset either.
	e.latchBankWrite(bankProgBit)
	e.Reset()
	e.Step()

	if (e.banks != bankState{}) {
		t.Errorf("bank bits after reset: got %+v want all clear", e.banks)
	}
	if e.bankPendValid {
		t.Error("pending bank write survived reset")
	}
}

func TestEmulator_SharedRAMCrossCPU(t *testing.T) {
	e := testEmulator(t, nil)

	main := &scriptMaster{script: []Transaction{
		{Addr: 0x0100, Data: 0x5A, Write: true},
	}}
	sound := &scriptMaster{script: []Transaction{{Addr: 0x6100}}, loop: true}
	e.AttachCPU(main)
	e.AttachSoundCPU(sound)

	stepCycles(e, 6)

	if got := sound.reads[len(sound.reads)-1]; got != 0x5A {
		t.Errorf("sound CPU view of shared RAM: got %02X want 5A", got)
	}
	if got := e.ReadSharedRAM(0x0100); got != 0x5A {
		t.Errorf("shared RAM contents: got %02X want 5A", got)
	}
}

func TestEmulator_SoundROMAndPalettePath(t *testing.T) {
	e := testEmulator(t, nil)
	e.Download(dlSoundBase+0x123, 0x77)

	sound := &scriptMaster{script: []Transaction{
		{Addr: 0x8123},                          // sound ROM
		{Addr: 0x4000, Data: 0xE0, Write: true}, // palette byte
		{Addr: 0x4000},                          // read back after strobe
	}}
	e.AttachSoundCPU(sound)

	stepCycles(e, 6)

	if got := sound.reads[1]; got != 0x77 {
		t.Errorf("sound ROM read: got %02X want 77", got)
	}
	if got := sound.reads[3]; got != 0xE0 {
		t.Errorf("palette readback: got %02X want E0", got)
	}
}

func TestEmulator_VBlankIRQDelivery(t *testing.T) {
	e := testEmulator(t, nil)

	main := &scriptMaster{script: []Transaction{
		{Addr: 0x000C, Data: 0x03, Write: true}, // unmask both IRQs
	}}
	sound := &scriptMaster{}
	e.AttachCPU(main)
	e.AttachSoundCPU(sound)

	e.RunFrame()

	if len(main.irqs) < 1 || !main.irqs[0] {
		t.Fatalf("main IRQ edges: %v", main.irqs)
	}
	if len(sound.irqs) < 1 || !sound.irqs[0] {
		t.Fatalf("sound IRQ edges: %v", sound.irqs)
	}

	// The line follows the V-blank level, so it drops at frame wrap.
	if main.irqs[len(main.irqs)-1] {
		t.Error("main IRQ still asserted after V-blank ended")
	}
}

func TestEmulator_MaskedIRQStaysLow(t *testing.T) {
	e := testEmulator(t, nil)
	main := &scriptMaster{}
	e.AttachCPU(main)

	e.RunFrame()

	if len(main.irqs) != 0 {
		t.Errorf("IRQ edges with interrupts masked: %v", main.irqs)
	}
}

func TestEmulator_WatchdogResetsIdleBoard(t *testing.T) {
	e := testEmulator(t, nil)
	main := &scriptMaster{}
	e.AttachCPU(main)

	for i := 0; i < watchdogTimeoutFrames+1; i++ {
		e.RunFrame()
	}
	if main.resets == 0 {
		t.Error("watchdog never reset an idle board")
	}
}

func TestEmulator_WatchdogKickPreventsReset(t *testing.T) {
	e := testEmulator(t, nil)
	main := &scriptMaster{script: []Transaction{
		{Addr: 0x000C, Data: 0x00, Write: true},
	}, loop: true}
	e.AttachCPU(main)

	for i := 0; i < watchdogTimeoutFrames+2; i++ {
		e.RunFrame()
	}
	if main.resets != 0 {
		t.Errorf("watchdog reset a kicking board %d times", main.resets)
	}
}

func TestEmulator_AudioBufferPerFrame(t *testing.T) {
	e := testEmulator(t, nil)

	for frame := 0; frame < 3; frame++ {
		e.RunFrame()
		samples := e.GetAudioSamples()
		if len(samples)%2 != 0 {
			t.Fatalf("frame %d: odd sample count %d", frame, len(samples))
		}
		pairs := len(samples) / 2
		want := e.timing.TicksPerFrame / sampleDiv
		if pairs != want && pairs != want+1 {
			t.Errorf("frame %d: %d sample pairs, want %d or %d", frame, pairs, want, want+1)
		}
	}
}

func TestEmulator_PauseHoldsBoard(t *testing.T) {
	e := testEmulator(t, nil)
	e.RunFrame()

	e.SetPaused(true)
	e.RunFrame()

	if len(e.GetAudioSamples()) != 0 {
		t.Error("paused frame produced audio")
	}
	if e.tg[0].HPos() != 0 || e.tg[0].VPos() != 0 {
		t.Error("paused frame advanced the raster")
	}
}

func TestEmulator_HiscoreSideChannel(t *testing.T) {
	e := testEmulator(t, nil)
	main := &scriptMaster{script: []Transaction{{Addr: 0x0100}}, loop: true}
	e.AttachCPU(main)

	// Side-channel write lands without any CPU touching shared RAM at
	// that address.
	e.SetHiscorePort(0x0200, 0x42, true, true)
	stepCycles(e, 2)
	e.SetHiscorePort(0x0200, 0, false, true)
	stepCycles(e, 2)

	if got := e.HiscoreReadData(); got != 0x42 {
		t.Errorf("hiscore read data: got %02X want 42", got)
	}
	if got := e.ReadSharedRAM(0x0200); got != 0x42 {
		t.Errorf("shared RAM after hiscore write: got %02X want 42", got)
	}

	// While the channel holds the port, the main CPU reads the sentinel.
	if got := main.reads[len(main.reads)-1]; got != hiscoreSentinel {
		t.Errorf("main CPU read during hiscore access: got %02X want %02X", got, hiscoreSentinel)
	}

	e.SetHiscorePort(0, 0, false, false)
	stepCycles(e, 2)
	if got := main.reads[len(main.reads)-1]; got != 0 {
		t.Errorf("main CPU read after hiscore release: got %02X want 00", got)
	}
}

func TestEmulator_BatteryRoundTrip(t *testing.T) {
	e := testEmulator(t, nil)
	if !e.HasSRAM() {
		t.Fatal("board reports no battery")
	}

	data := make([]byte, sharedRAMSize)
	for i := range data {
		data[i] = uint8(i * 7)
	}
	e.SetSRAM(data)

	got := e.GetSRAM()
	for i := range data {
		if got[i] != data[i] {
			t.Fatalf("battery byte %d: got %02X want %02X", i, got[i], data[i])
		}
	}
}
