package emu

import "testing"

func pulseLatch(l *attrLatch, attr uint8) {
	l.tick(true, attr)
	l.tick(false, attr)
}

func TestAttrLatch_CommitTiming(t *testing.T) {
	var l attrLatch

	// Counter climbs 1, 2, 3 with the input held at 2. Nothing commits
	// until the top bit falls on the fourth pulse.
	for i := 0; i < 3; i++ {
		pulseLatch(&l, 2)
		if l.committed != 0 {
			t.Fatalf("committed early after %d pulses: %d", i+1, l.committed)
		}
	}
	pulseLatch(&l, 2)
	if l.committed != 2 {
		t.Errorf("committed after wrap: got %d want 2", l.committed)
	}
}

func TestAttrLatch_CaptureWindowOnly(t *testing.T) {
	var l attrLatch

	// Input is 3 only while the counter's top bit is low; the buffered
	// value seen during the high window (2) is what commits.
	pulseLatch(&l, 3) // ctr 0 -> 1
	pulseLatch(&l, 2) // ctr 1 -> 2, capture 2
	pulseLatch(&l, 2) // ctr 2 -> 3, capture 2
	pulseLatch(&l, 1) // ctr 3 -> 0, commit before any capture
	if l.committed != 2 {
		t.Errorf("committed: got %d want 2", l.committed)
	}
}

// fakeGfx records every raised request and optionally acks immediately.
type fakeGfx struct {
	reqs    []uint32
	lastReq bool
	ack     bool
	data    uint16
	serve   bool
}

func (f *fakeGfx) Step(addr uint32, req bool) (bool, uint16) {
	if req != f.lastReq {
		f.lastReq = req
		f.reqs = append(f.reqs, addr)
		if f.serve {
			f.ack = req
		}
	}
	return f.ack, f.data
}

func TestFetchArbiter_ChannelAlternates(t *testing.T) {
	arb := NewFetchArbiter(&fakeGfx{}, NewTileGen(0, noROM), NewTileGen(1, noROM))

	want := 1
	for i := 0; i < 8; i++ {
		arb.TickFetch()
		if arb.Channel() != want {
			t.Fatalf("tick %d: channel %d want %d", i, arb.Channel(), want)
		}
		want ^= 1
	}
}

func TestFetchArbiter_PresentedAddress(t *testing.T) {
	mem := &fakeGfx{serve: true}
	tg0 := NewTileGen(0, noROM)
	tg1 := NewTileGen(1, noROM)
	arb := NewFetchArbiter(mem, tg0, tg1)

	tg1.tileFetchAddr = 0x1234
	arb.latch[1].committed = 2

	arb.TickFetch() // channel 1
	if len(mem.reqs) != 1 {
		t.Fatalf("requests raised: got %d want 1", len(mem.reqs))
	}
	want := uint32(1)<<16 | uint32(2)<<14 | 0x1234
	if mem.reqs[0] != want {
		t.Errorf("presented address: got %05X want %05X", mem.reqs[0], want)
	}

	// The other channel's address always differs by the channel bit, so
	// alternating grants re-request every enable.
	arb.TickFetch() // channel 0
	reqs := len(mem.reqs)
	arb.TickFetch() // channel 1 again
	if len(mem.reqs) != reqs+1 {
		t.Errorf("alternating channels must re-request: got %d want %d", len(mem.reqs), reqs+1)
	}
}

func TestFetchArbiter_DataLandsInRequestingChip(t *testing.T) {
	mem := &fakeGfx{serve: true, data: 0xBEEF}
	tg0 := NewTileGen(0, noROM)
	tg1 := NewTileGen(1, noROM)
	arb := NewFetchArbiter(mem, tg0, tg1)

	arb.TickFetch() // channel 1
	if tg1.fetchData != 0xBEEF {
		t.Errorf("tg1 result register: got %04X want BEEF", tg1.fetchData)
	}
	if tg0.fetchData != 0 {
		t.Errorf("tg0 result register written: %04X", tg0.fetchData)
	}

	mem.data = 0x1234
	tg0.tileFetchAddr = 0x00FF
	arb.TickFetch() // channel 0
	if tg0.fetchData != 0x1234 {
		t.Errorf("tg0 result register: got %04X want 1234", tg0.fetchData)
	}
}

func TestFetchArbiter_SlowMemoryLeavesStaleData(t *testing.T) {
	rom := &ROMSet{}
	rom.Gfx[0] = 0xAA
	rom.Gfx[1] = 0x55
	mem := NewROMGfxMemory(rom)
	mem.Latency = 3

	tg0 := NewTileGen(0, noROM)
	tg1 := NewTileGen(1, noROM)
	arb := NewFetchArbiter(mem, tg0, tg1)

	// Alternating channels change the presented address every enable,
	// so a 3-enable memory never completes and both result registers
	// keep whatever they held.
	for i := 0; i < 32; i++ {
		arb.TickFetch()
	}
	if tg0.fetchData != 0 || tg1.fetchData != 0 {
		t.Errorf("result registers updated by unacked fetches: %04X %04X", tg0.fetchData, tg1.fetchData)
	}
}

func TestROMGfxMemory_Latency(t *testing.T) {
	rom := &ROMSet{}
	rom.Gfx[0x20] = 0xDE
	rom.Gfx[0x21] = 0xAD

	m := NewROMGfxMemory(rom)
	if ack, data := m.Step(0x10, true); !ack || data != 0xDEAD {
		t.Errorf("zero-latency fetch: ack=%v data=%04X", ack, data)
	}

	m = NewROMGfxMemory(rom)
	m.Latency = 2
	if ack, _ := m.Step(0x10, true); ack {
		t.Error("acked before latency elapsed")
	}
	if ack, _ := m.Step(0x10, true); ack {
		t.Error("acked before latency elapsed")
	}
	if ack, data := m.Step(0x10, true); !ack || data != 0xDEAD {
		t.Errorf("latent fetch: ack=%v data=%04X", ack, data)
	}

	// A superseding request flips the toggle back to the ack's value, so
	// it reads as complete immediately and hands back stale data.
	m = NewROMGfxMemory(rom)
	m.Latency = 5
	m.Step(0x30, true)
	// Completion is ack matching the request toggle, which is now false.
	if ack, data := m.Step(0x10, false); ack || data != 0 {
		t.Errorf("superseded fetch should look complete with stale data: ack=%v data=%04X", ack, data)
	}
}
