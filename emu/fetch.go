package emu

// GfxMemory is the external graphics memory channel. Step advances it
// by one fetch enable with the presented 17-bit word address and the
// request toggle, and returns the current ack toggle and data lines.
// A request is outstanding while ack differs from req; data is valid
// once they match again.
type GfxMemory interface {
	Step(addr uint32, req bool) (ack bool, data uint16)
}

// ROMGfxMemory serves fetches straight from the graphics ROM. Latency
// is the number of fetch enables a request waits before being acked;
// zero acks in the same enable, matching the stock board.
type ROMGfxMemory struct {
	rom     *ROMSet
	Latency int

	lastReq bool
	ack     bool
	data    uint16
	pending uint32
	wait    int
}

// NewROMGfxMemory wraps a ROM set as the fetch channel backing store.
func NewROMGfxMemory(rom *ROMSet) *ROMGfxMemory {
	return &ROMGfxMemory{rom: rom}
}

// Step implements GfxMemory.
func (m *ROMGfxMemory) Step(addr uint32, req bool) (bool, uint16) {
	if req != m.lastReq {
		m.lastReq = req
		m.pending = addr
		m.wait = m.Latency
	}
	if m.ack != m.lastReq {
		if m.wait == 0 {
			m.data = m.rom.GfxWord(m.pending)
			m.ack = m.lastReq
		} else {
			m.wait--
		}
	}
	return m.ack, m.data
}

// attrLatch is the two-stage external latch that carries a video
// controller's extra color bits into the fetch address. A 2-bit counter
// increments on each rising edge of the line pulse; while the counter's
// top bit is high the input bits are buffered, and when it falls the
// buffer becomes the committed value.
type attrLatch struct {
	lastPulse bool
	ctr       uint8
	buf       uint8
	committed uint8
}

func (l *attrLatch) tick(pulse bool, attrIn uint8) {
	if pulse && !l.lastPulse {
		prev := l.ctr
		l.ctr = (l.ctr + 1) & 3
		if prev&2 != 0 && l.ctr&2 == 0 {
			l.committed = l.buf
		}
	}
	if l.ctr&2 != 0 {
		l.buf = attrIn & 3
	}
	l.lastPulse = pulse
}

func (l *attrLatch) reset() {
	*l = attrLatch{}
}

// FetchArbiter time-multiplexes the single external graphics channel
// between the two video controllers. The channel select toggles every
// fetch enable; the selected controller's 14-bit tile address, its
// committed attribute bits and the channel bit form the presented
// address. The request toggle flips only when that address changes, and
// whatever data is acked lands in the requesting controller's result
// register, however late it arrives.
type FetchArbiter struct {
	mem GfxMemory
	tg  [2]*TileGen

	latch   [2]attrLatch
	channel uint8

	reqAddr   uint32
	req       bool
	pendingCh uint8
}

// noFetchAddr is outside the 17-bit presented address space, so the
// first real address after reset always raises a request.
const noFetchAddr = 1 << 24

// NewFetchArbiter wires the arbiter between the two controllers and the
// external memory.
func NewFetchArbiter(mem GfxMemory, tg0, tg1 *TileGen) *FetchArbiter {
	return &FetchArbiter{mem: mem, tg: [2]*TileGen{tg0, tg1}, reqAddr: noFetchAddr}
}

// Reset clears the latches and handshake state.
func (a *FetchArbiter) Reset() {
	a.latch[0].reset()
	a.latch[1].reset()
	a.channel = 0
	a.reqAddr = noFetchAddr
	a.req = false
	a.pendingCh = 0
}

// TickPixel clocks the attribute latches. Both latches run off the
// primary controller's line pulse.
func (a *FetchArbiter) TickPixel(linePulse bool) {
	a.latch[0].tick(linePulse, a.tg[0].AttrLines())
	a.latch[1].tick(linePulse, a.tg[1].AttrLines())
}

// TickFetch advances the arbiter by one fetch enable.
func (a *FetchArbiter) TickFetch() {
	a.channel ^= 1
	ch := a.channel

	addr := uint32(ch)<<16 |
		uint32(a.latch[ch].committed)<<14 |
		uint32(a.tg[ch].TileFetchAddr())
	if addr != a.reqAddr {
		a.reqAddr = addr
		a.req = !a.req
		a.pendingCh = ch
	}

	ack, data := a.mem.Step(a.reqAddr, a.req)
	if ack == a.req {
		a.tg[a.pendingCh].SetFetchData(data)
	}
}

// CommittedAttr exposes a controller's committed attribute bits.
func (a *FetchArbiter) CommittedAttr(i int) uint8 {
	return a.latch[i].committed
}

// Channel reports the controller currently owning the external channel.
func (a *FetchArbiter) Channel() int {
	return int(a.channel)
}
