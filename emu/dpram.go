package emu

const (
	sharedRAMSize = 0x2000 // 8KB dual-port work RAM
	sharedMask    = sharedRAMSize - 1

	// hiscoreSentinel is what the main CPU reads from the work RAM
	// while the hiscore channel holds its port.
	hiscoreSentinel = 0xFF
)

// portAccess is one RAM port's request for the current tick.
type portAccess struct {
	addr   uint16
	data   uint8
	write  bool
	active bool
}

// DPRAM is the shared work RAM between the two CPUs. Port A belongs to
// the main CPU, port B to the sound CPU; each port can read and write
// every tick without stalling the other.
//
// The hiscore side channel multiplexes onto port A: while enabled it
// substitutes its own address/data/write-enable and captures the read
// data, and the main CPU's read value is forced to a fixed sentinel.
// Port B never sees the override.
type DPRAM struct {
	mem [sharedRAMSize]uint8

	hsAddr   uint16
	hsData   uint8
	hsWrite  bool
	hsEnable bool
	hsDout   uint8
}

// NewDPRAM creates the shared work RAM.
func NewDPRAM() *DPRAM {
	return &DPRAM{}
}

// Reset clears the RAM and drops any hiscore access in flight.
func (r *DPRAM) Reset() {
	r.mem = [sharedRAMSize]uint8{}
	r.hsAddr = 0
	r.hsData = 0
	r.hsWrite = false
	r.hsEnable = false
	r.hsDout = 0
}

// SetHiscorePort drives the hiscore side-channel pins. While enable is
// high the channel owns port A.
func (r *DPRAM) SetHiscorePort(addr uint16, data uint8, write, enable bool) {
	r.hsAddr = addr & sharedMask
	r.hsData = data
	r.hsWrite = write
	r.hsEnable = enable
}

// HiscoreReadData returns the data latched for the hiscore channel on
// its last enabled access.
func (r *DPRAM) HiscoreReadData() uint8 {
	return r.hsDout
}

// Access performs both ports' requests for one tick and returns each
// port's read data. Reads observe the cell contents from before this
// tick's writes. A same-tick write collision on one address resolves to
// port A: port B's write lands first and port A's overwrites it.
func (r *DPRAM) Access(a, b portAccess) (doutA, doutB uint8) {
	if r.hsEnable {
		// Hiscore channel transparently replaces port A.
		r.hsDout = r.mem[r.hsAddr]
		if b.active {
			doutB = r.mem[b.addr&sharedMask]
		}
		if b.active && b.write {
			r.mem[b.addr&sharedMask] = b.data
		}
		if r.hsWrite {
			r.mem[r.hsAddr] = r.hsData
		}
		return hiscoreSentinel, doutB
	}

	if a.active {
		doutA = r.mem[a.addr&sharedMask]
	}
	if b.active {
		doutB = r.mem[b.addr&sharedMask]
	}
	if b.active && b.write {
		r.mem[b.addr&sharedMask] = b.data
	}
	if a.active && a.write {
		r.mem[a.addr&sharedMask] = a.data
	}
	return doutA, doutB
}
