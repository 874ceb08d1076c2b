package emu

// Transaction is one 6809 bus cycle as seen from the board: an address,
// a direction, and the data byte driven by the CPU on writes.
type Transaction struct {
	Addr  uint16
	Data  uint8
	Write bool
}

// BusMaster is the socket contract for the two MC6809E CPUs. The board
// does not emulate the instruction set; it only honors the bus timing:
// Cycle is called exactly once per that CPU's E enable, receives the
// data latched from the previous cycle's read, and returns the next
// bus transaction. IRQ follows the 6809 level-sensitive /IRQ pin.
type BusMaster interface {
	Reset()
	Cycle(din uint8) Transaction
	SetIRQ(asserted bool)
}

// idleMaster fills an empty CPU socket. It holds the bus reading the
// reset vector forever, which is what a 6809 with no ROM strapped to
// the data bus effectively does.
type idleMaster struct{}

func (idleMaster) Reset()                      {}
func (idleMaster) Cycle(din uint8) Transaction { return Transaction{Addr: 0xFFFE} }
func (idleMaster) SetIRQ(asserted bool)        {}
