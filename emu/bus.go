package emu

// bankState holds the decoder ASIC's three bank bits as the main CPU
// last programmed them.
type bankState struct {
	prog   uint8
	tile   uint8
	sprite uint8
}

// Bank-switch write layout, I/O sub-select 0. Bits 4-5 of the same
// write are the coin counters and belong to the I/O block.
const (
	bankProgBit   = 0x01
	bankTileBit   = 0x04
	bankSpriteBit = 0x08
)

// latchBankWrite holds a decoded bank-register write until the next
// pixel enable samples it.
func (e *Emulator) latchBankWrite(data uint8) {
	e.bankPend = data
	e.bankPendValid = true
}

// commitBank samples a pending bank write. Called on the pixel enable
// only, so bank changes never land mid bus cycle.
func (e *Emulator) commitBank() {
	if !e.bankPendValid {
		return
	}
	e.banks.prog = 0
	if e.bankPend&bankProgBit != 0 {
		e.banks.prog = 1
	}
	e.banks.tile = 0
	if e.bankPend&bankTileBit != 0 {
		e.banks.tile = 1
	}
	e.banks.sprite = 0
	if e.bankPend&bankSpriteBit != 0 {
		e.banks.sprite = 1
	}
	e.bankPendValid = false
}

// busCycleMain runs one main-CPU bus cycle. Called on the main E
// enable; the data read here is handed to the core on its next cycle.
func (e *Emulator) busCycleMain() {
	tx := e.mainCPU.Cycle(e.mainData)
	sel := decodeMain(tx.Addr, e.banks)
	if tx.Write {
		e.busWriteMain(tx.Addr, tx.Data, sel)
	} else {
		e.mainData = e.busReadMain(tx.Addr, sel)
	}
	if !sel.shared && e.dpram.hsEnable {
		// The side channel owns port A this cycle even though the main
		// CPU is addressing elsewhere.
		e.dpram.Access(portAccess{}, portAccess{})
	}
}

// busReadMain resolves a main-CPU read in the decoder's fixed priority
// order: tilegen 0, tilegen 1, I/O, shared RAM, banked ROM, fixed ROM.
// Unmapped reads float high.
func (e *Emulator) busReadMain(addr uint16, sel mainSelects) uint8 {
	switch {
	case sel.tg[0]:
		return e.tgRead(0, sel.tgRegion, addr)
	case sel.tg[1]:
		return e.tgRead(1, sel.tgRegion, addr)
	case sel.io:
		return e.io.Read(sel.ioSub, addr)
	case sel.shared:
		dout, _ := e.dpram.Access(portAccess{addr: addr, active: true}, portAccess{})
		return dout
	case sel.romLow:
		return e.rom.ProgLow[progLowAddr(addr, e.banks.prog)]
	case sel.romHigh:
		return e.rom.ProgHigh[progHighAddr(addr)]
	}
	return 0xFF
}

func (e *Emulator) busWriteMain(addr uint16, data uint8, sel mainSelects) {
	switch {
	case sel.io:
		if sel.ioSub == ioSubSystem {
			e.latchBankWrite(data)
		}
		e.io.Write(sel.ioSub, addr, data)
	case sel.tg[0] || sel.tg[1]:
		for i := range e.tg {
			if sel.tg[i] {
				e.tgWrite(i, sel.tgRegion, addr, data)
			}
		}
	case sel.shared:
		e.dpram.Access(portAccess{addr: addr, data: data, write: true, active: true}, portAccess{})
	}
}

func (e *Emulator) tgRead(i int, region tgRegion, addr uint16) uint8 {
	switch region {
	case tgReg:
		return e.tg[i].ReadReg(addr - 0x0020)
	case tgTile:
		return e.tg[i].ReadTile(addr)
	case tgSprite:
		return e.tg[i].ReadSprite(addr)
	}
	return 0xFF
}

func (e *Emulator) tgWrite(i int, region tgRegion, addr uint16, data uint8) {
	switch region {
	case tgReg:
		e.tg[i].WriteReg(addr-0x0020, data)
	case tgTile:
		e.tg[i].WriteTile(addr, data)
	case tgSprite:
		e.tg[i].WriteSprite(addr, data)
	}
}

// busCycleSound runs one sound-CPU bus cycle on the sound E enable.
func (e *Emulator) busCycleSound() {
	tx := e.soundCPU.Cycle(e.soundData)
	sel := decodeSound(tx.Addr)
	if tx.Write {
		e.busWriteSound(tx.Addr, tx.Data, sel)
		return
	}
	e.soundData = e.busReadSound(tx.Addr, sel)
}

func (e *Emulator) busReadSound(addr uint16, sel soundSelect) uint8 {
	switch sel {
	case soundSelSynth:
		return e.synth.Read(addr)
	case soundSelPalette:
		return e.pal.Read(addr)
	case soundSelShared:
		_, dout := e.dpram.Access(portAccess{}, portAccess{addr: addr, active: true})
		return dout
	case soundSelROM:
		return e.rom.Sound[addr&(soundROMSize-1)]
	}
	return 0xFF
}

func (e *Emulator) busWriteSound(addr uint16, data uint8, sel soundSelect) {
	switch sel {
	case soundSelSynth:
		e.synth.Write(addr, data)
	case soundSelPalette:
		// Latched here, committed one bus phase later.
		e.pal.Write(addr, data)
	case soundSelShared:
		e.dpram.Access(portAccess{}, portAccess{addr: addr, data: data, write: true, active: true})
	}
}
