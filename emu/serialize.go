package emu

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"math"
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "emJKLSState\x00"
	stateHeaderSize = 22 // magic(12) + version(2) + romCRC(4) + dataCRC(4)
)

// Fixed serialization sizes for inline components
const (
	clockSerializeSize   = 13 // div(4) + phase(1) + acc(4) + count(4)
	boardSerializeSize   = 17 // banks(3) + pend(2) + latched data(2) + irq(2) + audio(4) + sampleTick(4)
	dpramSerializeSize   = sharedRAMSize + 6
	arbSerializeSize     = 15 // two latches(8) + channel(1) + reqAddr(4) + req(1) + pendingCh(1)
	gfxMemSerializeSize  = 12 // lastReq(1) + ack(1) + data(2) + pending(4) + wait(4)
	paletteSerializeSize = paletteEntries*2 + 4
	filterSerializeSize  = 48 // six float64 stages
)

// boolByte converts a bool to a uint8 (0 or 1).
func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// SerializeSize returns the total size in bytes of a save state. Every
// section is fixed-size, so this is a constant for the whole core.
func SerializeSize() int {
	return stateHeaderSize +
		clockSerializeSize +
		boardSerializeSize +
		dpramSerializeSize +
		IOSerializeSize +
		2*TileGenSerializeSize +
		arbSerializeSize +
		gfxMemSerializeSize +
		paletteSerializeSize +
		filterSerializeSize
}

// SerializeSize returns the save state size for this instance.
func (e *Emulator) SerializeSize() int {
	return SerializeSize()
}

// Serialize creates a save state and returns it as a byte slice. The
// attached CPU cores and synthesizer are external chips and keep their
// own state.
func (e *Emulator) Serialize() ([]byte, error) {
	data := make([]byte, SerializeSize())

	// Write header
	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)
	binary.LittleEndian.PutUint32(data[14:18], e.rom.CRC32())

	offset := stateHeaderSize
	offset = e.serializeClock(data, offset)
	offset = e.serializeBoard(data, offset)
	offset = e.serializeDPRAM(data, offset)

	if err := e.io.Serialize(data[offset:]); err != nil {
		return nil, err
	}
	offset += IOSerializeSize

	for i := range e.tg {
		if err := e.tg[i].Serialize(data[offset:]); err != nil {
			return nil, err
		}
		offset += TileGenSerializeSize
	}

	offset = e.serializeArb(data, offset)
	offset = e.serializeGfxMem(data, offset)
	offset = e.serializePalette(data, offset)
	e.serializeFilter(data, offset)

	// Calculate and write data CRC32 (over everything after header)
	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[18:22], dataCRC)

	return data, nil
}

// Deserialize restores emulator state from a save state byte slice.
// Variant, timing mode and other configuration are NOT restored.
func (e *Emulator) Deserialize(data []byte) error {
	if err := e.VerifyState(data); err != nil {
		return err
	}

	offset := stateHeaderSize
	offset = e.deserializeClock(data, offset)
	offset = e.deserializeBoard(data, offset)
	offset = e.deserializeDPRAM(data, offset)

	if err := e.io.Deserialize(data[offset:]); err != nil {
		return err
	}
	offset += IOSerializeSize

	for i := range e.tg {
		if err := e.tg[i].Deserialize(data[offset:]); err != nil {
			return err
		}
		offset += TileGenSerializeSize
	}

	offset = e.deserializeArb(data, offset)
	offset = e.deserializeGfxMem(data, offset)
	offset = e.deserializePalette(data, offset)
	e.deserializeFilter(data, offset)

	return nil
}

// VerifyState checks if a save state is valid without loading it.
func (e *Emulator) VerifyState(data []byte) error {
	if len(data) < SerializeSize() {
		return errors.New("save state too short")
	}

	if string(data[0:12]) != stateMagic {
		return errors.New("invalid save state magic")
	}

	version := binary.LittleEndian.Uint16(data[12:14])
	if version > stateVersion {
		return errors.New("unsupported save state version")
	}

	romCRC := binary.LittleEndian.Uint32(data[14:18])
	if romCRC != e.rom.CRC32() {
		return errors.New("save state is for a different ROM")
	}

	expectedCRC := binary.LittleEndian.Uint32(data[18:22])
	actualCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	if expectedCRC != actualCRC {
		return errors.New("save state data is corrupted")
	}

	return nil
}

func (e *Emulator) serializeClock(data []byte, offset int) int {
	binary.LittleEndian.PutUint32(data[offset:], e.clock.div)
	offset += 4
	data[offset] = e.clock.phase
	offset++
	binary.LittleEndian.PutUint32(data[offset:], e.clock.synth.acc)
	offset += 4
	binary.LittleEndian.PutUint32(data[offset:], e.clock.synth.count)
	offset += 4
	return offset
}

func (e *Emulator) deserializeClock(data []byte, offset int) int {
	e.clock.div = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	e.clock.phase = data[offset] & 3
	offset++
	e.clock.synth.acc = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	e.clock.synth.count = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	return offset
}

func (e *Emulator) serializeBoard(data []byte, offset int) int {
	data[offset] = e.banks.prog
	offset++
	data[offset] = e.banks.tile
	offset++
	data[offset] = e.banks.sprite
	offset++
	data[offset] = e.bankPend
	offset++
	data[offset] = boolByte(e.bankPendValid)
	offset++
	data[offset] = e.mainData
	offset++
	data[offset] = e.soundData
	offset++
	data[offset] = boolByte(e.irqMain)
	offset++
	data[offset] = boolByte(e.irqSound)
	offset++
	binary.LittleEndian.PutUint16(data[offset:], uint16(e.audioL))
	offset += 2
	binary.LittleEndian.PutUint16(data[offset:], uint16(e.audioR))
	offset += 2
	binary.LittleEndian.PutUint32(data[offset:], uint32(e.sampleTick))
	offset += 4
	return offset
}

func (e *Emulator) deserializeBoard(data []byte, offset int) int {
	e.banks.prog = data[offset]
	offset++
	e.banks.tile = data[offset]
	offset++
	e.banks.sprite = data[offset]
	offset++
	e.bankPend = data[offset]
	offset++
	e.bankPendValid = data[offset] != 0
	offset++
	e.mainData = data[offset]
	offset++
	e.soundData = data[offset]
	offset++
	e.irqMain = data[offset] != 0
	offset++
	e.irqSound = data[offset] != 0
	offset++
	e.audioL = int16(binary.LittleEndian.Uint16(data[offset:]))
	offset += 2
	e.audioR = int16(binary.LittleEndian.Uint16(data[offset:]))
	offset += 2
	e.sampleTick = int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	return offset
}

func (e *Emulator) serializeDPRAM(data []byte, offset int) int {
	copy(data[offset:], e.dpram.mem[:])
	offset += sharedRAMSize
	binary.LittleEndian.PutUint16(data[offset:], e.dpram.hsAddr)
	offset += 2
	data[offset] = e.dpram.hsData
	offset++
	data[offset] = boolByte(e.dpram.hsWrite)
	offset++
	data[offset] = boolByte(e.dpram.hsEnable)
	offset++
	data[offset] = e.dpram.hsDout
	offset++
	return offset
}

func (e *Emulator) deserializeDPRAM(data []byte, offset int) int {
	copy(e.dpram.mem[:], data[offset:offset+sharedRAMSize])
	offset += sharedRAMSize
	e.dpram.hsAddr = binary.LittleEndian.Uint16(data[offset:])
	offset += 2
	e.dpram.hsData = data[offset]
	offset++
	e.dpram.hsWrite = data[offset] != 0
	offset++
	e.dpram.hsEnable = data[offset] != 0
	offset++
	e.dpram.hsDout = data[offset]
	offset++
	return offset
}

func (e *Emulator) serializeArb(data []byte, offset int) int {
	for i := range e.arb.latch {
		l := &e.arb.latch[i]
		data[offset] = boolByte(l.lastPulse)
		offset++
		data[offset] = l.ctr
		offset++
		data[offset] = l.buf
		offset++
		data[offset] = l.committed
		offset++
	}
	data[offset] = e.arb.channel
	offset++
	binary.LittleEndian.PutUint32(data[offset:], e.arb.reqAddr)
	offset += 4
	data[offset] = boolByte(e.arb.req)
	offset++
	data[offset] = e.arb.pendingCh
	offset++
	return offset
}

func (e *Emulator) deserializeArb(data []byte, offset int) int {
	for i := range e.arb.latch {
		l := &e.arb.latch[i]
		l.lastPulse = data[offset] != 0
		offset++
		l.ctr = data[offset] & 3
		offset++
		l.buf = data[offset] & 3
		offset++
		l.committed = data[offset] & 3
		offset++
	}
	e.arb.channel = data[offset] & 1
	offset++
	e.arb.reqAddr = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	e.arb.req = data[offset] != 0
	offset++
	e.arb.pendingCh = data[offset] & 1
	offset++
	return offset
}

func (e *Emulator) serializeGfxMem(data []byte, offset int) int {
	data[offset] = boolByte(e.gfxMem.lastReq)
	offset++
	data[offset] = boolByte(e.gfxMem.ack)
	offset++
	binary.LittleEndian.PutUint16(data[offset:], e.gfxMem.data)
	offset += 2
	binary.LittleEndian.PutUint32(data[offset:], e.gfxMem.pending)
	offset += 4
	binary.LittleEndian.PutUint32(data[offset:], uint32(e.gfxMem.wait))
	offset += 4
	return offset
}

func (e *Emulator) deserializeGfxMem(data []byte, offset int) int {
	e.gfxMem.lastReq = data[offset] != 0
	offset++
	e.gfxMem.ack = data[offset] != 0
	offset++
	e.gfxMem.data = binary.LittleEndian.Uint16(data[offset:])
	offset += 2
	e.gfxMem.pending = binary.LittleEndian.Uint32(data[offset:])
	offset += 4
	e.gfxMem.wait = int(binary.LittleEndian.Uint32(data[offset:]))
	offset += 4
	return offset
}

func (e *Emulator) serializePalette(data []byte, offset int) int {
	copy(data[offset:], e.pal.ram[:])
	offset += paletteEntries * 2
	binary.LittleEndian.PutUint16(data[offset:], e.pal.pendAddr)
	offset += 2
	data[offset] = e.pal.pendData
	offset++
	data[offset] = boolByte(e.pal.pendValid)
	offset++
	return offset
}

func (e *Emulator) deserializePalette(data []byte, offset int) int {
	copy(e.pal.ram[:], data[offset:offset+paletteEntries*2])
	offset += paletteEntries * 2
	e.pal.pendAddr = binary.LittleEndian.Uint16(data[offset:])
	offset += 2
	e.pal.pendData = data[offset]
	offset++
	e.pal.pendValid = data[offset] != 0
	offset++
	return offset
}

func (e *Emulator) serializeFilter(data []byte, offset int) int {
	for _, v := range []float64{
		e.filter.dcL, e.filter.dcR,
		e.filter.hpL, e.filter.hpR,
		e.filter.lpL, e.filter.lpR,
	} {
		binary.LittleEndian.PutUint64(data[offset:], math.Float64bits(v))
		offset += 8
	}
	return offset
}

func (e *Emulator) deserializeFilter(data []byte, offset int) int {
	vals := []*float64{
		&e.filter.dcL, &e.filter.dcR,
		&e.filter.hpL, &e.filter.hpR,
		&e.filter.lpL, &e.filter.lpR,
	}
	for _, p := range vals {
		*p = math.Float64frombits(binary.LittleEndian.Uint64(data[offset:]))
		offset += 8
	}
	return offset
}
