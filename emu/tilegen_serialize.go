package emu

import (
	"encoding/binary"
	"errors"
)

const (
	tilegenSerializeVersion = 1
	// TileGenSerializeSize is the total bytes for one controller:
	// version(1) + regs(8) + tileRAM(4096) + spriteRAM(4096) +
	// h(2) + v(2) + fetch pipeline(8) + attrLines(1) + rawCode(1) +
	// colorOut(1) + linePulse(1) + vblankStart(1) + lineBuf(240)
	TileGenSerializeSize = 1 + 8 + tileRAMSize + spriteRAMSize + 4 + 8 + 5 + ScreenWidth
)

// Serialize writes controller state to buf. The centering and
// compatibility inputs are configuration pins and are not saved.
func (t *TileGen) Serialize(buf []byte) error {
	if len(buf) < TileGenSerializeSize {
		return errors.New("tilegen serialize buffer too small")
	}

	offset := 0
	buf[offset] = tilegenSerializeVersion
	offset++

	copy(buf[offset:], t.regs[:])
	offset += len(t.regs)
	copy(buf[offset:], t.tileRAM[:])
	offset += tileRAMSize
	copy(buf[offset:], t.spriteRAM[:])
	offset += spriteRAMSize

	binary.LittleEndian.PutUint16(buf[offset:], uint16(t.h))
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], uint16(t.v))
	offset += 2

	binary.LittleEndian.PutUint16(buf[offset:], t.tileFetchAddr)
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], t.spriteFetchAddr)
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], t.fetchData)
	offset += 2
	binary.LittleEndian.PutUint16(buf[offset:], t.pixelWord)
	offset += 2

	buf[offset] = t.attrLines
	offset++
	buf[offset] = t.rawCode
	offset++
	buf[offset] = t.colorOut
	offset++
	buf[offset] = boolByte(t.linePulse)
	offset++
	buf[offset] = boolByte(t.vblankStart)
	offset++

	copy(buf[offset:], t.lineBuf[:])

	return nil
}

// Deserialize reads controller state from buf.
func (t *TileGen) Deserialize(buf []byte) error {
	if len(buf) < TileGenSerializeSize {
		return errors.New("tilegen deserialize buffer too small")
	}

	offset := 0
	version := buf[offset]
	offset++
	if version > tilegenSerializeVersion {
		return errors.New("unsupported tilegen state version")
	}

	copy(t.regs[:], buf[offset:])
	offset += len(t.regs)
	copy(t.tileRAM[:], buf[offset:offset+tileRAMSize])
	offset += tileRAMSize
	copy(t.spriteRAM[:], buf[offset:offset+spriteRAMSize])
	offset += spriteRAMSize

	t.h = int(binary.LittleEndian.Uint16(buf[offset:])) % hTotal
	offset += 2
	t.v = int(binary.LittleEndian.Uint16(buf[offset:])) % vTotal
	offset += 2

	t.tileFetchAddr = binary.LittleEndian.Uint16(buf[offset:])
	offset += 2
	t.spriteFetchAddr = binary.LittleEndian.Uint16(buf[offset:])
	offset += 2
	t.fetchData = binary.LittleEndian.Uint16(buf[offset:])
	offset += 2
	t.pixelWord = binary.LittleEndian.Uint16(buf[offset:])
	offset += 2

	t.attrLines = buf[offset]
	offset++
	t.rawCode = buf[offset]
	offset++
	t.colorOut = buf[offset]
	offset++
	t.linePulse = buf[offset] != 0
	offset++
	t.vblankStart = buf[offset] != 0
	offset++

	copy(t.lineBuf[:], buf[offset:offset+ScreenWidth])

	return nil
}
