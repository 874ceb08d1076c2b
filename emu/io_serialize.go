package emu

import (
	"encoding/binary"
	"errors"
)

const (
	ioSerializeVersion = 1
	// IOSerializeSize is the total bytes needed for IO serialization.
	// version(1) + irqEnable(1) + coinCounter(8) + watchdog(4) +
	// dsw1(1) + dsw2(1) + dsw3(1) + rotary positions(2)
	IOSerializeSize = 19
)

// Serialize writes IO state to buf. Inputs model physical controls and
// are not saved, except the rotary encoder positions, which the game
// program tracks.
func (io *IO) Serialize(buf []byte) error {
	if len(buf) < IOSerializeSize {
		return errors.New("IO serialize buffer too small")
	}

	offset := 0
	buf[offset] = ioSerializeVersion
	offset++
	buf[offset] = io.irqEnable
	offset++
	binary.LittleEndian.PutUint32(buf[offset:], io.coinCounter[0])
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], io.coinCounter[1])
	offset += 4
	binary.LittleEndian.PutUint32(buf[offset:], uint32(io.watchdog))
	offset += 4
	buf[offset] = io.dsw1
	offset++
	buf[offset] = io.dsw2
	offset++
	buf[offset] = io.dsw3
	offset++
	buf[offset] = io.InputP1.rotaryPos
	offset++
	buf[offset] = io.InputP2.rotaryPos
	offset++

	return nil
}

// Deserialize reads IO state from buf.
func (io *IO) Deserialize(buf []byte) error {
	if len(buf) < IOSerializeSize {
		return errors.New("IO deserialize buffer too small")
	}

	offset := 0
	version := buf[offset]
	offset++
	if version > ioSerializeVersion {
		return errors.New("unsupported IO state version")
	}

	io.irqEnable = buf[offset]
	offset++
	io.coinCounter[0] = binary.LittleEndian.Uint32(buf[offset:])
	offset += 4
	io.coinCounter[1] = binary.LittleEndian.Uint32(buf[offset:])
	offset += 4
	io.watchdog = int(binary.LittleEndian.Uint32(buf[offset:]))
	offset += 4
	io.dsw1 = buf[offset]
	offset++
	io.dsw2 = buf[offset]
	offset++
	io.dsw3 = buf[offset]
	offset++
	io.InputP1.rotaryPos = buf[offset] & 7
	offset++
	io.InputP2.rotaryPos = buf[offset] & 7
	offset++

	return nil
}
