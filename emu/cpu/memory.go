package cpu

import "fmt"

const (
	MemorySize   = 4096
	ProgramStart = 0x200
	FontStart    = 0x000
	GlyphSize    = 5

	maxRomSize = MemorySize - ProgramStart
)

// FontSet holds the 16 hexadecimal digit glyphs, 5 bytes each.
var FontSet = [80]uint8{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the 4K address space of the machine.
type Memory [MemorySize]uint8

func outOfBounds(addr int) error {
	return fmt.Errorf("%w: %#04x", ErrMemoryOutOfBounds, addr)
}

// Load copies data into memory starting at offset. Nothing is written when
// the data does not fit.
func (m *Memory) Load(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > MemorySize {
		return fmt.Errorf("%w: %d bytes at %#04x exceeds %d bytes of memory", ErrRomTooLarge, len(data), offset, MemorySize)
	}
	copy(m[offset:], data)
	return nil
}

func (m *Memory) ReadByte(addr uint16) (uint8, error) {
	if int(addr) >= MemorySize {
		return 0, outOfBounds(int(addr))
	}
	return m[addr], nil
}

func (m *Memory) WriteByte(addr uint16, value uint8) error {
	if int(addr) >= MemorySize {
		return outOfBounds(int(addr))
	}
	m[addr] = value
	return nil
}

// Slice returns the n bytes starting at addr. The returned slice aliases
// memory so callers can write through it once the whole range is known to
// be valid.
func (m *Memory) Slice(addr uint16, n int) ([]uint8, error) {
	if n < 0 {
		return nil, outOfBounds(int(addr) + n)
	}
	end := int(addr) + n
	if end > MemorySize {
		return nil, outOfBounds(end - 1)
	}
	return m[addr:end], nil
}

func (m *Memory) loadFont() {
	copy(m[FontStart:], FontSet[:])
}
