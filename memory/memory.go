// Package memory implements the flat, bounds-checked byte memory of the
// CHIP-8 machine, including its resident glyph table and program region.
package memory

import (
	"fmt"
	"iter"
	"maps"
)

const (
	MEMORY_SIZE   = 4096                        // Total addressable bytes.
	PROGRAM_START = 0x200                       // First byte of the program image.
	PROGRAM_SIZE  = MEMORY_SIZE - PROGRAM_START // Largest loadable program image.
)

var _memory_defines = map[string]string{
	"MEMORY_SIZE":   fmt.Sprintf("%#x", MEMORY_SIZE),
	"PROGRAM_START": fmt.Sprintf("%#x", PROGRAM_START),
	"FONT_BASE":     fmt.Sprintf("%#x", FONT_BASE),
}

func init() {
	for digit := range uint8(GLYPH_COUNT) {
		_memory_defines[fmt.Sprintf("GLYPH_%X", digit)] = fmt.Sprintf("%#x", GlyphAddress(digit))
	}
}

// Defines for the memory map.
func Defines() iter.Seq2[string, string] {
	return maps.All(_memory_defines)
}

// Memory is the machine's byte-addressable store.
type Memory struct {
	Data [MEMORY_SIZE]uint8
}

// New returns a zeroed memory with the glyph table loaded.
func New() (mem *Memory) {
	mem = &Memory{}
	mem.LoadGlyphs()
	return
}

// Reset zeroes all of memory and reloads the glyph table.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
	mem.LoadGlyphs()
}

// check verifies that [addr, addr+size) lies within memory.
func (mem *Memory) check(addr int, size int) (err error) {
	if addr < 0 || size < 0 || addr+size > len(mem.Data) {
		err = fmt.Errorf("%w: 0x%04x+%d", ErrOutOfBounds, addr, size)
	}
	return
}

// Read returns the byte at addr.
func (mem *Memory) Read(addr int) (value uint8, err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}

	value = mem.Data[addr]
	return
}

// Write stores a byte at addr.
func (mem *Memory) Write(addr int, value uint8) (err error) {
	err = mem.check(addr, 1)
	if err != nil {
		return
	}

	mem.Data[addr] = value
	return
}

// Word returns the big-endian 16-bit word at [addr, addr+1].
func (mem *Memory) Word(addr int) (word uint16, err error) {
	err = mem.check(addr, 2)
	if err != nil {
		return
	}

	word = uint16(mem.Data[addr])<<8 | uint16(mem.Data[addr+1])
	return
}

// Slice returns the bytes [addr, addr+size). The slice aliases memory.
func (mem *Memory) Slice(addr int, size int) (data []uint8, err error) {
	err = mem.check(addr, size)
	if err != nil {
		return
	}

	data = mem.Data[addr : addr+size]
	return
}

// Load copies a program image into the program region.
// The remainder of the region is zero filled. An image larger than the
// region is truncated, and ErrLoadOversized is returned.
func (mem *Memory) Load(image []uint8) (err error) {
	region := mem.Data[PROGRAM_START:]
	n := copy(region, image)
	clear(region[n:])

	if len(image) > len(region) {
		err = fmt.Errorf("%w: %d > %d", ErrLoadOversized, len(image), len(region))
	}

	return
}
