package memory

import (
	"log"
)

const (
	FONT_BASE   = 0x000 // Address of the glyph table.
	GLYPH_ROWS  = 5     // Rows per glyph.
	GLYPH_COUNT = 16    // Glyphs 0-F.
)

// glyphs are the hexadecimal digit sprites, one MSB-first byte per row.
var glyphs = [GLYPH_COUNT * GLYPH_ROWS]uint8{
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

// LoadGlyphs copies the glyph table into memory at FONT_BASE.
func (mem *Memory) LoadGlyphs() {
	copy(mem.Data[FONT_BASE:], glyphs[:])
}

// GlyphAddress returns the address of the sprite for a hex digit.
// Digits outside 0-F are logged and resolve to the table base.
func GlyphAddress(digit uint8) uint16 {
	if digit >= GLYPH_COUNT {
		log.Printf("memory: no glyph for digit 0x%x", digit)
		return FONT_BASE
	}

	return FONT_BASE + uint16(digit)*GLYPH_ROWS
}
