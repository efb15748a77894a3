// Package display implements the monochrome CHIP-8 frame buffer.
package display

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"strings"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

const (
	SCREEN_WIDTH  = 64 // Columns.
	SCREEN_HEIGHT = 32 // Rows.
)

var (
	ErrRowInvalid = errors.New(f("display row out of bounds"))
)

var _display_defines = map[string]string{
	"SCREEN_WIDTH":  fmt.Sprintf("%v", SCREEN_WIDTH),
	"SCREEN_HEIGHT": fmt.Sprintf("%v", SCREEN_HEIGHT),
}

// Defines for the display geometry.
func Defines() iter.Seq2[string, string] {
	return maps.All(_display_defines)
}

// Screen is a row-major grid of pixels.
type Screen struct {
	Pixel [SCREEN_HEIGHT][SCREEN_WIDTH]bool
}

// Clear turns off every pixel.
func (scr *Screen) Clear() {
	for y := range scr.Pixel {
		clear(scr.Pixel[y][:])
	}
}

// Get returns the pixel at (x, y). Out of range pixels read as off.
func (scr *Screen) Get(x, y int) bool {
	if x < 0 || x >= SCREEN_WIDTH || y < 0 || y >= SCREEN_HEIGHT {
		return false
	}
	return scr.Pixel[y][x]
}

// DrawRow writes the 8 bits of row, MSB first, starting at column x of
// screen row y. Pixels are overwritten, not toggled. Columns past the
// right edge are clipped. Returns whether any pixel changed value.
func (scr *Screen) DrawRow(x, y int, row uint8) (changed bool, err error) {
	if y < 0 || y >= SCREEN_HEIGHT {
		err = fmt.Errorf("%w: %d", ErrRowInvalid, y)
		return
	}

	line := &scr.Pixel[y]
	for i := range min(8, SCREEN_WIDTH-x) {
		if x+i < 0 {
			continue
		}
		state := ((row >> (7 - i)) & 1) != 0
		if line[x+i] != state {
			changed = true
		}
		line[x+i] = state
	}

	return
}

// Rows iterates over each screen row.
func (scr *Screen) Rows() iter.Seq2[int, []bool] {
	return func(yield func(y int, row []bool) bool) {
		for y := range scr.Pixel {
			if !yield(y, scr.Pixel[y][:]) {
				return
			}
		}
	}
}

// String renders the screen, one line per row, '#' for lit pixels.
func (scr *Screen) String() string {
	var sb strings.Builder
	for _, row := range scr.Rows() {
		for _, lit := range row {
			if lit {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
