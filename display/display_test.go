package display

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScreen_Clear(t *testing.T) {
	assert := assert.New(t)

	scr := &Screen{}
	scr.Pixel[0][0] = true
	scr.Pixel[31][63] = true
	scr.Pixel[12][40] = true

	scr.Clear()

	for y := range SCREEN_HEIGHT {
		for x := range SCREEN_WIDTH {
			assert.False(scr.Get(x, y))
		}
	}
}

func TestScreen_DrawRow_Overwrite(t *testing.T) {
	assert := assert.New(t)

	scr := &Screen{}

	changed, err := scr.DrawRow(10, 0, 0b00111100)
	assert.NoError(err)
	assert.True(changed)

	for x := 10; x < 18; x++ {
		assert.Equal(x >= 12 && x <= 15, scr.Get(x, 0), "x=%d", x)
	}

	// Same bits again do not toggle.
	changed, err = scr.DrawRow(10, 0, 0b00111100)
	assert.NoError(err)
	assert.False(changed)
	assert.True(scr.Get(12, 0))

	// Zero bits clear pixels that were set.
	changed, err = scr.DrawRow(10, 0, 0)
	assert.NoError(err)
	assert.True(changed)
	assert.False(scr.Get(12, 0))
}

func TestScreen_DrawRow_Clip(t *testing.T) {
	assert := assert.New(t)

	scr := &Screen{}

	changed, err := scr.DrawRow(60, 5, 0xff)
	assert.NoError(err)
	assert.True(changed)
	for x := 60; x < SCREEN_WIDTH; x++ {
		assert.True(scr.Get(x, 5))
	}
	// No horizontal wraparound.
	for x := 0; x < 4; x++ {
		assert.False(scr.Get(x, 5))
		assert.False(scr.Get(x, 6))
	}

	changed, err = scr.DrawRow(200, 5, 0xff)
	assert.NoError(err)
	assert.False(changed)
}

func TestScreen_DrawRow_RowInvalid(t *testing.T) {
	assert := assert.New(t)

	scr := &Screen{}

	_, err := scr.DrawRow(0, SCREEN_HEIGHT-1, 0x80)
	assert.NoError(err)

	_, err = scr.DrawRow(0, SCREEN_HEIGHT, 0x80)
	assert.True(errors.Is(err, ErrRowInvalid))

	_, err = scr.DrawRow(0, -1, 0x80)
	assert.True(errors.Is(err, ErrRowInvalid))
}

func TestScreen_String(t *testing.T) {
	assert := assert.New(t)

	scr := &Screen{}
	_, err := scr.DrawRow(0, 0, 0b10100000)
	assert.NoError(err)

	lines := strings.Split(strings.TrimSuffix(scr.String(), "\n"), "\n")
	assert.Equal(SCREEN_HEIGHT, len(lines))
	assert.Equal("#.#"+strings.Repeat(".", SCREEN_WIDTH-3), lines[0])
	assert.Equal(strings.Repeat(".", SCREEN_WIDTH), lines[1])
}
