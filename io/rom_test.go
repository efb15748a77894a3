package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestRom_Unmarshal(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}

	err := rom.Unmarshal(bytes.NewReader([]byte{0x12, 0x00}))
	assert.NoError(err)
	assert.Equal([]uint8{0x12, 0x00}, rom.Data)

	err = rom.Unmarshal(bytes.NewReader(nil))
	assert.NoError(err)
	assert.Equal(0, len(rom.Data))
}

func TestRom_Unmarshal_Exact(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}

	err := rom.Unmarshal(bytes.NewReader(make([]byte, ROM_SIZE)))
	assert.NoError(err)
	assert.Equal(ROM_SIZE, len(rom.Data))
}

func TestRom_Unmarshal_Oversized(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}

	image := make([]byte, ROM_SIZE+10)
	image[ROM_SIZE-1] = 0xaa
	image[ROM_SIZE] = 0xbb

	err := rom.Unmarshal(bytes.NewReader(image))
	assert.True(errors.Is(err, ErrLoadOversized))
	assert.Equal(ROM_SIZE, len(rom.Data))
	assert.Equal(uint8(0xaa), rom.Data[ROM_SIZE-1])
}

func TestRom_Open(t *testing.T) {
	assert := assert.New(t)

	filesys := fstest.MapFS{
		"games/pong.ch8": &fstest.MapFile{Data: []byte{0x6a, 0x02, 0x6b, 0x0c}},
	}

	rom := &Rom{}
	err := rom.Open(filesys, "games/pong.ch8")
	assert.NoError(err)
	assert.Equal([]uint8{0x6a, 0x02, 0x6b, 0x0c}, rom.Data)

	err = rom.Open(filesys, "games/missing.ch8")
	assert.Error(err)
}

func TestRom_Save(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()

	rom := &Rom{Data: []uint8{0x00, 0xe0, 0x12, 0x02}}
	err := rom.Save(DirFS(dir), "out.ch8")
	assert.NoError(err)

	data, err := os.ReadFile(filepath.Join(dir, "out.ch8"))
	assert.NoError(err)
	assert.Equal(rom.Data, data)

	back := &Rom{}
	err = back.Open(os.DirFS(dir), "out.ch8")
	assert.NoError(err)
	assert.Equal(rom.Data, back.Data)

	err = rom.Save(DirFS(filepath.Join(dir, "missing")), "out.ch8")
	assert.Error(err)
}

func TestRom_Defines(t *testing.T) {
	assert := assert.New(t)

	rom := &Rom{}
	defines := map[string]string{}
	for key, value := range rom.Defines() {
		defines[key] = value
	}

	assert.Equal("0xe00", defines["ROM_SIZE"])
}
