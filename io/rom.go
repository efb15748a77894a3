package io

import (
	"fmt"
	"io"
	"io/fs"
	"iter"
	"maps"

	"github.com/ezrec/chip8/memory"
)

// ROM_SIZE is the largest program image that fits in memory.
const ROM_SIZE = memory.PROGRAM_SIZE

var _rom_defines = map[string]string{
	"ROM_SIZE": fmt.Sprintf("%#x", ROM_SIZE),
}

// Rom is a raw CHIP-8 program image, as found in .ch8 files.
type Rom struct {
	Data []uint8
}

// Defines returns an iter of defines for the ROM.
func (rom *Rom) Defines() iter.Seq2[string, string] {
	return maps.All(_rom_defines)
}

// Unmarshal reads an image from file. Images larger than ROM_SIZE are
// truncated and ErrLoadOversized is returned.
func (rom *Rom) Unmarshal(file io.Reader) (err error) {
	data, err := io.ReadAll(io.LimitReader(file, ROM_SIZE+1))
	if err != nil {
		return
	}

	if len(data) > ROM_SIZE {
		data = data[:ROM_SIZE]
		err = fmt.Errorf("%w: more than %d bytes", ErrLoadOversized, ROM_SIZE)
	}

	rom.Data = data

	return
}

// Marshal writes the image to file.
func (rom *Rom) Marshal(file io.Writer) (err error) {
	_, err = file.Write(rom.Data)

	return
}

// Open reads the named image from a file system.
func (rom *Rom) Open(filesys fs.FS, name string) (err error) {
	file, err := filesys.Open(name)
	if err != nil {
		return
	}
	defer file.Close()

	err = rom.Unmarshal(file)
	return
}

// Save writes the image to the named file of a file system.
func (rom *Rom) Save(filesys CreateFS, name string) (err error) {
	file, err := filesys.Create(name)
	if err != nil {
		return
	}

	err = rom.Marshal(file)
	if err != nil {
		file.Close()
		return
	}

	err = file.Close()
	return
}
