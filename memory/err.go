package memory

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrOutOfBounds   = errors.New(f("memory out of bounds"))
	ErrLoadOversized = errors.New(f("program image oversized"))
)
