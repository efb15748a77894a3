package io

import (
	"errors"

	"github.com/ezrec/chip8/memory"
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Image errors
	ErrLoadOversized = memory.ErrLoadOversized

	// Terminal errors
	ErrTerminalOutput = errors.New(f("terminal has no output"))
)
