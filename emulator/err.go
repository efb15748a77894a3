package emulator

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Ip     uint16
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo == 0 {
		return f("ip %v %v", translate.Hex(err.Ip), err.Err)
	}
	return f("line %d ip %v %v", err.LineNo, translate.Hex(err.Ip), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
