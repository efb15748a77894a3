package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location
// and generated instructions or data.
type Opcode struct {
	LineNo    int
	Ip        int
	Words     []string
	Codes     []Code
	Data      []uint8
	LinkLabel string
}

// Size returns the number of bytes the opcode occupies.
func (op *Opcode) Size() int {
	return 2*len(op.Codes) + len(op.Data)
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug finds the opcode which assembled the address ip.
func (prog *Program) Debug(ip uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(ip) >= op.Ip && int(ip) < op.Ip+op.Size() {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  (int(ip) - op.Ip) / 2,
			}
			break
		}
	}

	return
}

// Binary returns the program image, to be loaded at PROGRAM_START.
func (prog *Program) Binary() (bins []uint8) {
	for _, op := range prog.Opcodes {
		for _, code := range op.Codes {
			bins = append(bins, uint8(code>>8), uint8(code))
		}
		bins = append(bins, op.Data...)
	}

	return
}

// Codes iterates over the instruction words and their addresses.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(ip uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			ip := uint16(op.Ip)
			for n, code := range op.Codes {
				if !yield(ip+uint16(2*n), code) {
					return
				}
			}
		}
	}
}
