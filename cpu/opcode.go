package cpu

import (
	"fmt"
)

// CodeClass is the top nibble of an instruction word.
type CodeClass int

// CodeOp identifies a decoded instruction.
type CodeOp int

const (
	OP_INVALID  = CodeOp(iota) // invalid
	OP_CLS                     // 00E0 cls
	OP_RET                     // 00EE ret
	OP_JP                      // 1nnn jp nnn
	OP_CALL                    // 2nnn call nnn
	OP_SE_IMM                  // 3xkk se vx kk
	OP_SNE_IMM                 // 4xkk sne vx kk
	OP_SE_REG                  // 5xy0 se vx vy
	OP_LD_IMM                  // 6xkk ld vx kk
	OP_ADD_IMM                 // 7xkk add vx kk
	OP_LD_REG                  // 8xy0 ld vx vy
	OP_OR                      // 8xy1 or vx vy
	OP_AND                     // 8xy2 and vx vy
	OP_XOR                     // 8xy3 xor vx vy
	OP_ADD_REG                 // 8xy4 add vx vy
	OP_SUB                     // 8xy5 sub vx vy
	OP_SHR                     // 8xy6 shr vx vy
	OP_SUBN                    // 8xy7 subn vx vy
	OP_SHL                     // 8xyE shl vx vy
	OP_SNE_REG                 // 9xy0 sne vx vy
	OP_LD_I                    // Annn ld i nnn
	OP_JP_V0                   // Bnnn jp v0 nnn
	OP_RND                     // Cxkk rnd vx kk
	OP_DRW                     // Dxyn drw vx vy n
	OP_LD_VX_DT                // Fx07 ld vx dt
	OP_LD_DT_VX                // Fx15 ld dt vx
	OP_LD_ST_VX                // Fx18 ld st vx
	OP_ADD_I                   // Fx1E add i vx
)

// opForm describes which operand fields an instruction encodes.
type opForm int

const (
	FORM_NONE = opForm(iota) // no operands
	FORM_NNN                 // 12-bit address
	FORM_XKK                 // register, byte
	FORM_XY                  // register, register
	FORM_XYN                 // register, register, nibble
	FORM_X                   // register
)

type opInfo struct {
	Name string // Assembler mnemonic.
	Base uint16 // Instruction word with all operand fields zero.
	Form opForm
}

var opTable = [...]opInfo{
	OP_INVALID:  {".word", 0x0000, FORM_NONE},
	OP_CLS:      {"cls", 0x00E0, FORM_NONE},
	OP_RET:      {"ret", 0x00EE, FORM_NONE},
	OP_JP:       {"jp", 0x1000, FORM_NNN},
	OP_CALL:     {"call", 0x2000, FORM_NNN},
	OP_SE_IMM:   {"se", 0x3000, FORM_XKK},
	OP_SNE_IMM:  {"sne", 0x4000, FORM_XKK},
	OP_SE_REG:   {"se", 0x5000, FORM_XY},
	OP_LD_IMM:   {"ld", 0x6000, FORM_XKK},
	OP_ADD_IMM:  {"add", 0x7000, FORM_XKK},
	OP_LD_REG:   {"ld", 0x8000, FORM_XY},
	OP_OR:       {"or", 0x8001, FORM_XY},
	OP_AND:      {"and", 0x8002, FORM_XY},
	OP_XOR:      {"xor", 0x8003, FORM_XY},
	OP_ADD_REG:  {"add", 0x8004, FORM_XY},
	OP_SUB:      {"sub", 0x8005, FORM_XY},
	OP_SHR:      {"shr", 0x8006, FORM_XY},
	OP_SUBN:     {"subn", 0x8007, FORM_XY},
	OP_SHL:      {"shl", 0x800E, FORM_XY},
	OP_SNE_REG:  {"sne", 0x9000, FORM_XY},
	OP_LD_I:     {"ld", 0xA000, FORM_NNN},
	OP_JP_V0:    {"jp", 0xB000, FORM_NNN},
	OP_RND:      {"rnd", 0xC000, FORM_XKK},
	OP_DRW:      {"drw", 0xD000, FORM_XYN},
	OP_LD_VX_DT: {"ld", 0xF007, FORM_X},
	OP_LD_DT_VX: {"ld", 0xF015, FORM_X},
	OP_LD_ST_VX: {"ld", 0xF018, FORM_X},
	OP_ADD_I:    {"add", 0xF01E, FORM_X},
}

// String returns the mnemonic of the operation.
func (op CodeOp) String() string {
	if op < 0 || int(op) >= len(opTable) {
		return fmt.Sprintf("CodeOp(%d)", int(op))
	}
	return opTable[op].Name
}

// Code is a single 16-bit instruction word.
type Code uint16

// Class returns the opcode class (top nibble).
func (code Code) Class() CodeClass {
	return CodeClass((code >> 12) & 0xf)
}

// X returns the first register operand field.
func (code Code) X() int {
	return int((code >> 8) & 0xf)
}

// Y returns the second register operand field.
func (code Code) Y() int {
	return int((code >> 4) & 0xf)
}

// N returns the low nibble.
func (code Code) N() uint8 {
	return uint8(code & 0xf)
}

// KK returns the low byte.
func (code Code) KK() uint8 {
	return uint8(code & 0xff)
}

// NNN returns the low 12 bits.
func (code Code) NNN() uint16 {
	return uint16(code & 0xfff)
}

// Instruction is a decoded instruction word. Only the fields used by the
// Op's form are meaningful.
type Instruction struct {
	Op  CodeOp
	X   int
	Y   int
	N   uint8
	KK  uint8
	NNN uint16
}

// Decode converts the instruction word into an Instruction.
func (code Code) Decode() (inst Instruction, err error) {
	inst = Instruction{
		X:   code.X(),
		Y:   code.Y(),
		N:   code.N(),
		KK:  code.KK(),
		NNN: code.NNN(),
	}

	switch code.Class() {
	case 0x0:
		switch code {
		case 0x00E0:
			inst.Op = OP_CLS
		case 0x00EE:
			inst.Op = OP_RET
		default:
			err = ErrUnimplementedOpcode
		}
	case 0x1:
		inst.Op = OP_JP
	case 0x2:
		inst.Op = OP_CALL
	case 0x3:
		inst.Op = OP_SE_IMM
	case 0x4:
		inst.Op = OP_SNE_IMM
	case 0x5:
		if inst.N != 0 {
			err = ErrInvalidEncoding
			break
		}
		inst.Op = OP_SE_REG
	case 0x6:
		inst.Op = OP_LD_IMM
	case 0x7:
		inst.Op = OP_ADD_IMM
	case 0x8:
		switch inst.N {
		case 0x0:
			inst.Op = OP_LD_REG
		case 0x1:
			inst.Op = OP_OR
		case 0x2:
			inst.Op = OP_AND
		case 0x3:
			inst.Op = OP_XOR
		case 0x4:
			inst.Op = OP_ADD_REG
		case 0x5:
			inst.Op = OP_SUB
		case 0x6:
			inst.Op = OP_SHR
		case 0x7:
			inst.Op = OP_SUBN
		case 0xE:
			inst.Op = OP_SHL
		default:
			err = ErrUnimplementedOpcode
		}
	case 0x9:
		if inst.N != 0 {
			err = ErrInvalidEncoding
			break
		}
		inst.Op = OP_SNE_REG
	case 0xA:
		inst.Op = OP_LD_I
	case 0xB:
		inst.Op = OP_JP_V0
	case 0xC:
		inst.Op = OP_RND
	case 0xD:
		inst.Op = OP_DRW
	case 0xE:
		// Keypad skips are not part of this machine.
		err = ErrUnimplementedOpcode
	case 0xF:
		switch inst.KK {
		case 0x07:
			inst.Op = OP_LD_VX_DT
		case 0x15:
			inst.Op = OP_LD_DT_VX
		case 0x18:
			inst.Op = OP_LD_ST_VX
		case 0x1E:
			inst.Op = OP_ADD_I
		default:
			err = ErrUnimplementedOpcode
		}
	}

	return
}

// Code encodes the instruction as an instruction word.
func (inst Instruction) Code() (code Code) {
	if inst.Op < 0 || int(inst.Op) >= len(opTable) {
		inst.Op = OP_INVALID
	}
	info := opTable[inst.Op]
	word := info.Base

	x := uint16(inst.X&0xf) << 8
	y := uint16(inst.Y&0xf) << 4

	switch info.Form {
	case FORM_NONE:
	case FORM_NNN:
		word |= inst.NNN & 0xfff
	case FORM_XKK:
		word |= x | uint16(inst.KK)
	case FORM_XY:
		word |= x | y
	case FORM_XYN:
		word |= x | y | uint16(inst.N&0xf)
	case FORM_X:
		word |= x
	}

	code = Code(word)
	return
}

// String returns the assembly language form of the instruction.
func (inst Instruction) String() string {
	name := inst.Op.String()
	switch inst.Op {
	case OP_INVALID:
		return name
	case OP_LD_I:
		return fmt.Sprintf("%v i 0x%03x", name, inst.NNN)
	case OP_JP_V0:
		return fmt.Sprintf("%v v0 0x%03x", name, inst.NNN)
	case OP_LD_VX_DT:
		return fmt.Sprintf("%v v%x dt", name, inst.X)
	case OP_LD_DT_VX:
		return fmt.Sprintf("%v dt v%x", name, inst.X)
	case OP_LD_ST_VX:
		return fmt.Sprintf("%v st v%x", name, inst.X)
	case OP_ADD_I:
		return fmt.Sprintf("%v i v%x", name, inst.X)
	}

	switch opTable[inst.Op].Form {
	case FORM_NNN:
		return fmt.Sprintf("%v 0x%03x", name, inst.NNN)
	case FORM_XKK:
		return fmt.Sprintf("%v v%x 0x%02x", name, inst.X, inst.KK)
	case FORM_XY:
		return fmt.Sprintf("%v v%x v%x", name, inst.X, inst.Y)
	case FORM_XYN:
		return fmt.Sprintf("%v v%x v%x %d", name, inst.X, inst.Y, inst.N)
	case FORM_X:
		return fmt.Sprintf("%v v%x", name, inst.X)
	}

	return name
}

// String returns the assembly language form of the instruction word.
// Undecodable words are shown as data.
func (code Code) String() string {
	inst, err := code.Decode()
	if err != nil {
		return fmt.Sprintf(".word 0x%04x", uint16(code))
	}

	return inst.String()
}
