package cpu

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		inst Instruction
		text string
	}){
		{0x00E0, Instruction{Op: OP_CLS, Y: 0xe, KK: 0xe0, NNN: 0x0e0}, "cls"},
		{0x00EE, Instruction{Op: OP_RET, Y: 0xe, N: 0xe, KK: 0xee, NNN: 0x0ee}, "ret"},
		{0x1234, Instruction{Op: OP_JP, X: 2, Y: 3, N: 4, KK: 0x34, NNN: 0x234}, "jp 0x234"},
		{0x2456, Instruction{Op: OP_CALL, X: 4, Y: 5, N: 6, KK: 0x56, NNN: 0x456}, "call 0x456"},
		{0x3a12, Instruction{Op: OP_SE_IMM, X: 0xa, Y: 1, N: 2, KK: 0x12, NNN: 0xa12}, "se va 0x12"},
		{0x4b34, Instruction{Op: OP_SNE_IMM, X: 0xb, Y: 3, N: 4, KK: 0x34, NNN: 0xb34}, "sne vb 0x34"},
		{0x5120, Instruction{Op: OP_SE_REG, X: 1, Y: 2, KK: 0x20, NNN: 0x120}, "se v1 v2"},
		{0x6c0f, Instruction{Op: OP_LD_IMM, X: 0xc, N: 0xf, KK: 0x0f, NNN: 0xc0f}, "ld vc 0x0f"},
		{0x7d01, Instruction{Op: OP_ADD_IMM, X: 0xd, N: 1, KK: 0x01, NNN: 0xd01}, "add vd 0x01"},
		{0x8120, Instruction{Op: OP_LD_REG, X: 1, Y: 2, KK: 0x20, NNN: 0x120}, "ld v1 v2"},
		{0x8121, Instruction{Op: OP_OR, X: 1, Y: 2, N: 1, KK: 0x21, NNN: 0x121}, "or v1 v2"},
		{0x8122, Instruction{Op: OP_AND, X: 1, Y: 2, N: 2, KK: 0x22, NNN: 0x122}, "and v1 v2"},
		{0x8123, Instruction{Op: OP_XOR, X: 1, Y: 2, N: 3, KK: 0x23, NNN: 0x123}, "xor v1 v2"},
		{0x8124, Instruction{Op: OP_ADD_REG, X: 1, Y: 2, N: 4, KK: 0x24, NNN: 0x124}, "add v1 v2"},
		{0x8125, Instruction{Op: OP_SUB, X: 1, Y: 2, N: 5, KK: 0x25, NNN: 0x125}, "sub v1 v2"},
		{0x8126, Instruction{Op: OP_SHR, X: 1, Y: 2, N: 6, KK: 0x26, NNN: 0x126}, "shr v1 v2"},
		{0x8127, Instruction{Op: OP_SUBN, X: 1, Y: 2, N: 7, KK: 0x27, NNN: 0x127}, "subn v1 v2"},
		{0x812E, Instruction{Op: OP_SHL, X: 1, Y: 2, N: 0xe, KK: 0x2e, NNN: 0x12e}, "shl v1 v2"},
		{0x9ef0, Instruction{Op: OP_SNE_REG, X: 0xe, Y: 0xf, KK: 0xf0, NNN: 0xef0}, "sne ve vf"},
		{0xA2f0, Instruction{Op: OP_LD_I, X: 2, Y: 0xf, KK: 0xf0, NNN: 0x2f0}, "ld i 0x2f0"},
		{0xB300, Instruction{Op: OP_JP_V0, X: 3, NNN: 0x300}, "jp v0 0x300"},
		{0xC5aa, Instruction{Op: OP_RND, X: 5, Y: 0xa, N: 0xa, KK: 0xaa, NNN: 0x5aa}, "rnd v5 0xaa"},
		{0xD014, Instruction{Op: OP_DRW, X: 0, Y: 1, N: 4, KK: 0x14, NNN: 0x014}, "drw v0 v1 4"},
		{0xF307, Instruction{Op: OP_LD_VX_DT, X: 3, N: 7, KK: 0x07, NNN: 0x307}, "ld v3 dt"},
		{0xF315, Instruction{Op: OP_LD_DT_VX, X: 3, Y: 1, N: 5, KK: 0x15, NNN: 0x315}, "ld dt v3"},
		{0xF318, Instruction{Op: OP_LD_ST_VX, X: 3, Y: 1, N: 8, KK: 0x18, NNN: 0x318}, "ld st v3"},
		{0xF31E, Instruction{Op: OP_ADD_I, X: 3, Y: 1, N: 0xe, KK: 0x1e, NNN: 0x31e}, "add i v3"},
	}

	for _, entry := range table {
		name := fmt.Sprintf("0x%04x", uint16(entry.code))
		inst, err := entry.code.Decode()
		assert.NoError(err, name)
		assert.Equal(entry.inst, inst, name)
		assert.Equal(entry.code, inst.Code(), name)
		assert.Equal(entry.text, entry.code.String(), name)
	}
}

func TestDecode_Invalid(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		err  error
	}){
		{0x0000, ErrUnimplementedOpcode},
		{0x00E1, ErrUnimplementedOpcode},
		{0x0123, ErrUnimplementedOpcode},
		{0x5121, ErrInvalidEncoding},
		{0x512f, ErrInvalidEncoding},
		{0x8128, ErrUnimplementedOpcode},
		{0x812f, ErrUnimplementedOpcode},
		{0x9121, ErrInvalidEncoding},
		{0xE19E, ErrUnimplementedOpcode},
		{0xE1A1, ErrUnimplementedOpcode},
		{0xF129, ErrUnimplementedOpcode},
		{0xF133, ErrUnimplementedOpcode},
		{0xF155, ErrUnimplementedOpcode},
		{0xF165, ErrUnimplementedOpcode},
		{0xF10A, ErrUnimplementedOpcode},
	}

	for _, entry := range table {
		name := fmt.Sprintf("0x%04x", uint16(entry.code))
		inst, err := entry.code.Decode()
		assert.True(errors.Is(err, entry.err), name)
		assert.Equal(OP_INVALID, inst.Op, name)
		assert.Equal(fmt.Sprintf(".word 0x%04x", uint16(entry.code)), entry.code.String(), name)
	}
}

// Every decodable word encodes back to itself, and its disassembly
// assembles back to the same word.
func TestDecode_RoundTrip(t *testing.T) {
	assert := assert.New(t)

	var lines []string
	var words []Code
	for word := range 0x10000 {
		code := Code(word)
		inst, err := code.Decode()
		if err != nil {
			continue
		}
		assert.Equal(code, inst.Code())
		lines = append(lines, code.String())
		words = append(words, code)
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(lines, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	var got []Code
	for _, code := range prog.Codes() {
		got = append(got, code)
	}
	assert.Equal(words, got)
}

func TestCodeOp_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("drw", OP_DRW.String())
	assert.Equal("CodeOp(99)", CodeOp(99).String())
	assert.Equal(Code(0), Instruction{Op: CodeOp(99)}.Code())
}
