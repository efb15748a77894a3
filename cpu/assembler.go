// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/chip8/memory"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = func() (equ map[string]string) {
	equ = maps.Collect(memory.Defines())
	equ["LINENO"] = "0"
	return
}()

// Assembler is a single pass macro assembler for CHIP-8 programs.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of jump labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regMap is a map of register names to register indexes.
var regMap = map[string]int{
	"v0": 0x0, "v1": 0x1, "v2": 0x2, "v3": 0x3,
	"v4": 0x4, "v5": 0x5, "v6": 0x6, "v7": 0x7,
	"v8": 0x8, "v9": 0x9, "va": 0xa, "vb": 0xb,
	"vc": 0xc, "vd": 0xd, "ve": 0xe, "vf": 0xf,
}

// register returns the register index named by word.
func register(word string) (reg int, err error) {
	reg, ok := regMap[strings.ToLower(word)]
	if !ok {
		err = ErrRegisterInvalid
	}
	return
}

// isRegister returns true if word names a general purpose register.
func isRegister(word string) (ok bool) {
	_, ok = regMap[strings.ToLower(word)]
	return
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if len(word) > 0 && word[0] == '\'' {
		// Character quotes should have been expanded into
		// values in parseLine()
		err = ErrParseCharacter(strings.Trim(word, "'"))
		return
	}
	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// immediate returns the value of word, checking that it fits in bits.
// Negative values are stored as two's complement.
func (asm *Assembler) immediate(word string, bits int) (value uint16, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 >= (1<<bits) || v64 < -(1<<(bits-1)) {
		err = ErrValueRange{Value: v64, Bits: bits}
		return
	}

	mask := int64(1)<<bits - 1
	value = uint16(v64 & mask)
	return
}

// address returns a 12-bit address, or the label to link it to.
func (asm *Assembler) address(word string) (nnn uint16, label string, err error) {
	if len(word) > 0 && (unicode.IsLetter(rune(word[0])) || word[0] == '_') {
		label = word
		return
	}

	nnn, err = asm.immediate(word, 12)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// splitWords splits a line at whitespace and commas.
func splitWords(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

var (
	reCharacter  = regexp.MustCompile(`'\\?[^']'`)
	reExpression = regexp.MustCompile(`\$\([^\$]*\)`)
)

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reCharacter.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "r":
				str = "\r"
			case "e":
				str = "\033"
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reExpression.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = splitWords(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentIp()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = words[1+n]
		}
		defer func() { asm.Equate = old_equate }()

		// Local labels are unique to each expansion.
		local := fmt.Sprintf("%v_%v_", name, lineno)

		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentIp gets the address of the next opcode.
func (asm *Assembler) currentIp() int {
	if len(asm.Opcode) == 0 {
		return memory.PROGRAM_START
	}

	last := &asm.Opcode[len(asm.Opcode)-1]

	return last.Ip + last.Size()
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := splitWords(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
			}
			if len(words) > 2 {
				macro.Args = words[2:]
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		line = strings.Join(op.Words, " ")

		label := op.LinkLabel
		ip, ok := asm.Label[label]
		if !ok {
			err = ErrLabelMissing(label)
			return
		}
		if ip > 0xfff {
			err = errors.Join(ErrTargetInvalid, ErrValueRange{Value: int64(ip), Bits: 12})
			return
		}
		op.Codes[0] |= Code(ip)
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// aluMap maps register-to-register ALU mnemonics.
var aluMap = map[string]CodeOp{
	"or":   OP_OR,
	"and":  OP_AND,
	"xor":  OP_XOR,
	"sub":  OP_SUB,
	"subn": OP_SUBN,
	"shr":  OP_SHR,
	"shl":  OP_SHL,
}

// argCount checks the number of instruction arguments.
func argCount(args []string, low, high int) (err error) {
	switch {
	case len(args) < low:
		err = ErrOpcodeMissing
	case len(args) > high:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []Code
	var data []uint8
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words

	defer func() {
		if len(codes) == 0 && len(data) == 0 {
			return
		}
		opcode := Opcode{LineNo: lineno, Ip: asm.currentIp(), Words: initial_words, Codes: codes, Data: data, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	switch words[0] {
	case ".byte":
		for _, word := range words[1:] {
			var value uint16
			value, err = asm.immediate(word, 8)
			if err != nil {
				data = nil
				return
			}
			data = append(data, uint8(value))
		}
		return
	case ".word":
		for _, word := range words[1:] {
			var value uint16
			value, err = asm.immediate(word, 16)
			if err != nil {
				codes = nil
				return
			}
			codes = append(codes, Code(value))
		}
		return
	}

	var inst Instruction
	inst, label, err = asm.parseInstruction(words)
	if err != nil {
		return
	}

	codes = []Code{inst.Code()}
	return
}

// parseInstruction converts a mnemonic and its arguments to an Instruction.
func (asm *Assembler) parseInstruction(words []string) (inst Instruction, label string, err error) {
	mnemonic := strings.ToLower(words[0])
	args := words[1:]

	arg := func(n int) string {
		return strings.ToLower(args[n])
	}

	// Shared handling of 'OP vx kk' and 'OP vx vy' forms.
	regOrImm := func(op_reg, op_imm CodeOp) {
		err = argCount(args, 2, 2)
		if err != nil {
			return
		}
		inst.X, err = register(args[0])
		if err != nil {
			return
		}
		if isRegister(args[1]) {
			inst.Op = op_reg
			inst.Y, err = register(args[1])
			return
		}
		inst.Op = op_imm
		var kk uint16
		kk, err = asm.immediate(args[1], 8)
		inst.KK = uint8(kk)
	}

	switch mnemonic {
	case "cls":
		err = argCount(args, 0, 0)
		inst.Op = OP_CLS
	case "ret":
		err = argCount(args, 0, 0)
		inst.Op = OP_RET
	case "jp":
		err = argCount(args, 1, 2)
		if err != nil {
			return
		}
		inst.Op = OP_JP
		if len(args) == 2 {
			if arg(0) != "v0" {
				err = ErrRegisterInvalid
				return
			}
			inst.Op = OP_JP_V0
			args = args[1:]
		}
		inst.NNN, label, err = asm.address(args[0])
	case "call":
		err = argCount(args, 1, 1)
		if err != nil {
			return
		}
		inst.Op = OP_CALL
		inst.NNN, label, err = asm.address(args[0])
	case "se":
		regOrImm(OP_SE_REG, OP_SE_IMM)
	case "sne":
		regOrImm(OP_SNE_REG, OP_SNE_IMM)
	case "ld":
		err = argCount(args, 2, 2)
		if err != nil {
			return
		}
		switch {
		case arg(0) == "i":
			inst.Op = OP_LD_I
			inst.NNN, label, err = asm.address(args[1])
		case arg(0) == "dt":
			inst.Op = OP_LD_DT_VX
			inst.X, err = register(args[1])
		case arg(0) == "st":
			inst.Op = OP_LD_ST_VX
			inst.X, err = register(args[1])
		case arg(1) == "dt":
			inst.Op = OP_LD_VX_DT
			inst.X, err = register(args[0])
		default:
			regOrImm(OP_LD_REG, OP_LD_IMM)
		}
	case "add":
		err = argCount(args, 2, 2)
		if err != nil {
			return
		}
		if arg(0) == "i" {
			inst.Op = OP_ADD_I
			inst.X, err = register(args[1])
			return
		}
		regOrImm(OP_ADD_REG, OP_ADD_IMM)
	case "or", "and", "xor", "sub", "subn", "shr", "shl":
		inst.Op = aluMap[mnemonic]
		low := 2
		if inst.Op == OP_SHR || inst.Op == OP_SHL {
			low = 1
		}
		err = argCount(args, low, 2)
		if err != nil {
			return
		}
		inst.X, err = register(args[0])
		if err != nil {
			return
		}
		if len(args) == 2 {
			inst.Y, err = register(args[1])
		}
	case "rnd":
		err = argCount(args, 2, 2)
		if err != nil {
			return
		}
		inst.Op = OP_RND
		inst.X, err = register(args[0])
		if err != nil {
			return
		}
		var kk uint16
		kk, err = asm.immediate(args[1], 8)
		inst.KK = uint8(kk)
	case "drw":
		err = argCount(args, 3, 3)
		if err != nil {
			return
		}
		inst.Op = OP_DRW
		inst.X, err = register(args[0])
		if err != nil {
			return
		}
		inst.Y, err = register(args[1])
		if err != nil {
			return
		}
		var n uint16
		n, err = asm.immediate(args[2], 4)
		inst.N = uint8(n)
	default:
		err = ErrInstructionInvalid
	}

	return
}
