package cpu

import (
	"errors"
	"fmt"
	"log"

	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/memory"
	"github.com/ezrec/chip8/timer"
)

const (
	REGISTER_COUNT = 16  // General purpose registers v0-vf.
	REG_VF         = 0xf // Flag register.
)

// Registers is the general purpose register file.
type Registers [REGISTER_COUNT]uint8

// Cpu is the CHIP-8 interpreter and the machine state it owns.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory *memory.Memory  // Program and glyph memory.
	Screen *display.Screen // Frame buffer.
	Delay  *timer.Timer    // Delay timer.
	Sound  *timer.Timer    // Sound timer.
	Random Random          // Source for RND.

	Ip       uint16    // Current instruction pointer.
	I        uint16    // Address register.
	Register Registers // Register bank.
	Stack    Stack     // Call stack.

	Ticks int // Instructions executed.
}

// NewCpu creates a CPU whose timers run on clock and whose RND draws
// from random. Nil capabilities select the system clock and a freshly
// seeded generator.
func NewCpu(clock timer.Clock, random Random) (cpu *Cpu) {
	if clock == nil {
		clock = timer.SystemClock{}
	}
	if random == nil {
		random = NewRandom()
	}

	cpu = &Cpu{
		Memory: memory.New(),
		Screen: &display.Screen{},
		Delay:  timer.New(clock),
		Sound:  timer.New(clock),
		Random: random,
		Ip:     memory.PROGRAM_START,
	}

	return
}

// Reset the CPU state.
// - Clears the registers, address register and stack.
// - Clears the screen and expires both timers.
// - Sets the IP to the start of the program region.
//
// Memory is left untouched.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	cpu.I = 0
	cpu.Stack.Reset()
	cpu.Screen.Clear()
	cpu.Delay.Reset()
	cpu.Sound.Reset()
	cpu.Ip = memory.PROGRAM_START
	cpu.Ticks = 0
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("% 5s: %03X\n", "ip", cpu.Ip)
	text += fmt.Sprintf("% 5s: %03X\n", "i", cpu.I)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %02X\n", fmt.Sprintf("v%x", n), val)
	}
	strval := "---"
	val, ok := cpu.Stack.Peek()
	if ok {
		strval = fmt.Sprintf("%03X", val)
	}
	text += fmt.Sprintf("% 5s: %v (%d)\n", "stack", strval, cpu.Stack.Sp)
	text += fmt.Sprintf("% 5s: %d\n", "dt", cpu.Delay.Remaining())
	text += fmt.Sprintf("% 5s: %d\n", "st", cpu.Sound.Remaining())

	return
}

// FetchCode reads the instruction word at the IP.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	word, err := cpu.Memory.Word(int(cpu.Ip))
	if err != nil {
		return
	}

	code = Code(word)
	return
}

// Step executes a single fetch-decode-execute cycle.
func (cpu *Cpu) Step() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)
	return
}

// Execute executes a single instruction word. The IP is advanced past
// the instruction before it is dispatched.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("cpu: %03x: %v", cpu.Ip, code)
	}

	cpu.Ip += 2

	inst, err := code.Decode()
	if err != nil {
		return
	}

	v := &cpu.Register
	vx := v[inst.X]
	vy := v[inst.Y]

	switch inst.Op {
	case OP_CLS:
		cpu.Screen.Clear()
	case OP_RET:
		ip, ok := cpu.Stack.Pop()
		if !ok {
			err = ErrStackUnderflow
			return
		}
		cpu.Ip = ip
	case OP_JP:
		cpu.Ip = inst.NNN
	case OP_CALL:
		if !cpu.Stack.Push(cpu.Ip) {
			err = ErrStackOverflow
			return
		}
		cpu.Ip = inst.NNN
	case OP_SE_IMM:
		if vx == inst.KK {
			cpu.Ip += 2
		}
	case OP_SNE_IMM:
		if vx != inst.KK {
			cpu.Ip += 2
		}
	case OP_SE_REG:
		if vx == vy {
			cpu.Ip += 2
		}
	case OP_SNE_REG:
		if vx != vy {
			cpu.Ip += 2
		}
	case OP_LD_IMM:
		v[inst.X] = inst.KK
	case OP_ADD_IMM:
		v[inst.X] = vx + inst.KK
	case OP_LD_REG:
		v[inst.X] = vy
	case OP_OR:
		v[inst.X] = vx | vy
	case OP_AND:
		v[inst.X] = vx & vy
	case OP_XOR:
		v[inst.X] = vx ^ vy
	case OP_ADD_REG:
		sum := uint16(vx) + uint16(vy)
		v[inst.X] = uint8(sum)
		v[REG_VF] = uint8(sum >> 8)
	case OP_SUB:
		v[inst.X] = vx - vy
		v[REG_VF] = flag(vx >= vy)
	case OP_SHR:
		v[REG_VF] = vx & 1
		v[inst.X] = vx >> 1
	case OP_SUBN:
		v[inst.X] = vy - vx
		v[REG_VF] = flag(vy >= vx)
	case OP_SHL:
		v[REG_VF] = vx >> 7
		v[inst.X] = vx << 1
	case OP_LD_I:
		cpu.I = inst.NNN
	case OP_JP_V0:
		cpu.Ip = inst.NNN + uint16(v[0])
	case OP_RND:
		v[inst.X] = cpu.Random.NextByte() & inst.KK
	case OP_DRW:
		err = cpu.draw(int(vx), int(vy), int(inst.N)+1)
		if err != nil {
			return
		}
	case OP_LD_VX_DT:
		v[inst.X] = cpu.Delay.Remaining()
	case OP_LD_DT_VX:
		cpu.Delay.Set(vx)
	case OP_LD_ST_VX:
		cpu.Sound.Set(vx)
	case OP_ADD_I:
		cpu.I += uint16(vx)
	default:
		err = ErrUnimplementedOpcode
		return
	}

	cpu.Ticks++

	return
}

// draw composites rows of sprite data from I onto the screen at (x, y).
// VF is set if any pixel changed value.
func (cpu *Cpu) draw(x, y int, rows int) (err error) {
	sprite, err := cpu.Memory.Slice(int(cpu.I), rows)
	if err != nil {
		return
	}

	var changed bool
	for n, row := range sprite {
		var delta bool
		delta, err = cpu.Screen.DrawRow(x, y+n, row)
		if err != nil {
			err = errors.Join(ErrMemoryOutOfBounds, err)
			return
		}
		changed = changed || delta
	}

	cpu.Register[REG_VF] = flag(changed)
	return
}

// flag converts a condition to a VF value.
func flag(cond bool) uint8 {
	if cond {
		return 1
	}
	return 0
}
