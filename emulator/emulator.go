// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"fmt"
	goio "io"
	"iter"
	"log"
	"maps"
	"time"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/display"
	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/io"
	"github.com/ezrec/chip8/memory"
	"github.com/ezrec/chip8/timer"
)

const (
	TIMER_HZ   = 60  // Timer decrement rate.
	DEFAULT_HZ = 500 // Default instruction cadence.
)

var _emulator_defines = map[string]string{
	"TIMER_HZ": fmt.Sprintf("%v", TIMER_HZ),
}

// Emulator state. CPU + program listing + program image.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.
	Rom      io.Rom       // Raw program image, used when Program is empty.
}

// State is a copy of the machine state at a point in time.
type State struct {
	Ip       uint16
	I        uint16
	Register cpu.Registers
	Sp       uint8
	Stack    [cpu.STACK_LIMIT]uint16
	Delay    uint8
	Sound    uint8
	Ticks    int
	Screen   display.Screen
}

// NewEmulator creates a new emulator on the system clock with a
// randomly seeded RND source.
func NewEmulator() (emu *Emulator) {
	return NewEmulatorWith(nil, nil)
}

// NewEmulatorWith creates a new emulator with the supplied clock and
// random source. Nil values select the defaults.
func NewEmulatorWith(clock timer.Clock, random cpu.Random) (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(clock, random),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Chain2(maps.All(_emulator_defines),
		memory.Defines(),
		display.Defines(),
		emu.Rom.Defines(),
	)
}

// Assemble parses program text into the emulator's program listing.
func (emu *Emulator) Assemble(input goio.Reader) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(input)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// Image returns the program image loaded by Reset.
func (emu *Emulator) Image() []uint8 {
	if emu.Program != nil && len(emu.Program.Opcodes) > 0 {
		return emu.Program.Binary()
	}

	return emu.Rom.Data
}

// Reset the machine and reload the program image.
// An oversized image is truncated and reported, but the machine is
// left runnable.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = false

	emu.Cpu.Reset()
	emu.Cpu.Memory.Reset()
	err = emu.Cpu.Memory.Load(emu.Image())

	emu.Cpu.Verbose = emu.Verbose

	return
}

// Ticks returns the total instructions executed since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return int(emu.Cpu.Ip)
}

// Code returns the current instruction code.
func (emu *Emulator) Code() (code cpu.Code) {
	code, _ = emu.Cpu.FetchCode()
	return
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// idle returns true if the current instruction jumps to itself, which
// is how CHIP-8 programs stop.
func (emu *Emulator) idle() bool {
	inst, err := emu.Code().Decode()
	if err != nil {
		return false
	}

	return inst.Op == cpu.OP_JP && inst.NNN == emu.Cpu.Ip
}

// Tick performs a single instruction of the emulator. done is set when
// the program has reached an idle loop.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	ip := emu.Cpu.Ip
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Ip: ip, LineNo: lineno, Err: err}
		}
	}()

	if emu.idle() {
		done = true
		return
	}

	err = emu.Cpu.Step()
	return
}

// cadencePeriod returns the interval between instructions, or 0 when
// cadence is unthrottled or faster than the timer resolution.
func cadencePeriod(cadence int) time.Duration {
	if cadence <= 0 {
		return 0
	}

	return time.Second / time.Duration(cadence)
}

// Run steps the emulator at cadence instructions per second until the
// program idles, an error occurs, ctx is done, or limit instructions have
// executed. A zero cadence, or one above a billion instructions per
// second, runs unthrottled; a zero limit runs unbounded.
func (emu *Emulator) Run(ctx context.Context, cadence int, limit int) (steps int, err error) {
	var tick <-chan time.Time
	if period := cadencePeriod(cadence); period > 0 {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		tick = ticker.C
	}

	for limit == 0 || steps < limit {
		if tick != nil {
			select {
			case <-ctx.Done():
				err = ctx.Err()
				return
			case <-tick:
			}
		} else if err = ctx.Err(); err != nil {
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			if emu.Verbose && done {
				log.Printf("emulator: idle at %03x after %d steps", emu.Cpu.Ip, steps)
			}
			return
		}
		steps++
	}

	return
}

// Snapshot returns a copy of the current machine state.
func (emu *Emulator) Snapshot() (state State) {
	c := emu.Cpu
	state = State{
		Ip:       c.Ip,
		I:        c.I,
		Register: c.Register,
		Sp:       c.Stack.Sp,
		Stack:    c.Stack.Data,
		Delay:    c.Delay.Remaining(),
		Sound:    c.Sound.Remaining(),
		Ticks:    c.Ticks,
		Screen:   *c.Screen,
	}

	return
}
