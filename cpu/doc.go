// Package cpu implements the interpreter and assembler for the CHIP-8
// virtual machine.
//
// The CPU consists of an instruction pointer (IP), sixteen 8-bit
// general-purpose registers (v0-vf, with vf doubling as the flag
// register), a 16-bit address register (I), and a sixteen slot call
// stack. It owns the machine memory, the display, the delay and sound
// timers, and a pluggable random byte source.
//
// The assembler provides a textual form of the instruction set,
// supporting macros, labels, equates, and compile-time expression
// evaluation.
package cpu
