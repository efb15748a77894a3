package io

import (
	"bufio"
	"io"

	"github.com/ezrec/chip8/display"
)

const (
	TERMINAL_HOME = "\033[H" // ANSI cursor home.
)

// Terminal renders the logical pixel grid of a screen as text rows.
type Terminal struct {
	Output io.Writer
	Lit    rune // Rune for a lit pixel. Defaults to a full block.
	Unlit  rune // Rune for an unlit pixel. Defaults to a space.
	Home   bool // If set, each frame starts with a cursor home sequence.
}

func (term *Terminal) runes() (lit, unlit rune) {
	lit, unlit = term.Lit, term.Unlit
	if lit == 0 {
		lit = '█'
	}
	if unlit == 0 {
		unlit = ' '
	}
	return
}

// Render writes one frame of the screen.
func (term *Terminal) Render(screen *display.Screen) (err error) {
	if term.Output == nil {
		err = ErrTerminalOutput
		return
	}

	lit, unlit := term.runes()

	w := bufio.NewWriter(term.Output)
	if term.Home {
		w.WriteString(TERMINAL_HOME)
	}

	for _, row := range screen.Rows() {
		for _, pixel := range row {
			if pixel {
				w.WriteRune(lit)
			} else {
				w.WriteRune(unlit)
			}
		}
		w.WriteByte('\n')
	}

	err = w.Flush()
	return
}
