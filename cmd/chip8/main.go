// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/io"
)

func main() {
	var compile string
	var rom string
	var save string
	var hz int
	var limit int
	var verbose bool
	var dump bool

	flag.StringVar(&compile, "c", "", ".asm file to compile")
	flag.StringVar(&rom, "r", "", ".ch8 image to load")
	flag.StringVar(&save, "s", "", "Save program image to .ch8 file, do not execute")
	flag.IntVar(&hz, "hz", emulator.DEFAULT_HZ, "Instructions per second (0 is unthrottled)")
	flag.IntVar(&limit, "n", 0, "Maximum instructions to execute (0 is unlimited)")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&dump, "d", false, "Dump the screen and registers after execution")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(compile) == 0 && len(rom) == 0 {
		log.Fatalf("%v: One of -c or -r is required", os.Args[0])
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	// Compile a new instruction stream.
	if len(compile) != 0 {
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	} else {
		err := emu.Rom.Open(os.DirFS(filepath.Dir(rom)), filepath.Base(rom))
		if errors.Is(err, io.ErrLoadOversized) {
			log.Printf("%v: %v", rom, err)
		} else if err != nil {
			log.Fatalf("%v: %v", rom, err)
		}
	}

	if len(save) != 0 {
		image := &io.Rom{Data: emu.Image()}
		err := image.Save(io.DirFS(filepath.Dir(save)), filepath.Base(save))
		if err != nil {
			log.Fatalf("%v: %v", save, err)
		}
		return
	}

	err := emu.Reset()
	if err != nil {
		log.Printf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	steps, err := emu.Run(ctx, hz, limit)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("%v", err)
	}

	if dump {
		term := &io.Terminal{Output: os.Stdout}
		term.Render(emu.Cpu.Screen)
		os.Stdout.WriteString(emu.Cpu.String())
	}

	if verbose {
		log.Printf("%v: %d steps, %d instructions", os.Args[0], steps, emu.Ticks())
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		stop()
		os.Exit(1)
	}
}
