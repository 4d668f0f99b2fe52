/*
	Copyright 2015 Franc[e]sco (lolisamurai@tfwno.gf)
	This file is part of go-hachi.
	go-hachi is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.
	go-hachi is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.
	You should have received a copy of the GNU General Public License
	along with go-hachi. If not, see <http://www.gnu.org/licenses/>.
*/

// Package main implements hachi, a CHIP-8 emulator.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	_ "github.com/Francesco149/hachi8/drivers"
	"github.com/Francesco149/hachi8/drivers/wav"
	"github.com/Francesco149/hachi8/hachi"
	"github.com/Francesco149/hachi8/statsview"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

func init() {
	// SDL only works from the main OS thread
	runtime.LockOSThread()
}

func main() {
	opts, settings, err := parseFlags(os.Args[1:])
	logger := createLogger(opts.debug, opts.quiet)

	if err != nil {
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			printBanner(logger, opts)
			fmt.Fprintf(os.Stderr, "%s\n\n", usageErr.msg)
			usageErr.showUsage(os.Stderr)
			os.Exit(1)
		}
		logger.Fatal(err.Error())
	}

	if opts.version {
		fmt.Printf("version: %s\n", buildinfo.Version(version, commit, date))
		return
	}
	printBanner(logger, opts)

	ctx := app.Context()
	if err := run(ctx, logger, opts, settings); err != nil {
		reportError(logger, err)
		os.Exit(1)
	}
}

func createLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func printBanner(logger *log.Logger, opts options) {
	if opts.quiet {
		return
	}
	logger.Info("hachi - CHIP-8 emulator", log.String("version", buildinfo.Version(version, commit, date)))
}

func run(ctx context.Context, logger *log.Logger, opts options, settings *hachi.Chip8Settings) error {
	program, err := os.ReadFile(opts.input)
	if err != nil {
		return fmt.Errorf("reading program: %w", err)
	}

	if opts.disasm {
		return printDisassembly(os.Stdout, program)
	}

	drv, err := hachi.GetDriver(opts.driver)
	if err != nil {
		return err
	}
	if opts.driver == "termloop" && !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the termloop driver needs a terminal, use -driver to pick another one")
	}
	if opts.wav != "" {
		drv = wav.New(drv, opts.wav)
	}
	if opts.statsview != "" {
		statsview.Launch(logger, opts.statsview)
	}

	c, err := hachi.New(drv, settings, logger)
	if err != nil {
		return fmt.Errorf("initializing emulator: %w", err)
	}
	defer func() {
		if err := drv.Close(); err != nil {
			logger.Error("Closing driver failed", log.Err(err))
		}
	}()

	if err := c.Load(program); err != nil {
		return err
	}
	logger.Debug("Running program",
		log.String("file", opts.input),
		log.Int("size", len(program)),
		log.String("driver", opts.driver))

	err = c.Run(ctx)
	if n := c.UnknownOpcodes(); n > 0 {
		logger.Warn("Program contained unknown opcodes", log.Int("count", n))
	}
	if errors.Is(err, context.Canceled) {
		logger.Info("Emulation cancelled")
		return nil
	}
	if err != nil {
		logger.Debug("Machine state", log.Stringer("state", c))
		return err
	}
	return nil
}

func reportError(logger *log.Logger, err error) {
	var (
		oom       *hachi.OutOfMemoryErr
		addrErr   *hachi.AddressErr
		overflow  *hachi.StackOverflowErr
		underflow *hachi.StackUnderflowErr
		pcErr     *hachi.ProgramCounterErr
	)

	switch {
	case errors.As(err, &oom):
		logger.Error("Program does not fit in memory",
			log.Int("size", oom.ProgramSize), log.Int("free", oom.FreeMemory))
	case errors.As(err, &addrErr):
		logger.Error("Invalid memory access", log.Err(err), log.Hex("pc", addrErr.PC))
	case errors.As(err, &overflow):
		logger.Error("Call stack overflow", log.Hex("pc", overflow.PC))
	case errors.As(err, &underflow):
		logger.Error("Return with empty call stack", log.Hex("pc", underflow.PC))
	case errors.As(err, &pcErr):
		logger.Error("Program counter out of range", log.Hex("pc", pcErr.PC))
	default:
		logger.Error("Emulation failed", log.Err(err))
	}
}
