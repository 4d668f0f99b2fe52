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

package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/Francesco149/hachi8/hachi"
)

type options struct {
	input  string
	driver string
	wav    string

	disasm    bool
	debug     bool
	quiet     bool
	version   bool
	statsview string

	cycles     int
	shift      string
	jump       string
	noIndexInc bool
	wrap       bool
}

// usageError is returned when the arguments can't be used, the caller should
// print the usage text.
type usageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *usageError) Error() string { return e.msg }

func (e *usageError) showUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: hachi [options] <program file>\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

func readOptionFlags(flags *flag.FlagSet, opts *options) {
	defaults := hachi.DefaultSettings()

	flags.StringVar(&opts.driver, "driver", "termloop", "driver to run the program with ("+strings.Join(hachi.DriverNames(), "/")+")")
	flags.StringVar(&opts.wav, "wav", "", "record the sound to the given .wav file")
	flags.BoolVar(&opts.disasm, "disasm", false, "print a disassembly of the program instead of running it")
	flags.BoolVar(&opts.debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.version, "version", false, "print the version and exit")
	flags.StringVar(&opts.statsview, "statsview", "", "serve runtime statistics on the given address, e.g. localhost:12600")

	flags.IntVar(&opts.cycles, "cycles", defaults.CyclesPerFrame, "instructions executed per 60 Hz frame")
	flags.StringVar(&opts.shift, "shift", defaults.Quirks.Shift.String(), "source register of the shift opcodes (vy/vx)")
	flags.StringVar(&opts.jump, "jump", defaults.Quirks.Jump.String(), "offset register of the BNNN jump (v0/vx)")
	flags.BoolVar(&opts.noIndexInc, "noindexinc", !defaults.Quirks.IndexIncrement, "do not advance I after FX55/FX65")
	flags.BoolVar(&opts.wrap, "wrap", defaults.Quirks.WrapSprites, "wrap sprites around the screen edges instead of clipping them")
}

// parseFlags parses the command line arguments without the program name.
func parseFlags(args []string) (options, *hachi.Chip8Settings, error) {
	flags := flag.NewFlagSet("hachi", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	var opts options
	readOptionFlags(flags, &opts)

	if err := flags.Parse(args); err != nil {
		return opts, nil, &usageError{flags: flags, msg: err.Error()}
	}
	if opts.version {
		return opts, nil, nil
	}

	rest := flags.Args()
	switch {
	case len(rest) == 0:
		return opts, nil, &usageError{flags: flags, msg: "no program file given"}
	case len(rest) > 1:
		return opts, nil, &usageError{
			flags: flags,
			msg:   fmt.Sprintf("potential argument %s found after program file, please pass the program file as last argument", rest[1]),
		}
	}
	opts.input = rest[0]

	settings, err := createSettings(opts)
	if err != nil {
		return opts, nil, err
	}
	return opts, settings, nil
}

func createSettings(opts options) (*hachi.Chip8Settings, error) {
	settings := hachi.DefaultSettings()
	settings.CyclesPerFrame = opts.cycles

	var err error
	if settings.Quirks.Shift, err = hachi.ParseShiftMode(opts.shift); err != nil {
		return nil, err
	}
	if settings.Quirks.Jump, err = hachi.ParseJumpMode(opts.jump); err != nil {
		return nil, err
	}
	settings.Quirks.IndexIncrement = !opts.noIndexInc
	settings.Quirks.WrapSprites = opts.wrap

	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}
