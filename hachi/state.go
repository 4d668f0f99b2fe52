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

package hachi

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// Memory map and machine dimensions.
const (
	// 4k of memory. Programs start at 0x200 because the original interpreter
	// occupied those first 512 bytes.
	MemorySize     = 0x1000
	ProgramStart   = 0x200
	MaxProgramSize = MemorySize - ProgramStart

	// The built-in hex font, 16 glyphs of 5 rows each.
	FontStart     = 0x050
	FontGlyphSize = 5
	FontEnd       = FontStart + 16*FontGlyphSize

	// Maximum amount of nested calls.
	StackSize = 16

	// Screen width and height in pixels.
	Width  = 64
	Height = 32

	KeyCount = 16
)

var font = [16 * FontGlyphSize]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Registers is a copy of the register file, handed out to debugging views.
type Registers struct {
	V      [16]uint8
	I      uint16
	PC     uint16
	SP     int
	DT, ST uint8
}

// -----------------------------------------------------------------------------

// Chip8 is an implementation of a CHIP-8 emulator. It holds the state of the
// virtual machine. Everything except the timers must be accessed from a
// single goroutine.
type Chip8 struct {
	memory [MemorySize]byte
	// V[0x0]~V[0xF] are 8-bit registers. V[0xF] doubles as a carry flag.
	v [16]uint8
	// 16-bit address register. Used for memory operations.
	i  uint16
	pc uint16
	// return addresses, sp is the number of entries in use
	stack [StackSize]uint16
	sp    int
	// monochrome 64x32 screen, row-major
	screen [Width * Height]bool
	keypad [KeyCount]bool
	timers *Timers

	redraw      bool
	programSize int
	unknown     int

	settings Chip8Settings
	driver   Driver
	logger   *log.Logger
	rand     func() uint8
}

// Reset restores the machine to its just-constructed state: memory and
// registers zeroed, font table installed, program counter at 0x200.
func (c *Chip8) Reset() {
	c.memory = [MemorySize]byte{}
	copy(c.memory[FontStart:FontEnd], font[:])

	c.v = [16]uint8{}
	c.i = 0
	c.pc = ProgramStart
	c.stack = [StackSize]uint16{}
	c.sp = 0
	c.screen = [Width * Height]bool{}
	c.keypad = [KeyCount]bool{}
	c.timers.Reset()

	c.redraw = false
	c.programSize = 0
	c.unknown = 0
	c.logger.Debug("Machine reset")
}

// Load copies a CHIP-8 binary into program memory and points the program
// counter at it. An *OutOfMemoryErr is returned, and nothing is changed, if
// program doesn't fit.
func (c *Chip8) Load(program []byte) error {
	if len(program) > MaxProgramSize {
		return &OutOfMemoryErr{ProgramSize: len(program), FreeMemory: MaxProgramSize}
	}

	clear(c.memory[ProgramStart:])
	copy(c.memory[ProgramStart:], program)
	c.pc = ProgramStart
	c.programSize = len(program)

	c.logger.Debug("Loaded program", log.Int("size", len(program)))
	return nil
}

// String returns formatted information about the instance of the emulator.
func (c *Chip8) String() string {
	return fmt.Sprintf("Chip8{Registers: [% 02X] I: %04X, "+
		"Stack: % 04X, SP: %v, PC: %04X, DT: %02X, ST: %02X, "+
		"Keypad: %016b}",
		c.v, c.i, c.stack[:c.sp], c.sp, c.pc, c.timers.Delay(),
		c.timers.Sound(), c.keyBits())
}

func (c *Chip8) keyBits() (res uint16) {
	for k, down := range c.keypad {
		if down {
			res |= 1 << k
		}
	}
	return
}

// Registers returns a copy of the register file.
func (c *Chip8) Registers() Registers {
	return Registers{
		V:  c.v,
		I:  c.i,
		PC: c.pc,
		SP: c.sp,
		DT: c.timers.Delay(),
		ST: c.timers.Sound(),
	}
}

// Stack returns the return addresses currently on the stack, oldest first.
func (c *Chip8) Stack() []uint16 {
	return append([]uint16(nil), c.stack[:c.sp]...)
}

// Memory returns a copy of the whole address space.
func (c *Chip8) Memory() []byte {
	return append([]byte(nil), c.memory[:]...)
}

// Program returns a copy of the loaded program bytes.
func (c *Chip8) Program() []byte {
	return append([]byte(nil), c.memory[ProgramStart:ProgramStart+c.programSize]...)
}

// Timers returns the delay and sound timer pair.
func (c *Chip8) Timers() *Timers { return c.timers }

// Settings returns the settings the emulator was created with.
func (c *Chip8) Settings() Chip8Settings { return c.settings }

// Logger returns the logger of the emulator, drivers log through it.
func (c *Chip8) Logger() *log.Logger { return c.logger }

// UnknownOpcodes returns how many unknown opcodes were skipped since the last
// reset.
func (c *Chip8) UnknownOpcodes() int { return c.unknown }

// -----------------------------------------------------------------------------

// Pixel reports whether the pixel at x, y is lit. Coordinates outside of the
// screen are never lit.
func (c *Chip8) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return c.screen[y*Width+x]
}

// Framebuffer returns a copy of the screen, 64 columns by 32 rows, row-major.
func (c *Chip8) Framebuffer() []bool {
	return append([]bool(nil), c.screen[:]...)
}

// Redraw reports whether the screen changed since the last call and clears the
// flag. Multiple changes between two calls are reported once.
func (c *Chip8) Redraw() bool {
	r := c.redraw
	c.redraw = false
	return r
}

// SetKey presses or releases key 0x0~0xF. Other values are ignored.
func (c *Chip8) SetKey(key uint8, down bool) {
	if int(key) < KeyCount {
		c.keypad[key] = down
	}
}

// Key reports whether key 0x0~0xF is held down.
func (c *Chip8) Key(key uint8) bool {
	return int(key) < KeyCount && c.keypad[key]
}

// ReleaseKeys releases every key.
func (c *Chip8) ReleaseKeys() {
	c.keypad = [KeyCount]bool{}
}
