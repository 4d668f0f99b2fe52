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

// Package termloop implements a terminal driver for hachi on top of termloop.
//
// The driver owns the frame loop: hachi.Chip8.Run hands control to termloop,
// which calls Frame once per rendered frame. Next to the screen it shows the
// register file, the stack and a log of the recent screen and sound events.
// Esc quits.
//
// Key mappings can be modified through SetDriverData("key_map", myMap), where
// myMap is a hachi.KeyMap.
package termloop

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Francesco149/hachi8/hachi"
	tl "github.com/JoelOtter/termloop"
	"github.com/retroenv/retrogolib/log"
)

const (
	// termbox only reports key presses, so keys are released after being
	// idle for this long
	keyRelease = 100 * time.Millisecond

	syscallLines = 10
	// top left corner of the screen preview
	screenX, screenY = 20, 6
)

// A Driver is a terminal-based driver that uses the termloop library.
// It shows the current emulator state in real time and the screen.
type Driver struct {
	hachi.NullDriver

	g                 *tl.Game
	c                 *hachi.Chip8
	memory            *tl.Text
	registers         *tl.Text
	pointersAndTimers *tl.Text
	devices           *tl.Text
	status            *tl.Text
	stack             [hachi.StackSize]*tl.Text
	syscalls          [syscallLines]*tl.Text
	screen            [hachi.Width][hachi.Height]*tl.Rectangle
	lastScreen        []bool
	keyMap            hachi.KeyMap
	beeping           bool

	// first fatal error of the emulator, returned by Loop
	err error
}

// New returns a termloop driver. The terminal is only taken over once the
// driver is passed to hachi.New.
func New() *Driver {
	return &Driver{keyMap: hachi.DefaultKeyMap()}
}

func (d *Driver) printSyscall(s string) {
	for i := syscallLines - 1; i > 0; i-- {
		d.syscalls[i].SetText(d.syscalls[i-1].Text())
	}
	d.syscalls[0].SetText(s)
}

// just a wrapper entity to handle input
type inputHandler struct {
	d      *Driver
	timers map[uint8]time.Time
}

func (i *inputHandler) Draw(s *tl.Screen) {
	for key, t := range i.timers {
		if time.Since(t) > keyRelease {
			i.d.c.SetKey(key, false)
			delete(i.timers, key)
		}
	}
}

func (i *inputHandler) Tick(ev tl.Event) {
	if ev.Type != tl.EventKey {
		return
	}
	key, ok := i.d.keyMap.Lookup(ev.Ch)
	if !ok {
		// directional input, 8, 4, 6 and 2 are typically used for it
		switch ev.Key {
		case tl.KeyArrowUp:
			key = 0x8
		case tl.KeyArrowDown:
			key = 0x2
		case tl.KeyArrowLeft:
			key = 0x4
		case tl.KeyArrowRight:
			key = 0x6
		case tl.KeyEnter:
			key = 0x5
		default:
			return
		}
	}
	i.d.c.SetKey(key, true)
	i.timers[key] = time.Now()
}

// runs one emulator frame per termloop frame. Draw is used because Tick is
// only called on input.
type emulatorEntity struct {
	d   *Driver
	ctx context.Context
}

func (e *emulatorEntity) Draw(s *tl.Screen) {
	d := e.d
	if d.err != nil {
		return
	}
	if err := e.ctx.Err(); err != nil {
		d.halt(err)
		return
	}
	if err := d.c.Frame(); err != nil {
		d.halt(err)
	}
}

func (e *emulatorEntity) Tick(ev tl.Event) {}

// halt stops the emulation, the screen stays up until the user quits.
func (d *Driver) halt(err error) {
	d.err = err
	d.status.SetText(fmt.Sprintf("Halted: %v. Press Esc to exit.", err))
	d.c.Logger().Error("Emulation halted", log.Err(err), log.Stringer("state", d.c))
}

// OnInit sets up the termloop game and all of its widgets.
func (d *Driver) OnInit(c *hachi.Chip8) error {
	if d.keyMap == nil {
		d.keyMap = hachi.DefaultKeyMap()
	}
	d.c = c
	d.g = tl.NewGame()
	d.g.SetEndKey(tl.KeyEsc)
	scr := d.g.Screen()
	scr.SetFps(60)

	scr.AddEntity(&inputHandler{d, make(map[uint8]time.Time)})
	scr.AddEntity(tl.NewText(0, 0, "Stack   Syscalls",
		tl.ColorDefault, tl.ColorDefault))

	// stack
	for i := range d.stack {
		d.stack[i] = tl.NewText(0, i+1, "", tl.ColorDefault, tl.ColorDefault)
		scr.AddEntity(d.stack[i])
	}

	// syscall log
	for i := range d.syscalls {
		d.syscalls[i] = tl.NewText(8, i+1, "", tl.ColorDefault, tl.ColorDefault)
		scr.AddEntity(d.syscalls[i])
	}

	// chip info
	newInfo := func(line int) *tl.Text {
		t := tl.NewText(screenX, line, "", tl.ColorDefault, tl.ColorDefault)
		scr.AddEntity(t)
		return t
	}
	d.memory = newInfo(0)
	d.registers = newInfo(1)
	d.pointersAndTimers = newInfo(2)
	d.devices = newInfo(3)
	d.status = newInfo(4)

	// screen preview, a pixel is shown by adding its rectangle
	for x := range d.screen {
		for y := range d.screen[x] {
			d.screen[x][y] = tl.NewRectangle(screenX+x, screenY+y, 1, 1, tl.ColorWhite)
		}
	}
	d.lastScreen = make([]bool, hachi.Width*hachi.Height)

	c.Logger().Debug("Termloop driver initialized")
	return nil
}

// OnUpdate refreshes the state panel.
func (d *Driver) OnUpdate(c *hachi.Chip8) error {
	r := c.Registers()
	d.memory.SetText(fmt.Sprintf("Memory: %v bytes, program: %v bytes",
		hachi.MemorySize, len(c.Program())))
	d.registers.SetText(fmt.Sprintf("Registers: % 02X", r.V))
	d.pointersAndTimers.SetText(
		fmt.Sprintf("I: %04X SP: %v, PC: %04X, DT: %02X, ST: %02X",
			r.I, r.SP, r.PC, r.DT, r.ST))
	d.devices.SetText(fmt.Sprintf("Keyboard: %016b, Screen: %v*%v",
		keyBits(c), hachi.Width, hachi.Height))

	stack := c.Stack()
	for i, t := range d.stack {
		if i < len(stack) {
			t.SetText(fmt.Sprintf("%04X", stack[i]))
		} else {
			t.SetText("")
		}
	}
	return nil
}

func keyBits(c *hachi.Chip8) (res uint16) {
	for k := uint8(0); k < hachi.KeyCount; k++ {
		if c.Key(k) {
			res |= 1 << k
		}
	}
	return
}

// UpdateScreen adds and removes the pixels that changed since the last call.
func (d *Driver) UpdateScreen(c *hachi.Chip8) {
	d.printSyscall("DRW")

	scr := d.g.Screen()
	fb := c.Framebuffer()
	for i, lit := range fb {
		if lit == d.lastScreen[i] {
			continue
		}
		rect := d.screen[i%hachi.Width][i/hachi.Width]
		if lit {
			scr.AddEntity(rect)
		} else {
			scr.RemoveEntity(rect)
		}
	}
	d.lastScreen = fb
}

// Sound logs the start of a beep, terminals have no tone generator.
func (d *Driver) Sound(on bool) {
	if on && !d.beeping {
		d.printSyscall("BEEP")
	}
	d.beeping = on
}

// Loop runs termloop until the user presses Esc. It returns the error that
// halted the emulation, if any.
func (d *Driver) Loop(ctx context.Context, c *hachi.Chip8) error {
	if d.g == nil {
		return errors.New("termloop driver is not initialized")
	}
	d.g.Screen().AddEntity(&emulatorEntity{d: d, ctx: ctx})
	d.g.Start()

	if d.err == nil || errors.Is(d.err, context.Canceled) {
		return hachi.ErrQuit
	}
	return d.err
}

// GetData returns the termloop game for the "ctx" key and the key map for
// "key_map".
func (d *Driver) GetData(key string) interface{} {
	switch key {
	case "ctx":
		return d.g
	case "key_map":
		return d.keyMap
	}
	return nil
}

// SetData replaces the key map for the "key_map" key.
func (d *Driver) SetData(key string, value interface{}) error {
	if key != "key_map" {
		return fmt.Errorf("unknown data key '%s'", key)
	}
	newMap, ok := value.(hachi.KeyMap)
	if !ok {
		return fmt.Errorf("invalid type %T for key_map", value)
	}
	d.keyMap = newMap
	return nil
}

// -----------------------------------------------------------------------------

func init() {
	if err := hachi.RegisterDriver("termloop", New()); err != nil {
		panic(err)
	}
}
