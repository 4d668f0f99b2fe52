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

// Package sdl2 implements a windowed driver for hachi on top of SDL2.
//
// SDL must be driven from the main OS thread: programs using this driver
// should call runtime.LockOSThread in an init function and call Run from the
// main goroutine. Esc or closing the window quits.
package sdl2

import (
	"fmt"

	"github.com/Francesco149/hachi8/hachi"
	"github.com/retroenv/retrogolib/log"
	"github.com/veandco/go-sdl2/sdl"
)

// DefaultScale is the default size of a CHIP-8 pixel on the host screen.
const DefaultScale = 10

// classic phosphor green on black
var (
	foreground = sdl.Color{R: 0x33, G: 0xFF, B: 0x66, A: 0xFF}
	background = sdl.Color{R: 0x00, G: 0x00, B: 0x00, A: 0xFF}
)

// A Driver renders the screen into an SDL window and plays the buzzer tone
// through the default audio device.
type Driver struct {
	scale  int32
	title  string
	keyMap hachi.KeyMap

	window   *sdl.Window
	renderer *sdl.Renderer
	audio    *audio
	logger   *log.Logger
}

// New returns an SDL driver. The window is only opened once the driver is
// passed to hachi.New.
func New() *Driver {
	return &Driver{
		scale:  DefaultScale,
		title:  "hachi",
		keyMap: hachi.DefaultKeyMap(),
	}
}

// OnInit opens the window and the audio device.
func (d *Driver) OnInit(c *hachi.Chip8) error {
	d.logger = c.Logger()

	if err := sdl.Init(uint32(sdl.INIT_VIDEO | sdl.INIT_AUDIO)); err != nil {
		return fmt.Errorf("initializing sdl: %w", err)
	}

	var err error
	d.window, err = sdl.CreateWindow(d.title,
		int32(sdl.WINDOWPOS_CENTERED), int32(sdl.WINDOWPOS_CENTERED),
		hachi.Width*d.scale, hachi.Height*d.scale, uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}

	d.renderer, err = sdl.CreateRenderer(d.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		_ = d.Close()
		return fmt.Errorf("creating renderer: %w", err)
	}

	d.audio, err = openAudio()
	if err != nil {
		// the emulator is still usable without sound
		d.logger.Warn("Audio device unavailable", log.Err(err))
	}

	d.UpdateScreen(c)
	d.logger.Debug("SDL driver initialized", log.Int("scale", int(d.scale)))
	return nil
}

// OnUpdate drains the SDL event queue into the keypad.
func (d *Driver) OnUpdate(c *hachi.Chip8) error {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			return hachi.ErrQuit

		case *sdl.KeyboardEvent:
			if ev.Keysym.Sym == sdl.K_ESCAPE {
				return hachi.ErrQuit
			}
			key, ok := d.keyMap.Lookup(rune(ev.Keysym.Sym))
			if !ok {
				continue
			}
			c.SetKey(key, ev.State == sdl.PRESSED)
		}
	}
	return nil
}

// UpdateScreen redraws the whole window.
func (d *Driver) UpdateScreen(c *hachi.Chip8) {
	if d.renderer == nil {
		return
	}

	setColor(d.renderer, background)
	_ = d.renderer.Clear()

	setColor(d.renderer, foreground)
	for i, lit := range c.Framebuffer() {
		if !lit {
			continue
		}
		x, y := int32(i%hachi.Width), int32(i/hachi.Width)
		_ = d.renderer.FillRect(&sdl.Rect{X: x * d.scale, Y: y * d.scale, W: d.scale, H: d.scale})
	}
	d.renderer.Present()
}

func setColor(r *sdl.Renderer, c sdl.Color) {
	_ = r.SetDrawColor(c.R, c.G, c.B, c.A)
}

// Sound keeps the tone queued while on is true.
func (d *Driver) Sound(on bool) {
	if d.audio == nil {
		return
	}
	if err := d.audio.play(on); err != nil {
		d.logger.Warn("Queueing audio failed", log.Err(err))
	}
}

// Close releases the audio device, the window and SDL itself.
func (d *Driver) Close() error {
	var err error
	if d.audio != nil {
		d.audio.close()
		d.audio = nil
	}
	if d.renderer != nil {
		err = d.renderer.Destroy()
		d.renderer = nil
	}
	if d.window != nil {
		if werr := d.window.Destroy(); err == nil {
			err = werr
		}
		d.window = nil
	}
	sdl.Quit()
	return err
}

// GetData returns the pixel scale for "scale", the window title for "title"
// and the key map for "key_map".
func (d *Driver) GetData(key string) interface{} {
	switch key {
	case "scale":
		return int(d.scale)
	case "title":
		return d.title
	case "key_map":
		return d.keyMap
	}
	return nil
}

// SetData sets the "scale" and "title" of the window, which only take effect
// before the emulator is created, and the "key_map".
func (d *Driver) SetData(key string, value interface{}) error {
	switch key {
	case "scale":
		scale, ok := value.(int)
		if !ok || scale < 1 {
			return fmt.Errorf("invalid scale %v", value)
		}
		d.scale = int32(scale)
	case "title":
		title, ok := value.(string)
		if !ok {
			return fmt.Errorf("invalid type %T for title", value)
		}
		d.title = title
	case "key_map":
		keyMap, ok := value.(hachi.KeyMap)
		if !ok {
			return fmt.Errorf("invalid type %T for key_map", value)
		}
		d.keyMap = keyMap
	default:
		return fmt.Errorf("unknown data key '%s'", key)
	}
	return nil
}

// -----------------------------------------------------------------------------

func init() {
	if err := hachi.RegisterDriver("sdl", New()); err != nil {
		panic(err)
	}
}
