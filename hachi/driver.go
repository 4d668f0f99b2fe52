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
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

// FrameInterval is the pace of the default frame loop.
const FrameInterval = time.Second / 60

// A Driver is an interface through which the emulator talks to the host:
// screen, keypad and speaker. The emulator itself never calls into the driver
// while executing instructions, only between frames.
// Drivers should be registered by the RegisterDriver function in init().
type Driver interface {
	// Called once by New, before the program is loaded.
	OnInit(c *Chip8) error
	// Called at the start of every frame, should be used for input polling
	// and similar tasks. Returning ErrQuit ends the frame loop.
	OnUpdate(c *Chip8) error
	// Called when the screen changed since the previous frame.
	UpdateScreen(c *Chip8)
	// Called at the end of every frame, on is true while the sound timer is
	// non-zero.
	Sound(on bool)
	// Releases the resources held by the driver.
	Close() error
	// Returns custom data that can be retrieved through the emulator by
	// calling GetDriverData()
	GetData(key string) interface{}
	// Sets custom data that can be set through the emulator by
	// calling SetDriverData()
	SetData(key string, value interface{}) error
}

// A Looper is a Driver that owns the frame loop, e.g. because the UI library
// it wraps has its own main loop. Loop must call Frame once per host frame
// and return when the user quits.
type Looper interface {
	Loop(ctx context.Context, c *Chip8) error
}

// -----------------------------------------------------------------------------

var (
	driversMu sync.Mutex
	drivers   = map[string]Driver{}
)

// RegisterDriver registers a driver to a name. The driver can then be
// retrieved by GetDriver.
func RegisterDriver(name string, drv Driver) error {
	driversMu.Lock()
	defer driversMu.Unlock()

	if drivers[name] != nil {
		return fmt.Errorf("driver %s already exists", name)
	}
	drivers[name] = drv
	return nil
}

// UnregisterDriver unloads a previously registered driver.
func UnregisterDriver(name string) error {
	driversMu.Lock()
	defer driversMu.Unlock()

	if drivers[name] == nil {
		return fmt.Errorf("driver %s does not exist", name)
	}
	delete(drivers, name)
	return nil
}

// GetDriver returns the driver registered to name.
func GetDriver(name string) (Driver, error) {
	driversMu.Lock()
	defer driversMu.Unlock()

	drv := drivers[name]
	if drv == nil {
		return nil, fmt.Errorf("driver %s not found", name)
	}
	return drv, nil
}

// DriverNames returns the names of all registered drivers, sorted.
func DriverNames() []string {
	driversMu.Lock()
	defer driversMu.Unlock()

	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// -----------------------------------------------------------------------------

// Driver returns the driver in use by the emulator.
func (c *Chip8) Driver() Driver { return c.driver }

// GetDriverData gets custom data from the driver in use.
// Returns nil if the data key is not found.
func (c *Chip8) GetDriverData(key string) interface{} {
	return c.driver.GetData(key)
}

// SetDriverData sets custom data on the driver in use.
func (c *Chip8) SetDriverData(key string, value interface{}) error {
	return c.driver.SetData(key, value)
}

// Frame runs one host frame: polls the driver, executes CyclesPerFrame
// instructions, then hands the screen and the sound state to the driver.
func (c *Chip8) Frame() error {
	if err := c.driver.OnUpdate(c); err != nil {
		return err
	}

	for n := 0; n < c.settings.CyclesPerFrame; n++ {
		if err := c.Tick(); err != nil {
			return err
		}
	}

	if c.Redraw() {
		c.driver.UpdateScreen(c)
	}
	c.driver.Sound(c.timers.Sound() > 0)
	return nil
}

// Run starts the timers and runs frames until ctx is done, the driver quits
// or a fatal error occurs. Drivers implementing Looper run their own loop.
// A quit requested by the driver is not an error.
func (c *Chip8) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.timers.Start(ctx)

	var err error
	if l, ok := c.driver.(Looper); ok {
		err = l.Loop(ctx, c)
	} else {
		err = Loop(ctx, c)
	}

	if errors.Is(err, ErrQuit) {
		return nil
	}
	return err
}

// Loop is the default frame loop, calling Frame every FrameInterval.
func Loop(ctx context.Context, c *Chip8) error {
	tck := time.NewTicker(FrameInterval)
	defer tck.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tck.C:
			if err := c.Frame(); err != nil {
				return err
			}
		}
	}
}

// -----------------------------------------------------------------------------

// A NullDriver is the default driver, which ignores all calls.
type NullDriver struct{}

func (d NullDriver) OnInit(c *Chip8) error          { return nil }
func (d NullDriver) OnUpdate(c *Chip8) error        { return nil }
func (d NullDriver) UpdateScreen(c *Chip8)          {}
func (d NullDriver) Sound(on bool)                  {}
func (d NullDriver) Close() error                   { return nil }
func (d NullDriver) GetData(key string) interface{} { return nil }
func (d NullDriver) SetData(key string, value interface{}) error {
	return fmt.Errorf("this driver has no settable data")
}

// -----------------------------------------------------------------------------

func init() {
	if err := RegisterDriver("null", NullDriver{}); err != nil {
		panic(err)
	}
}
