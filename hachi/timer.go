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
	"sync/atomic"
	"time"
)

// Timers is the delay and sound timer pair. Both count down toward zero once
// per interval on their own goroutine, independently of how fast
// instructions are executed. All accessors are safe for concurrent use.
//
// DT is intended to be used for timing events in games, while ST makes a
// beeping sound as long as its value is non-zero.
type Timers struct {
	delay    atomic.Uint32
	sound    atomic.Uint32
	interval time.Duration
	running  atomic.Bool
	steps    atomic.Uint64
}

// NewTimers returns a stopped timer pair ticking every interval once started.
func NewTimers(interval time.Duration) *Timers {
	return &Timers{interval: interval}
}

// Delay returns the current value of the delay timer.
func (t *Timers) Delay() uint8 { return uint8(t.delay.Load()) }

// SetDelay sets the delay timer.
func (t *Timers) SetDelay(v uint8) { t.delay.Store(uint32(v)) }

// Sound returns the current value of the sound timer.
func (t *Timers) Sound() uint8 { return uint8(t.sound.Load()) }

// SetSound sets the sound timer.
func (t *Timers) SetSound(v uint8) { t.sound.Store(uint32(v)) }

// Steps returns how many ticks the clock performed so far.
func (t *Timers) Steps() uint64 { return t.steps.Load() }

// Running reports whether the clock goroutine is active.
func (t *Timers) Running() bool { return t.running.Load() }

// Interval returns the tick period.
func (t *Timers) Interval() time.Duration { return t.interval }

// Reset zeroes both counters.
func (t *Timers) Reset() {
	t.delay.Store(0)
	t.sound.Store(0)
}

// Step performs one timer tick: every non-zero counter is decremented by one.
func (t *Timers) Step() {
	decrement(&t.delay)
	decrement(&t.sound)
	t.steps.Add(1)
}

// a compare-and-swap loop, so that a value stored by the executor between the
// load and the store is never overwritten with a stale decrement
func decrement(v *atomic.Uint32) {
	for {
		old := v.Load()
		if old == 0 {
			return
		}
		if v.CompareAndSwap(old, old-1) {
			return
		}
	}
}

// Start launches the clock goroutine. It returns immediately and the clock
// runs until ctx is done. Starting an already running clock does nothing.
func (t *Timers) Start(ctx context.Context) {
	if !t.running.CompareAndSwap(false, true) {
		return
	}

	go func() {
		defer t.running.Store(false)

		tck := time.NewTicker(t.interval)
		defer tck.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-tck.C:
				t.Step()
			}
		}
	}()
}
