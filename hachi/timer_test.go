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
	"sync"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func TestTimersStep(t *testing.T) {
	tm := NewTimers(time.Second / 60)
	tm.SetDelay(2)
	tm.SetSound(3)

	tm.Step()
	assert.Equal(t, uint8(1), tm.Delay())
	assert.Equal(t, uint8(2), tm.Sound())

	tm.Step()
	tm.Step()
	assert.Equal(t, uint8(0), tm.Delay())
	assert.Equal(t, uint8(0), tm.Sound())

	// never below zero
	tm.Step()
	assert.Equal(t, uint8(0), tm.Delay())
	assert.Equal(t, uint8(0), tm.Sound())
	assert.Equal(t, uint64(4), tm.Steps())
}

func TestTimersReset(t *testing.T) {
	tm := NewTimers(time.Second / 60)
	tm.SetDelay(255)
	tm.SetSound(255)
	tm.Reset()
	assert.Equal(t, uint8(0), tm.Delay())
	assert.Equal(t, uint8(0), tm.Sound())
}

func TestTimersStartDecays(t *testing.T) {
	tm := NewTimers(time.Millisecond)
	tm.SetDelay(255)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tm.Start(ctx)
	tm.Start(ctx) // no second goroutine

	deadline := time.Now().Add(5 * time.Second)
	for tm.Delay() == 255 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.True(t, tm.Delay() < 255)
	assert.True(t, tm.Running())

	cancel()
	for tm.Running() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.False(t, tm.Running())

	// stopped clock doesn't tick anymore
	steps := tm.Steps()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, steps, tm.Steps())
}

func TestTimersRate(t *testing.T) {
	// the decay rate depends on the interval only, not on how often the
	// counters are accessed
	const interval = 20 * time.Millisecond
	tm := NewTimers(interval)
	tm.SetDelay(255)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	start := time.Now()
	tm.Start(ctx)
	for time.Since(start) < 5*interval {
		_ = tm.Delay()
		tm.SetSound(1)
	}
	elapsed := time.Since(start)
	decayed := 255 - int(tm.Delay())
	assert.True(t, decayed <= int(elapsed/interval)+1)
}

func TestTimersConcurrentAccess(t *testing.T) {
	tm := NewTimers(time.Microsecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tm.Start(ctx)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tm.SetDelay(uint8(i))
			_ = tm.Sound()
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tm.SetSound(uint8(i))
			_ = tm.Delay()
		}
	}()
	wg.Wait()
}
