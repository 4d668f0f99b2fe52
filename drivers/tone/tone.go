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

// Package tone generates the buzzer tone played while the sound timer runs.
package tone

// Default tone parameters shared by the audio drivers.
const (
	SampleRate = 44100
	Frequency  = 440
	// samples in one 60 Hz frame
	FrameSamples = SampleRate / 60
)

// A Square is a square wave oscillator. Its phase carries over between calls,
// so consecutive buffers join without clicks.
type Square struct {
	period int
	phase  int
}

// NewSquare returns an oscillator for freq Hz sampled at rate Hz.
func NewSquare(freq, rate int) *Square {
	period := rate / freq
	if period < 2 {
		period = 2
	}
	return &Square{period: period}
}

// Next returns the next sample, either +1 or -1.
func (s *Square) Next() int {
	v := 1
	if s.phase >= s.period/2 {
		v = -1
	}
	s.phase++
	if s.phase == s.period {
		s.phase = 0
	}
	return v
}

// Reset restarts the wave at the beginning of a period.
func (s *Square) Reset() { s.phase = 0 }

// FillU8 fills buf with unsigned 8-bit samples of the given amplitude
// (0~127) around the 0x80 silence level.
func (s *Square) FillU8(buf []byte, amplitude int) {
	for i := range buf {
		buf[i] = byte(0x80 + s.Next()*amplitude)
	}
}

// FillInt fills buf with signed samples of the given amplitude, silence is 0.
func (s *Square) FillInt(buf []int, amplitude int) {
	for i := range buf {
		buf[i] = s.Next() * amplitude
	}
}
