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

// Package wav records the buzzer of the emulator to a WAV file. The Recorder
// wraps another driver and forwards every call to it.
//
// Audio data is buffered in memory in its entirety and written to disk when
// the driver is closed.
package wav

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Francesco149/hachi8/drivers/tone"
	"github.com/Francesco149/hachi8/hachi"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/retroenv/retrogolib/log"
)

const (
	bitDepth  = 16
	amplitude = 8000
	// PCM in the RIFF format header
	pcmFormat = 1
)

// A Recorder is a driver that renders one frame of audio per emulator frame,
// the tone while the sound timer runs and silence otherwise.
type Recorder struct {
	hachi.Driver

	filename string
	wave     *tone.Square
	frame    []int
	samples  []int
	beeps    int
	beeping  bool
	logger   *log.Logger
}

// New returns a Recorder writing to filename on Close. A nil inner driver is
// replaced by a hachi.NullDriver.
func New(inner hachi.Driver, filename string) *Recorder {
	if inner == nil {
		inner = hachi.NullDriver{}
	}
	return &Recorder{
		Driver:   inner,
		filename: filename,
		wave:     tone.NewSquare(tone.Frequency, tone.SampleRate),
		frame:    make([]int, tone.FrameSamples),
	}
}

// OnInit initializes the wrapped driver.
func (r *Recorder) OnInit(c *hachi.Chip8) error {
	r.logger = c.Logger()
	return r.Driver.OnInit(c)
}

// Sound records one frame of audio and forwards the state.
func (r *Recorder) Sound(on bool) {
	if on {
		if !r.beeping {
			r.beeps++
		}
		r.wave.FillInt(r.frame, amplitude)
	} else {
		r.wave.Reset()
		clear(r.frame)
	}
	r.beeping = on
	r.samples = append(r.samples, r.frame...)

	r.Driver.Sound(on)
}

// Loop runs the frame loop of the wrapped driver if it has one.
func (r *Recorder) Loop(ctx context.Context, c *hachi.Chip8) error {
	if l, ok := r.Driver.(hachi.Looper); ok {
		return l.Loop(ctx, c)
	}
	return hachi.Loop(ctx, c)
}

// Samples returns how many samples were recorded so far.
func (r *Recorder) Samples() int { return len(r.samples) }

// GetData returns the recording file name for "wav_file" and the number of
// recorded beeps for "wav_beeps". Other keys go to the wrapped driver.
func (r *Recorder) GetData(key string) interface{} {
	switch key {
	case "wav_file":
		return r.filename
	case "wav_beeps":
		return r.beeps
	}
	return r.Driver.GetData(key)
}

// WriteTo encodes the recording as 16-bit mono PCM.
func (r *Recorder) WriteTo(w io.WriteSeeker) error {
	enc := wav.NewEncoder(w, tone.SampleRate, bitDepth, 1, pcmFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: tone.SampleRate},
		Data:           r.samples,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encoding wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finishing wav: %w", err)
	}
	return nil
}

// Close closes the wrapped driver and writes the recording to disk.
func (r *Recorder) Close() (rerr error) {
	if err := r.Driver.Close(); err != nil {
		return err
	}

	f, err := os.Create(r.filename)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("closing wav file: %w", err)
		}
	}()

	if r.logger != nil {
		r.logger.Info("Writing audio",
			log.String("file", r.filename),
			log.Int("samples", len(r.samples)),
			log.Int("beeps", r.beeps))
	}
	return r.WriteTo(f)
}
