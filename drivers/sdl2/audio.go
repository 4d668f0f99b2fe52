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

package sdl2

import (
	"github.com/Francesco149/hachi8/drivers/tone"
	"github.com/veandco/go-sdl2/sdl"
)

// amplitude of the unsigned 8-bit tone around the silence level
const amplitude = 24

// audio streams the buzzer tone into a queued SDL audio device.
type audio struct {
	id     sdl.AudioDeviceID
	spec   sdl.AudioSpec
	wave   *tone.Square
	buffer []byte
}

func openAudio() (*audio, error) {
	spec := &sdl.AudioSpec{
		Freq:     tone.SampleRate,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}

	aud := &audio{buffer: make([]byte, tone.FrameSamples)}

	var err error
	aud.id, err = sdl.OpenAudioDevice("", false, spec, &aud.spec, 0)
	if err != nil {
		return nil, err
	}
	aud.wave = tone.NewSquare(tone.Frequency, int(aud.spec.Freq))

	sdl.PauseAudioDevice(aud.id, false)
	return aud, nil
}

// play tops up the queue to two frames of tone while on, and drops the queue
// as soon as the tone stops.
func (aud *audio) play(on bool) error {
	if !on {
		sdl.ClearQueuedAudio(aud.id)
		aud.wave.Reset()
		return nil
	}

	for sdl.GetQueuedAudioSize(aud.id) < uint32(2*len(aud.buffer)) {
		aud.wave.FillU8(aud.buffer, amplitude)
		if err := sdl.QueueAudio(aud.id, aud.buffer); err != nil {
			return err
		}
	}
	return nil
}

func (aud *audio) close() {
	sdl.CloseAudioDevice(aud.id)
}
