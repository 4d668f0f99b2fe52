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
	"strings"
	"time"
)

// ShiftMode selects the source register of SHR and SHL.
type ShiftMode int

const (
	// ShiftVY is the original behaviour: VX = VY shifted, VF = bit shifted
	// out of VY.
	ShiftVY ShiftMode = iota
	// ShiftVX ignores VY and shifts VX in place.
	ShiftVX
)

func (m ShiftMode) String() string {
	if m == ShiftVX {
		return "vx"
	}
	return "vy"
}

// ParseShiftMode parses "vy" or "vx".
func ParseShiftMode(s string) (ShiftMode, error) {
	switch strings.ToLower(s) {
	case "vy":
		return ShiftVY, nil
	case "vx":
		return ShiftVX, nil
	}
	return ShiftVY, fmt.Errorf("unknown shift mode %q, valid: vy, vx", s)
}

// JumpMode selects the register added to the target of BNNN.
type JumpMode int

const (
	// JumpV0 is the original behaviour: PC = NNN + V0.
	JumpV0 JumpMode = iota
	// JumpVX reads the opcode as BXNN: PC = XNN + VX.
	JumpVX
)

func (m JumpMode) String() string {
	if m == JumpVX {
		return "vx"
	}
	return "v0"
}

// ParseJumpMode parses "v0" or "vx".
func ParseJumpMode(s string) (JumpMode, error) {
	switch strings.ToLower(s) {
	case "v0":
		return JumpV0, nil
	case "vx":
		return JumpVX, nil
	}
	return JumpV0, fmt.Errorf("unknown jump mode %q, valid: v0, vx", s)
}

// Quirks holds the opcode behaviours that differ between the original
// interpreter and the variants found in the wild. The zero value is the
// original behaviour except for IndexIncrement, use DefaultSettings.
type Quirks struct {
	Shift ShiftMode
	// IndexIncrement makes FX55 and FX65 leave I pointing past the last
	// register copied (I += X + 1).
	IndexIncrement bool
	Jump           JumpMode
	// WrapSprites wraps sprite pixels around the screen edges. Pixels are
	// clipped when false.
	WrapSprites bool
}

// -----------------------------------------------------------------------------

// Chip8Settings holds the configuration parameters for a Chip8 instance.
type Chip8Settings struct {
	// Instructions executed by every call to Frame.
	CyclesPerFrame int
	// The interval between each timer tick. The original interpreter uses
	// 60hz = time.Second / 60.
	TimerInterval time.Duration
	Quirks        Quirks
}

// Validate validates the settings.
// Returns an error when the settings aren't valid.
func (s *Chip8Settings) Validate() error {
	if s.CyclesPerFrame < 1 || s.CyclesPerFrame > 1000 {
		return fmt.Errorf("CyclesPerFrame must be in 1..1000, got %v", s.CyclesPerFrame)
	}
	if s.TimerInterval <= 0 {
		return fmt.Errorf("TimerInterval must be positive, got %v", s.TimerInterval)
	}
	if s.Quirks.Shift != ShiftVY && s.Quirks.Shift != ShiftVX {
		return fmt.Errorf("invalid shift mode %d", s.Quirks.Shift)
	}
	if s.Quirks.Jump != JumpV0 && s.Quirks.Jump != JumpVX {
		return fmt.Errorf("invalid jump mode %d", s.Quirks.Jump)
	}
	return nil
}

// DefaultSettings returns the settings which mimick the original CHIP-8
// implementation.
func DefaultSettings() *Chip8Settings {
	return &Chip8Settings{
		CyclesPerFrame: 10,
		TimerInterval:  time.Second / 60,
		Quirks: Quirks{
			Shift:          ShiftVY,
			IndexIncrement: true,
			Jump:           JumpV0,
		},
	}
}
