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
	"bytes"
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestChip8(t *testing.T, s *Chip8Settings, program ...byte) *Chip8 {
	t.Helper()

	c, err := New(nil, s, log.NewTestLogger(t))
	assert.NoError(t, err)
	assert.NoError(t, c.Load(program))
	return c
}

func tick(t *testing.T, c *Chip8, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		assert.NoError(t, c.Tick())
	}
}

func TestLoadImmediate(t *testing.T) {
	c := newTestChip8(t, nil, 0x60, 0x05)
	tick(t, c, 1)

	assert.Equal(t, uint8(5), c.v[0])
	assert.Equal(t, uint16(0x202), c.pc)
}

func TestLoadIndex(t *testing.T) {
	c := newTestChip8(t, nil, 0xA2, 0x0A)
	tick(t, c, 1)

	assert.Equal(t, uint16(0x20A), c.i)
	assert.Equal(t, uint16(0x202), c.pc)
}

func TestCallReturn(t *testing.T) {
	c := newTestChip8(t, nil, 0x22, 0x04, 0x00, 0x00, 0x00, 0xEE)

	tick(t, c, 1)
	assert.Equal(t, uint16(0x204), c.pc)
	assert.Equal(t, 1, c.sp)
	assert.Equal(t, 1, len(c.Stack()))
	assert.Equal(t, uint16(0x202), c.Stack()[0])

	tick(t, c, 1)
	assert.Equal(t, uint16(0x202), c.pc)
	assert.Equal(t, 0, c.sp)
}

func TestStackOverflow(t *testing.T) {
	// 0x200: CALL 200, recursing forever
	c := newTestChip8(t, nil, 0x22, 0x00)
	tick(t, c, StackSize)
	assert.Equal(t, StackSize, c.sp)

	err := c.Tick()
	var overflow *StackOverflowErr
	assert.True(t, errors.As(err, &overflow))
	assert.Equal(t, uint16(0x200), overflow.PC)
	// the failing call left no trace
	assert.Equal(t, StackSize, c.sp)
	assert.Equal(t, uint16(0x200), c.pc)
}

func TestStackUnderflow(t *testing.T) {
	c := newTestChip8(t, nil, 0x00, 0xEE)

	err := c.Tick()
	var underflow *StackUnderflowErr
	assert.True(t, errors.As(err, &underflow))
	assert.Equal(t, uint16(0x200), c.pc)
	assert.Equal(t, 0, c.sp)
}

func TestJump(t *testing.T) {
	c := newTestChip8(t, nil, 0x13, 0x45)
	tick(t, c, 1)
	assert.Equal(t, uint16(0x345), c.pc)
}

func TestJumpOffset(t *testing.T) {
	tests := []struct {
		name     string
		mode     JumpMode
		expected uint16
	}{
		{"v0", JumpV0, 0x300 + 0x10},
		{"vx", JumpVX, 0x300 + 0x20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			s.Quirks.Jump = tt.mode
			c := newTestChip8(t, s, 0xB3, 0x00)
			c.v[0] = 0x10
			c.v[3] = 0x20
			tick(t, c, 1)
			assert.Equal(t, tt.expected, c.pc)
		})
	}
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name     string
		opcode   []byte
		setup    func(c *Chip8)
		expected uint16
	}{
		{"SE imm taken", []byte{0x31, 0x07}, func(c *Chip8) { c.v[1] = 7 }, 0x204},
		{"SE imm not taken", []byte{0x31, 0x07}, func(c *Chip8) { c.v[1] = 8 }, 0x202},
		{"SNE imm taken", []byte{0x41, 0x07}, func(c *Chip8) { c.v[1] = 8 }, 0x204},
		{"SNE imm not taken", []byte{0x41, 0x07}, func(c *Chip8) { c.v[1] = 7 }, 0x202},
		{"SE reg taken", []byte{0x51, 0x20}, func(c *Chip8) { c.v[1], c.v[2] = 3, 3 }, 0x204},
		{"SE reg not taken", []byte{0x51, 0x20}, func(c *Chip8) { c.v[1], c.v[2] = 3, 4 }, 0x202},
		{"SNE reg taken", []byte{0x91, 0x20}, func(c *Chip8) { c.v[1], c.v[2] = 3, 4 }, 0x204},
		{"SNE reg not taken", []byte{0x91, 0x20}, func(c *Chip8) { c.v[1], c.v[2] = 3, 3 }, 0x202},
		{"SKP taken", []byte{0xE1, 0x9E}, func(c *Chip8) { c.v[1] = 0xA; c.SetKey(0xA, true) }, 0x204},
		{"SKP not taken", []byte{0xE1, 0x9E}, func(c *Chip8) { c.v[1] = 0xA }, 0x202},
		{"SKNP taken", []byte{0xE1, 0xA1}, func(c *Chip8) { c.v[1] = 0xA }, 0x204},
		{"SKNP not taken", []byte{0xE1, 0xA1}, func(c *Chip8) { c.v[1] = 0xA; c.SetKey(0xA, true) }, 0x202},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChip8(t, nil, tt.opcode...)
			tt.setup(c)
			tick(t, c, 1)
			assert.Equal(t, tt.expected, c.pc)
		})
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name   string
		opcode []byte
		vx, vy uint8
		result uint8
		vf     uint8
	}{
		{"ADD imm wraps", []byte{0x71, 0xFF}, 0x02, 0, 0x01, 0xAA},
		{"LD reg", []byte{0x81, 0x20}, 0x01, 0x42, 0x42, 0xAA},
		{"OR", []byte{0x81, 0x21}, 0xF0, 0x0F, 0xFF, 0xAA},
		{"AND", []byte{0x81, 0x22}, 0xF3, 0x3F, 0x33, 0xAA},
		{"XOR", []byte{0x81, 0x23}, 0xFF, 0x0F, 0xF0, 0xAA},
		{"ADD reg no carry", []byte{0x81, 0x24}, 0x10, 0x20, 0x30, 0},
		{"ADD reg carry", []byte{0x81, 0x24}, 0xFF, 0x02, 0x01, 1},
		{"ADD reg exactly 256", []byte{0x81, 0x24}, 0x80, 0x80, 0x00, 1},
		{"SUB no borrow", []byte{0x81, 0x25}, 0x30, 0x10, 0x20, 1},
		{"SUB equal", []byte{0x81, 0x25}, 0x30, 0x30, 0x00, 1},
		{"SUB borrow", []byte{0x81, 0x25}, 0x10, 0x30, 0xE0, 0},
		{"SUBN no borrow", []byte{0x81, 0x27}, 0x10, 0x30, 0x20, 1},
		{"SUBN borrow", []byte{0x81, 0x27}, 0x30, 0x10, 0xE0, 0},
		{"SHR from VY", []byte{0x81, 0x26}, 0x00, 0x05, 0x02, 1},
		{"SHL from VY", []byte{0x81, 0x2E}, 0x00, 0x81, 0x02, 1},
		{"SHL no carry", []byte{0x81, 0x2E}, 0xFF, 0x01, 0x02, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChip8(t, nil, tt.opcode...)
			c.v[1] = tt.vx
			c.v[2] = tt.vy
			c.v[0xF] = 0xAA
			tick(t, c, 1)

			assert.Equal(t, tt.result, c.v[1])
			assert.Equal(t, tt.vf, c.v[0xF])
			assert.Equal(t, uint16(0x202), c.pc)
		})
	}
}

func TestArithmeticFlagRegister(t *testing.T) {
	// ADD VF,V1: the flag overwrites the sum
	c := newTestChip8(t, nil, 0x8F, 0x14)
	c.v[0xF] = 0xFF
	c.v[1] = 0x01
	tick(t, c, 1)
	assert.Equal(t, uint8(1), c.v[0xF])
}

func TestShiftVX(t *testing.T) {
	s := DefaultSettings()
	s.Quirks.Shift = ShiftVX

	c := newTestChip8(t, s, 0x81, 0x26, 0x83, 0x2E)
	c.v[1] = 0x03
	c.v[2] = 0xFF
	c.v[3] = 0x40
	tick(t, c, 1)
	assert.Equal(t, uint8(0x01), c.v[1])
	assert.Equal(t, uint8(1), c.v[0xF])

	tick(t, c, 1)
	assert.Equal(t, uint8(0x80), c.v[3])
	assert.Equal(t, uint8(0), c.v[0xF])
}

func TestRandomMask(t *testing.T) {
	c := newTestChip8(t, nil, 0xC1, 0x0F, 0x12, 0x00)
	for i := 0; i < 200; i++ {
		tick(t, c, 2)
		assert.Equal(t, uint8(0), c.v[1]&0xF0)
	}
}

func TestClearScreen(t *testing.T) {
	c := newTestChip8(t, nil, 0x00, 0xE0)
	c.screen[5] = true
	tick(t, c, 1)

	assert.False(t, c.Pixel(5, 0))
	assert.True(t, c.Redraw())
	assert.False(t, c.Redraw())
}

func TestDrawTwiceClears(t *testing.T) {
	// LD I,F(V0) ; DRW V1,V2,5 ; DRW V1,V2,5
	c := newTestChip8(t, nil, 0xF0, 0x29, 0xD1, 0x25, 0xD1, 0x25)
	c.v[0] = 0x8
	c.v[1] = 10
	c.v[2] = 4

	tick(t, c, 2)
	assert.Equal(t, uint8(0), c.v[0xF])
	assert.True(t, c.Pixel(10, 4))
	assert.True(t, c.Pixel(13, 8))
	assert.False(t, c.Pixel(14, 4))

	tick(t, c, 1)
	assert.Equal(t, uint8(1), c.v[0xF])
	for _, p := range c.Framebuffer() {
		assert.False(t, p)
	}
	assert.True(t, c.Redraw())
}

func TestDrawClipping(t *testing.T) {
	// sprite 0xFF at 60,31 with 2 rows
	c := newTestChip8(t, nil, 0xD1, 0x22, 0x00, 0x00, 0xFF, 0xFF)
	c.i = 0x204
	c.v[1] = 60
	c.v[2] = 31
	tick(t, c, 1)

	lit := 0
	for _, p := range c.Framebuffer() {
		if p {
			lit++
		}
	}
	assert.Equal(t, 4, lit)
	assert.True(t, c.Pixel(63, 31))
	assert.False(t, c.Pixel(0, 31))
	assert.False(t, c.Pixel(60, 0))
}

func TestDrawWrapping(t *testing.T) {
	s := DefaultSettings()
	s.Quirks.WrapSprites = true

	c := newTestChip8(t, s, 0xD1, 0x22, 0x00, 0x00, 0xFF, 0xFF)
	c.i = 0x204
	c.v[1] = 60
	c.v[2] = 31
	tick(t, c, 1)

	assert.True(t, c.Pixel(63, 31))
	assert.True(t, c.Pixel(0, 31))
	assert.True(t, c.Pixel(3, 0))
	assert.False(t, c.Pixel(4, 0))
}

func TestDrawStartWraps(t *testing.T) {
	c := newTestChip8(t, nil, 0xD1, 0x21, 0x80)
	c.i = 0x202
	c.v[1] = 64 + 3
	c.v[2] = 32 + 1
	tick(t, c, 1)
	assert.True(t, c.Pixel(3, 1))
}

func TestDrawOutOfMemory(t *testing.T) {
	c := newTestChip8(t, nil, 0xD1, 0x2F)
	c.i = 0xFFA

	err := c.Tick()
	var addrErr *AddressErr
	assert.True(t, errors.As(err, &addrErr))
	assert.False(t, addrErr.Protected)
	assert.Equal(t, uint16(0x200), c.pc)
	assert.False(t, c.Redraw())
}

func TestWaitKey(t *testing.T) {
	c := newTestChip8(t, nil, 0xF3, 0x0A)

	tick(t, c, 5)
	assert.Equal(t, uint16(0x200), c.pc)

	c.SetKey(0x9, true)
	c.SetKey(0xC, true)
	tick(t, c, 1)
	assert.Equal(t, uint8(0x9), c.v[3])
	assert.Equal(t, uint16(0x202), c.pc)
}

func TestTimerOpcodes(t *testing.T) {
	// LD DT,V1 ; LD ST,V2 ; LD V3,DT
	c := newTestChip8(t, nil, 0xF1, 0x15, 0xF2, 0x18, 0xF3, 0x07)
	c.v[1] = 42
	c.v[2] = 3
	tick(t, c, 3)

	assert.Equal(t, uint8(42), c.timers.Delay())
	assert.Equal(t, uint8(3), c.timers.Sound())
	assert.Equal(t, uint8(42), c.v[3])

	for i := 0; i < 3; i++ {
		c.timers.Step()
	}
	assert.Equal(t, uint8(0), c.timers.Sound())
	c.timers.Step()
	assert.Equal(t, uint8(0), c.timers.Sound())
	assert.Equal(t, uint8(38), c.timers.Delay())
}

func TestTicksDontAdvanceTimers(t *testing.T) {
	// LD DT,V1 ; JP 202
	c := newTestChip8(t, nil, 0xF1, 0x15, 0x12, 0x02)
	c.v[1] = 10
	tick(t, c, 1000)
	assert.Equal(t, uint8(10), c.timers.Delay())
}

func TestAddIndex(t *testing.T) {
	c := newTestChip8(t, nil, 0xF1, 0x1E)
	c.i = 0xFFFF
	c.v[1] = 2
	c.v[0xF] = 0xAA
	tick(t, c, 1)
	assert.Equal(t, uint16(0x0001), c.i)
	assert.Equal(t, uint8(0xAA), c.v[0xF])
}

func TestFontAddress(t *testing.T) {
	c := newTestChip8(t, nil, 0xF1, 0x29)
	c.v[1] = 0xA
	tick(t, c, 1)
	assert.Equal(t, uint16(FontStart+0xA*5), c.i)
	assert.Equal(t, byte(0xF0), c.memory[c.i])
}

func TestBCD(t *testing.T) {
	c := newTestChip8(t, nil, 0xF1, 0x33)
	c.v[1] = 123
	c.i = 0x300
	tick(t, c, 1)
	assert.True(t, bytes.Equal([]byte{1, 2, 3}, c.memory[0x300:0x303]))
}

func TestBCDProtected(t *testing.T) {
	c := newTestChip8(t, nil, 0xF1, 0x33)
	c.v[1] = 255
	c.i = FontEnd - 1

	err := c.Tick()
	var addrErr *AddressErr
	assert.True(t, errors.As(err, &addrErr))
	assert.True(t, addrErr.Protected)
	assert.Equal(t, font[len(font)-1], c.memory[FontEnd-1])
}

func TestStoreLoad(t *testing.T) {
	tests := []struct {
		name      string
		increment bool
		expectedI uint16
	}{
		{"index increment", true, 0x304},
		{"index unchanged", false, 0x300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			s.Quirks.IndexIncrement = tt.increment

			// LD [I],V3 ; LD V3,[I] with I reset in between
			c := newTestChip8(t, s, 0xF3, 0x55, 0xA3, 0x00, 0xF3, 0x65)
			c.i = 0x300
			c.v = [16]uint8{1, 2, 3, 4, 5}
			tick(t, c, 1)
			assert.True(t, bytes.Equal([]byte{1, 2, 3, 4, 0}, c.memory[0x300:0x305]))
			assert.Equal(t, tt.expectedI, c.i)

			c.v = [16]uint8{}
			c.v[4] = 9
			tick(t, c, 2)
			assert.Equal(t, uint8(1), c.v[0])
			assert.Equal(t, uint8(4), c.v[3])
			assert.Equal(t, uint8(9), c.v[4])
			assert.Equal(t, tt.expectedI, c.i)
		})
	}
}

func TestStoreOutOfRange(t *testing.T) {
	c := newTestChip8(t, nil, 0xFF, 0x55)
	c.i = 0xFF8

	err := c.Tick()
	var addrErr *AddressErr
	assert.True(t, errors.As(err, &addrErr))
	assert.Equal(t, 0xFF8, addrErr.Address)
	assert.Equal(t, 16, addrErr.Length)
	assert.Equal(t, uint16(0xFF8), c.i)
}

func TestUnknownOpcode(t *testing.T) {
	c := newTestChip8(t, nil, 0x80, 0x0F, 0xE0, 0x00, 0x51, 0x21)
	tick(t, c, 3)
	assert.Equal(t, uint16(0x206), c.pc)
	assert.Equal(t, 3, c.UnknownOpcodes())
}

func TestSysIgnored(t *testing.T) {
	c := newTestChip8(t, nil, 0x01, 0x23)
	tick(t, c, 1)
	assert.Equal(t, uint16(0x202), c.pc)
	assert.Equal(t, 0, c.UnknownOpcodes())
}

func TestProgramCounterOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		target []byte
	}{
		{"below program memory", []byte{0x10, 0x50}},
		{"odd address", []byte{0x12, 0x01}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestChip8(t, nil, tt.target...)
			tick(t, c, 1)

			err := c.Tick()
			var pcErr *ProgramCounterErr
			assert.True(t, errors.As(err, &pcErr))
		})
	}

	c := newTestChip8(t, nil)
	c.pc = 0xFFF
	assert.Error(t, c.Tick())
}

func TestNonBranchingAdvance(t *testing.T) {
	program := []byte{
		0x60, 0x01, // LD V0,01
		0x70, 0x01, // ADD V0,01
		0x81, 0x04, // ADD V1,V0
		0xA3, 0x00, // LD I,300
		0xF0, 0x1E, // ADD I,V0
		0xF0, 0x15, // LD DT,V0
		0xC0, 0xFF, // RND V0,FF
	}
	c := newTestChip8(t, nil, program...)
	for i := 0; i < len(program)/2; i++ {
		pc := c.pc
		tick(t, c, 1)
		assert.Equal(t, pc+2, c.pc)
	}
}
