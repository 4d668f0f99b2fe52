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

// Package hachi implements a CHIP-8 virtual machine and a disassembler.
package hachi

import (
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// New initializes a new instance of Chip8 with the given settings. If settings
// is nil, DefaultSettings will be used. If drv is nil, a NullDriver is used.
func New(drv Driver, s *Chip8Settings, logger *log.Logger) (*Chip8, error) {
	if s == nil {
		s = DefaultSettings()
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if drv == nil {
		drv = NullDriver{}
	}
	if logger == nil {
		logger = log.NewWithConfig(log.DefaultConfig())
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	c := &Chip8{
		timers:   NewTimers(s.TimerInterval),
		settings: *s,
		driver:   drv,
		logger:   logger,
		rand:     func() uint8 { return uint8(rng.Uint32()) },
	}
	c.Reset()

	if err := drv.OnInit(c); err != nil {
		return nil, err
	}
	logger.Debug("Emulator initialized",
		log.Int("cycles", s.CyclesPerFrame),
		log.Stringer("shift", s.Quirks.Shift),
		log.Stringer("jump", s.Quirks.Jump))
	return c, nil
}

// Tick runs one fetch-decode-execute cycle.
//
// A returned error is fatal to the instruction: the program counter is left on
// the failing instruction and no other state is changed. Unknown opcodes are
// skipped and logged, they never return an error.
func (c *Chip8) Tick() error {
	pc := c.pc
	opcode, err := c.fetch()
	if err != nil {
		return err
	}
	// advance before executing, so that branches are not clobbered
	c.pc += 2

	if err := c.execute(Decode(opcode), pc); err != nil {
		c.pc = pc
		return err
	}
	return nil
}

// execute applies a decoded instruction. pc is the address it was fetched
// from, c.pc already points past it.
func (c *Chip8) execute(in Instruction, pc uint16) error {
	switch in.Op {
	case OpSys:
		// machine code routines of the original interpreter, ignored
		c.logger.Debug("Ignoring SYS call", log.Hex("address", in.NNN), log.Hex("pc", pc))

	case OpCls:
		c.screen = [Width * Height]bool{}
		c.redraw = true

	case OpRet:
		if c.sp == 0 {
			return &StackUnderflowErr{pc}
		}
		c.sp--
		c.pc = c.stack[c.sp]

	case OpJp:
		c.pc = in.NNN

	case OpCall:
		if c.sp >= StackSize {
			return &StackOverflowErr{pc}
		}
		// push return address
		c.stack[c.sp] = c.pc
		c.sp++
		c.pc = in.NNN

	case OpSeImm:
		c.skipIf(c.v[in.X] == in.NN)
	case OpSneImm:
		c.skipIf(c.v[in.X] != in.NN)
	case OpSeReg:
		c.skipIf(c.v[in.X] == c.v[in.Y])
	case OpSneReg:
		c.skipIf(c.v[in.X] != c.v[in.Y])

	case OpLdImm:
		c.v[in.X] = in.NN
	case OpAddImm:
		c.v[in.X] += in.NN
	case OpLdReg:
		c.v[in.X] = c.v[in.Y]
	case OpOr:
		c.v[in.X] |= c.v[in.Y]
	case OpAnd:
		c.v[in.X] &= c.v[in.Y]
	case OpXor:
		c.v[in.X] ^= c.v[in.Y]

	// the flag is written last so that it wins when X is F
	case OpAddReg:
		sum := uint16(c.v[in.X]) + uint16(c.v[in.Y])
		c.v[in.X] = uint8(sum)
		c.v[0xF] = flag(sum > 0xFF)
	case OpSub:
		vx, vy := c.v[in.X], c.v[in.Y]
		c.v[in.X] = vx - vy
		c.v[0xF] = flag(vx >= vy)
	case OpSubn:
		vx, vy := c.v[in.X], c.v[in.Y]
		c.v[in.X] = vy - vx
		c.v[0xF] = flag(vy >= vx)
	case OpShr:
		src := c.shiftSource(in)
		c.v[in.X] = src >> 1
		c.v[0xF] = src & 0x01
	case OpShl:
		src := c.shiftSource(in)
		c.v[in.X] = src << 1
		c.v[0xF] = src >> 7

	case OpLdI:
		c.i = in.NNN
	case OpJpV0:
		if c.settings.Quirks.Jump == JumpVX {
			c.pc = in.NNN + uint16(c.v[in.X])
		} else {
			c.pc = in.NNN + uint16(c.v[0])
		}
	case OpRnd:
		c.v[in.X] = c.rand() & in.NN
	case OpDrw:
		return c.draw(in, pc)

	case OpSkp:
		c.skipIf(c.Key(c.v[in.X] & 0x0F))
	case OpSknp:
		c.skipIf(!c.Key(c.v[in.X] & 0x0F))

	case OpLdVxDT:
		c.v[in.X] = c.timers.Delay()
	case OpLdKey:
		c.waitKey(in)
	case OpLdDTVx:
		c.timers.SetDelay(c.v[in.X])
	case OpLdSTVx:
		c.timers.SetSound(c.v[in.X])

	case OpAddI:
		c.i += uint16(c.v[in.X])
	case OpLdFont:
		c.i = FontStart + uint16(c.v[in.X]&0x0F)*FontGlyphSize
	case OpLdBCD:
		if err := c.checkWrite(c.i, 3, pc); err != nil {
			return err
		}
		value := c.v[in.X]
		c.memory[c.i] = value / 100       // hundreds
		c.memory[c.i+1] = value / 10 % 10 // tens
		c.memory[c.i+2] = value % 10      // ones
	case OpStore:
		n := int(in.X) + 1
		if err := c.checkWrite(c.i, n, pc); err != nil {
			return err
		}
		copy(c.memory[c.i:], c.v[:n])
		c.advanceIndex(n)
	case OpLoad:
		n := int(in.X) + 1
		if err := c.checkRead(c.i, n, pc); err != nil {
			return err
		}
		copy(c.v[:n], c.memory[c.i:])
		c.advanceIndex(n)

	case OpUnknown:
		c.unknown++
		c.logger.Warn("Skipping unknown opcode",
			log.Err(&BadCodeErr{PC: pc, Opcode: in.Opcode}),
			log.Hex("opcode", in.Opcode),
			log.Hex("pc", pc))
	}
	return nil
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func (c *Chip8) skipIf(cond bool) {
	if cond {
		c.pc += 2
	}
}

func (c *Chip8) shiftSource(in Instruction) uint8 {
	if c.settings.Quirks.Shift == ShiftVX {
		return c.v[in.X]
	}
	return c.v[in.Y]
}

func (c *Chip8) advanceIndex(n int) {
	if c.settings.Quirks.IndexIncrement {
		c.i += uint16(n)
	}
}

// waitKey stores the lowest pressed key in VX. While no key is held it rewinds
// the program counter so the same instruction runs again on the next tick.
func (c *Chip8) waitKey(in Instruction) {
	for k, down := range c.keypad {
		if down {
			c.v[in.X] = uint8(k)
			return
		}
	}
	c.pc -= 2
}

// draw XORs an 8xN sprite read from I onto the screen at VX, VY. The start
// position wraps around the screen, the pixels past the edges are clipped
// unless the WrapSprites quirk is set.
func (c *Chip8) draw(in Instruction, pc uint16) error {
	rows := int(in.N)
	if err := c.checkRead(c.i, rows, pc); err != nil {
		return err
	}

	x0 := int(c.v[in.X]) % Width
	y0 := int(c.v[in.Y]) % Height
	wrap := c.settings.Quirks.WrapSprites
	collision := false

	for row := 0; row < rows; row++ {
		y := y0 + row
		if y >= Height {
			if !wrap {
				break
			}
			y %= Height
		}

		line := c.memory[int(c.i)+row]
		for bit := 0; bit < 8; bit++ {
			if line&(0x80>>bit) == 0 {
				continue
			}
			x := x0 + bit
			if x >= Width {
				if !wrap {
					break
				}
				x %= Width
			}

			p := &c.screen[y*Width+x]
			if *p {
				collision = true
			}
			*p = !*p
		}
	}

	c.v[0xF] = flag(collision)
	c.redraw = true
	return nil
}

// -----------------------------------------------------------------------------

func (c *Chip8) checkRead(addr uint16, n int, pc uint16) error {
	if int(addr)+n > MemorySize {
		return &AddressErr{PC: pc, Address: int(addr), Length: n}
	}
	return nil
}

// checkWrite also rejects writes overlapping the font table.
func (c *Chip8) checkWrite(addr uint16, n int, pc uint16) error {
	if err := c.checkRead(addr, n, pc); err != nil {
		return err
	}
	if int(addr) < FontEnd && int(addr)+n > FontStart {
		return &AddressErr{PC: pc, Address: int(addr), Length: n, Protected: true}
	}
	return nil
}
