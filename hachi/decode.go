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

// Op identifies an instruction family.
type Op uint8

const (
	OpUnknown Op = iota
	OpSys        // 0NNN
	OpCls        // 00E0
	OpRet        // 00EE
	OpJp         // 1NNN
	OpCall       // 2NNN
	OpSeImm      // 3XNN
	OpSneImm     // 4XNN
	OpSeReg      // 5XY0
	OpLdImm      // 6XNN
	OpAddImm     // 7XNN
	OpLdReg      // 8XY0
	OpOr         // 8XY1
	OpAnd        // 8XY2
	OpXor        // 8XY3
	OpAddReg     // 8XY4
	OpSub        // 8XY5
	OpShr        // 8XY6
	OpSubn       // 8XY7
	OpShl        // 8XYE
	OpSneReg     // 9XY0
	OpLdI        // ANNN
	OpJpV0       // BNNN
	OpRnd        // CXNN
	OpDrw        // DXYN
	OpSkp        // EX9E
	OpSknp       // EXA1
	OpLdVxDT     // FX07
	OpLdKey      // FX0A
	OpLdDTVx     // FX15
	OpLdSTVx     // FX18
	OpAddI       // FX1E
	OpLdFont     // FX29
	OpLdBCD      // FX33
	OpStore      // FX55
	OpLoad       // FX65
)

// An Instruction is a decoded opcode: its family plus every field the
// family may address. Fields a family doesn't use are still filled in.
type Instruction struct {
	Op     Op
	Opcode uint16
	// The four nibbles, most significant first. X and Y are register
	// indices, N is the low nibble.
	Kind, X, Y, N uint8
	NN            uint8
	NNN           uint16
}

// Decode splits an opcode into its fields and resolves the instruction family.
// Opcodes that match no known instruction decode to OpUnknown.
func Decode(opcode uint16) Instruction {
	in := Instruction{
		Opcode: opcode,
		Kind:   uint8(opcode >> 12),
		X:      uint8(opcode>>8) & 0x0F,
		Y:      uint8(opcode>>4) & 0x0F,
		N:      uint8(opcode) & 0x0F,
		NN:     uint8(opcode),
		NNN:    opcode & 0x0FFF,
	}
	in.Op = resolve(in)
	return in
}

func resolve(in Instruction) Op {
	switch in.Kind {
	case 0x0:
		switch in.NNN {
		case 0x0E0:
			return OpCls
		case 0x0EE:
			return OpRet
		}
		return OpSys
	case 0x1:
		return OpJp
	case 0x2:
		return OpCall
	case 0x3:
		return OpSeImm
	case 0x4:
		return OpSneImm
	case 0x5:
		if in.N == 0 {
			return OpSeReg
		}
	case 0x6:
		return OpLdImm
	case 0x7:
		return OpAddImm
	case 0x8:
		switch in.N {
		case 0x0:
			return OpLdReg
		case 0x1:
			return OpOr
		case 0x2:
			return OpAnd
		case 0x3:
			return OpXor
		case 0x4:
			return OpAddReg
		case 0x5:
			return OpSub
		case 0x6:
			return OpShr
		case 0x7:
			return OpSubn
		case 0xE:
			return OpShl
		}
	case 0x9:
		if in.N == 0 {
			return OpSneReg
		}
	case 0xA:
		return OpLdI
	case 0xB:
		return OpJpV0
	case 0xC:
		return OpRnd
	case 0xD:
		return OpDrw
	case 0xE:
		switch in.NN {
		case 0x9E:
			return OpSkp
		case 0xA1:
			return OpSknp
		}
	case 0xF:
		switch in.NN {
		case 0x07:
			return OpLdVxDT
		case 0x0A:
			return OpLdKey
		case 0x15:
			return OpLdDTVx
		case 0x18:
			return OpLdSTVx
		case 0x1E:
			return OpAddI
		case 0x29:
			return OpLdFont
		case 0x33:
			return OpLdBCD
		case 0x55:
			return OpStore
		case 0x65:
			return OpLoad
		}
	}
	return OpUnknown
}

// IsSkip reports whether the instruction conditionally skips the next one.
func (in Instruction) IsSkip() bool {
	switch in.Op {
	case OpSeImm, OpSneImm, OpSeReg, OpSneReg, OpSkp, OpSknp:
		return true
	}
	return false
}

// IsBranch reports whether the instruction overwrites the program counter.
func (in Instruction) IsBranch() bool {
	switch in.Op {
	case OpJp, OpCall, OpRet, OpJpV0:
		return true
	}
	return false
}

// -----------------------------------------------------------------------------

// fetch reads the big-endian opcode at the program counter.
func (c *Chip8) fetch() (uint16, error) {
	if c.pc < ProgramStart || c.pc > MemorySize-2 || c.pc%2 != 0 {
		return 0, &ProgramCounterErr{c.pc}
	}
	return uint16(c.memory[c.pc])<<8 | uint16(c.memory[c.pc+1]), nil
}
