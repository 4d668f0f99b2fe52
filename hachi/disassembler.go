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

	"github.com/retroenv/retrogolib/arch/cpu/chip8"
)

// A Line is one disassembled word of a program.
type Line struct {
	Address     uint16
	Data        []byte
	Instruction Instruction
}

// Size returns the size of the line in bytes, 1 for a trailing odd byte.
func (l Line) Size() int { return len(l.Data) }

// Opcode returns the raw data as a 16-bit integer.
func (l Line) Opcode() (res uint16) {
	res = uint16(l.Data[0])
	if len(l.Data) == 2 {
		res <<= 8
		res |= uint16(l.Data[1])
	}
	return
}

// ASCII returns the ASCII representation of the raw data for this line.
// Returns an empty string if the data is not printable ascii.
func (l Line) ASCII() (res string) {
	if isPrintableASCII(l.Data) {
		res = string(l.Data)
	}
	return
}

// String returns a pseudo-asm representation of the line.
func (l Line) String() string {
	if len(l.Data) != 2 || l.Instruction.Op == OpUnknown {
		return fmt.Sprintf("DB % 02X", l.Data)
	}
	return formatInstruction(l.Instruction)
}

// Description returns a detailed description of what the line does.
func (l Line) Description() string {
	if len(l.Data) != 2 {
		return descriptions[OpUnknown]
	}
	return descriptions[l.Instruction.Op]
}

// -----------------------------------------------------------------------------

func mnemonic(ins *chip8.Instruction) string {
	return strings.ToUpper(ins.Name)
}

func formatInstruction(in Instruction) string {
	switch in.Op {
	case OpSys:
		return fmt.Sprintf("SYS %03X", in.NNN)
	case OpCls:
		return mnemonic(chip8.Cls)
	case OpRet:
		return mnemonic(chip8.Ret)
	case OpJp:
		return fmt.Sprintf("%s %03X", mnemonic(chip8.Jp), in.NNN)
	case OpCall:
		return fmt.Sprintf("%s %03X", mnemonic(chip8.Call), in.NNN)
	case OpSeImm:
		return fmt.Sprintf("%s V%1X,%02X", mnemonic(chip8.Se), in.X, in.NN)
	case OpSneImm:
		return fmt.Sprintf("%s V%1X,%02X", mnemonic(chip8.Sne), in.X, in.NN)
	case OpSeReg:
		return fmt.Sprintf("%s V%1X,V%1X", mnemonic(chip8.Se), in.X, in.Y)
	case OpSneReg:
		return fmt.Sprintf("%s V%1X,V%1X", mnemonic(chip8.Sne), in.X, in.Y)
	case OpLdImm:
		return fmt.Sprintf("%s V%1X,%02X", mnemonic(chip8.Ld), in.X, in.NN)
	case OpAddImm:
		return fmt.Sprintf("%s V%1X,%02X", mnemonic(chip8.Add), in.X, in.NN)
	case OpLdReg:
		return fmt.Sprintf("%s V%1X,V%1X", mnemonic(chip8.Ld), in.X, in.Y)
	case OpOr:
		return fmt.Sprintf("%s V%1X,V%1X", mnemonic(chip8.Or), in.X, in.Y)
	case OpAnd:
		return fmt.Sprintf("%s V%1X,V%1X", mnemonic(chip8.And), in.X, in.Y)
	case OpXor:
		return fmt.Sprintf("%s V%1X,V%1X", mnemonic(chip8.Xor), in.X, in.Y)
	case OpAddReg:
		return fmt.Sprintf("%s V%1X,V%1X", mnemonic(chip8.Add), in.X, in.Y)
	case OpSub:
		return fmt.Sprintf("%s V%1X,V%1X", mnemonic(chip8.Sub), in.X, in.Y)
	case OpShr:
		return fmt.Sprintf("%s V%1X,V%1X", mnemonic(chip8.Shr), in.X, in.Y)
	case OpSubn:
		return fmt.Sprintf("%s V%1X,V%1X", mnemonic(chip8.Subn), in.X, in.Y)
	case OpShl:
		return fmt.Sprintf("%s V%1X,V%1X", mnemonic(chip8.Shl), in.X, in.Y)
	case OpLdI:
		return fmt.Sprintf("%s I,%03X", mnemonic(chip8.Ld), in.NNN)
	case OpJpV0:
		return fmt.Sprintf("%s V0,%03X", mnemonic(chip8.Jp), in.NNN)
	case OpRnd:
		return fmt.Sprintf("%s V%1X,%02X", mnemonic(chip8.Rnd), in.X, in.NN)
	case OpDrw:
		return fmt.Sprintf("%s V%1X,V%1X,%1X", mnemonic(chip8.Drw), in.X, in.Y, in.N)
	case OpSkp:
		return fmt.Sprintf("%s V%1X", mnemonic(chip8.Skp), in.X)
	case OpSknp:
		return fmt.Sprintf("%s V%1X", mnemonic(chip8.Sknp), in.X)
	case OpLdVxDT:
		return fmt.Sprintf("%s V%1X,DT", mnemonic(chip8.Ld), in.X)
	case OpLdKey:
		return fmt.Sprintf("%s V%1X,K", mnemonic(chip8.Ld), in.X)
	case OpLdDTVx:
		return fmt.Sprintf("%s DT,V%1X", mnemonic(chip8.Ld), in.X)
	case OpLdSTVx:
		return fmt.Sprintf("%s ST,V%1X", mnemonic(chip8.Ld), in.X)
	case OpAddI:
		return fmt.Sprintf("%s I,V%1X", mnemonic(chip8.Add), in.X)
	case OpLdFont:
		return fmt.Sprintf("%s F,V%1X", mnemonic(chip8.Ld), in.X)
	case OpLdBCD:
		return fmt.Sprintf("%s B,V%1X", mnemonic(chip8.Ld), in.X)
	case OpStore:
		return fmt.Sprintf("%s [I],V%1X", mnemonic(chip8.Ld), in.X)
	case OpLoad:
		return fmt.Sprintf("%s V%1X,[I]", mnemonic(chip8.Ld), in.X)
	}
	return fmt.Sprintf("DB %02X %02X", in.Opcode>>8, in.Opcode&0xFF)
}

var descriptions = map[Op]string{
	OpUnknown: "Unknown / Raw Data",
	OpSys:     "0NNN: Calls RCA 1802 program at address NNN (ignored).",
	OpCls:     "00E0: Clears the screen.",
	OpRet:     "00EE: Returns from a subroutine.",
	OpJp:      "1NNN: Jumps to address NNN.",
	OpCall:    "2NNN: Calls subroutine at NNN.",
	OpSeImm:   "3XNN: Skips the next instruction if VX equals NN.",
	OpSneImm:  "4XNN: Skips the next instruction if VX doesn't equal NN.",
	OpSeReg:   "5XY0: Skips the next instruction if VX equals VY.",
	OpLdImm:   "6XNN: Sets VX to NN.",
	OpAddImm:  "7XNN: Adds NN to VX. VF is not affected.",
	OpLdReg:   "8XY0: Sets VX to the value of VY.",
	OpOr:      "8XY1: Sets VX to VX | VY (bit-wise OR).",
	OpAnd:     "8XY2: Sets VX to VX & VY (bit-wise AND).",
	OpXor:     "8XY3: Sets VX to VX ^ VY (bit-wise XOR).",
	OpAddReg:  "8XY4: VX += VY. VF = 1 when there's a carry, 0 when there isn't.",
	OpSub:     "8XY5: VX -= VY. VF = 0 when there's a borrow, 1 when there isn't.",
	OpShr:     "8XY6: VX = VY >> 1. VF = least significant bit prior to the shift.",
	OpSubn:    "8XY7: VX = VY - VX. VF = 0 when there's a borrow, 1 when there isn't.",
	OpShl:     "8XYE: VX = VY << 1. VF = most significant bit prior to the shift.",
	OpSneReg:  "9XY0: Skips the next instruction if VX doesn't equal VY.",
	OpLdI:     "ANNN: Sets I to the address NNN.",
	OpJpV0:    "BNNN: Jumps to the address NNN plus V0.",
	OpRnd:     "CXNN: Sets VX to a random number (0-FF) & NN (bit-wise AND).",
	OpDrw:     "DXYN: Draws N rows of sprite pointed by I at VX,VY. VF = 1 on collision.",
	OpSkp:     "EX9E: Skips the next instruction if the key stored in VX is pressed.",
	OpSknp:    "EXA1: Skips the next instruction if the key stored in VX isn't pressed.",
	OpLdVxDT:  "FX07: Sets VX to the value of the delay timer.",
	OpLdKey:   "FX0A: A key press is awaited, and then key number is stored in VX.",
	OpLdDTVx:  "FX15: Sets the delay timer to VX.",
	OpLdSTVx:  "FX18: Sets the sound timer to VX.",
	OpAddI:    "FX1E: Adds VX to I.",
	OpLdFont:  "FX29: Sets I to the location of the sprite for the character in VX.",
	OpLdBCD:   "FX33: Store BCD representation of VX in memory at I, I+1, and I+2.",
	OpStore:   "FX55: Stores V0 to VX in memory starting at address I.",
	OpLoad:    "FX65: Fills V0 to VX with values from memory starting at address I.",
}

// -----------------------------------------------------------------------------

// Disassemble decodes raw program data into one line per 16-bit word, starting
// at ProgramStart. It cannot tell code from data, every aligned word is
// decoded. A trailing odd byte becomes a 1-byte raw data line.
func Disassemble(b []byte) ([]Line, error) {
	if len(b) > MaxProgramSize {
		return nil, &OutOfMemoryErr{ProgramSize: len(b), FreeMemory: MaxProgramSize}
	}

	res := make([]Line, 0, (len(b)+1)/2)
	for i := 0; i < len(b); i += 2 {
		end := i + 2
		if end > len(b) {
			end = len(b)
		}

		line := Line{
			Address: uint16(ProgramStart + i),
			Data:    b[i:end],
		}
		if len(line.Data) == 2 {
			line.Instruction = Decode(line.Opcode())
		}
		res = append(res, line)
	}
	return res, nil
}

func isPrintableASCII(s []byte) bool {
	for _, c := range s {
		if c < ' ' || c > '~' {
			return false
		}
	}
	return true
}
