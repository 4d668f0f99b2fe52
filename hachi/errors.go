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
	"errors"
	"fmt"
)

// ErrQuit is returned by a driver to request the end of the frame loop.
var ErrQuit = errors.New("quit requested")

// An OutOfMemoryErr is returned upon attempting to load a program that
// exceeds the memory's capacity. Memory is left untouched.
type OutOfMemoryErr struct {
	ProgramSize int
	FreeMemory  int
}

func (e *OutOfMemoryErr) Error() string {
	return fmt.Sprintf("not enough memory (program size: %v, free memory: %v)",
		e.ProgramSize, e.FreeMemory)
}

// A StackOverflowErr is returned when a call is executed with a full stack.
type StackOverflowErr struct {
	PC uint16
}

func (e *StackOverflowErr) Error() string {
	return fmt.Sprintf("stack overflow at %04X", e.PC)
}

// A StackUnderflowErr is returned when a return is executed with an empty
// stack.
type StackUnderflowErr struct {
	PC uint16
}

func (e *StackUnderflowErr) Error() string {
	return fmt.Sprintf("stack underflow at %04X", e.PC)
}

// An AddressErr is returned when an instruction tries to access memory
// outside of the address space, or to write to the font table.
type AddressErr struct {
	PC      uint16
	Address int
	Length  int
	// Protected is set when the access was in range but hit the font table.
	Protected bool
}

func (e *AddressErr) Error() string {
	if e.Protected {
		return fmt.Sprintf("write to protected memory %03X-%03X at %04X",
			e.Address, e.Address+e.Length-1, e.PC)
	}
	return fmt.Sprintf("memory access %03X-%03X out of range at %04X",
		e.Address, e.Address+e.Length-1, e.PC)
}

// A ProgramCounterErr is returned when the program counter points outside of
// program memory or to an odd address.
type ProgramCounterErr struct {
	PC uint16
}

func (e *ProgramCounterErr) Error() string {
	return fmt.Sprintf("program counter %04X outside of program memory", e.PC)
}

// A BadCodeErr describes an opcode that matches no known instruction. It is
// never returned by Tick, unknown opcodes are skipped and logged instead.
type BadCodeErr struct {
	PC     uint16
	Opcode uint16
}

func (e *BadCodeErr) Error() string {
	return fmt.Sprintf("unknown opcode %04X at %04X", e.Opcode, e.PC)
}
