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

package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Francesco149/hachi8/hachi"
)

// printDisassembly writes a listing of program, one line per word.
func printDisassembly(out io.Writer, program []byte) error {
	lines, err := hachi.Disassemble(program)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 8, 8, 0, '\t', 0)
	fmt.Fprintln(w, "addr\topcode\tpseudo-code\tascii\tdescription\t")

	for _, line := range lines {
		asciitext := ""
		if ascii := line.ASCII(); len(ascii) != 0 {
			asciitext = fmt.Sprintf("`%s`", ascii)
		}

		opcodeFormatter := "%04X"
		if line.Size() == 1 {
			opcodeFormatter = "%02X"
		}

		fmt.Fprintf(w, "%04X\t"+opcodeFormatter+"\t%v\t%s\t%s\n",
			line.Address, line.Opcode(), line, asciitext, line.Description())
	}

	return w.Flush()
}
