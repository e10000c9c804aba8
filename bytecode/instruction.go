// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bytecode compiles Brainfuck source into a linear program of
// typed instructions with peephole fusion, and executes that program
// on a dispatch-loop interpreter.
package bytecode

import "fmt"

// Op identifies an instruction's operation.
type Op uint8

const (
	// MovePointer advances the data pointer by Operand.
	MovePointer Op = iota
	// AddCell adds Operand to the cell under the pointer, modulo 256.
	AddCell
	// JumpIfZero adds Operand to the program counter if the cell under
	// the pointer is zero.
	JumpIfZero
	// JumpIfNonZero adds Operand to the program counter if the cell
	// under the pointer is non-zero.
	JumpIfNonZero
	// Output writes the cell under the pointer to the byte-out callback.
	Output
	// Input reads a byte from the byte-in callback into the cell under
	// the pointer.
	Input
	// Zero clears Operand cells starting at the pointer. If Operand is
	// 0, it clears the current cell without moving the pointer; if
	// Operand is n > 0, it clears n cells and advances the pointer by n.
	Zero
)

func (op Op) String() string {
	switch op {
	case MovePointer:
		return "MovePointer"
	case AddCell:
		return "AddCell"
	case JumpIfZero:
		return "JumpIfZero"
	case JumpIfNonZero:
		return "JumpIfNonZero"
	case Output:
		return "Output"
	case Input:
		return "Input"
	case Zero:
		return "Zero"
	default:
		return fmt.Sprintf("Op(%d)", int(op))
	}
}

// Instruction is a single compiled bytecode instruction.
type Instruction struct {
	Op      Op
	Operand int32
}

// Program is a compiled, zero-indexed sequence of instructions with
// resolved branch offsets. It satisfies machine.Executable.
type Program struct {
	code []Instruction
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int {
	return len(p.code)
}

// Instructions exposes the compiled instruction vector read-only, for
// disassembly and tests.
func (p *Program) Instructions() []Instruction {
	return p.code
}
