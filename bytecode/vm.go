// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytecode

import (
	"github.com/go-interpreter/brainfk/machine"
	"github.com/go-interpreter/brainfk/tape"
)

// Backend reports that this Program was produced by the bytecode
// compiler, satisfying machine.Executable.
func (p *Program) Backend() machine.Backend {
	return machine.Bytecode
}

// Run dispatches the compiled instructions against t, calling out for
// every Output instruction and in for every Input instruction, in
// program order. The program counter advances past the current
// instruction before a taken jump adds its offset, matching the
// compiler's backpatch convention (see Compile).
func (p *Program) Run(t *tape.Tape, out machine.ByteWriter, in machine.ByteReader) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if tapeErr, ok := r.(error); ok && tapeErr == tape.ErrOutOfRange {
				err = tapeErr
				return
			}
			panic(r)
		}
	}()

	code := p.code
	pc := 0
	for pc < len(code) {
		inst := code[pc]
		pc++
		switch inst.Op {
		case MovePointer:
			t.Move(inst.Operand)
		case AddCell:
			t.Add(inst.Operand)
		case JumpIfZero:
			if t.Get() == 0 {
				pc += int(inst.Operand)
			}
		case JumpIfNonZero:
			if t.Get() != 0 {
				pc += int(inst.Operand)
			}
		case Output:
			if err = out(t.Get()); err != nil {
				return err
			}
		case Input:
			b, inErr := in()
			if inErr != nil {
				return inErr
			}
			t.Set(b)
		case Zero:
			if inst.Operand == 0 {
				t.ZeroOne()
			} else {
				t.ZeroRun(inst.Operand)
			}
		}
	}
	return nil
}
