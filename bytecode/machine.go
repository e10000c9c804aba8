// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytecode

import "github.com/go-interpreter/brainfk/machine"

// Machine compiles Brainfuck source into bytecode Programs and
// satisfies machine.Machine.
type Machine struct{}

// NewMachine returns a ready-to-use bytecode Machine. Its zero value is
// equally usable; NewMachine exists for symmetry with jit.NewMachine.
func NewMachine() *Machine {
	return &Machine{}
}

// Backend reports machine.Bytecode.
func (*Machine) Backend() machine.Backend {
	return machine.Bytecode
}

// Compile parses and validates src, returning a *Program or a
// *UnmatchedBracketError.
func (*Machine) Compile(src []byte) (machine.Executable, error) {
	return Compile(src)
}
