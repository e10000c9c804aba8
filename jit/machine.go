// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

import (
	"runtime"

	"github.com/go-interpreter/brainfk/machine"
)

// Machine compiles Brainfuck source straight to loaded, executable
// native code and satisfies machine.Machine. Its zero value is ready
// to use.
type Machine struct{}

// NewMachine returns a ready-to-use jit Machine.
func NewMachine() *Machine {
	return &Machine{}
}

// Backend reports machine.JIT.
func (*Machine) Backend() machine.Backend {
	return machine.JIT
}

// Compile lowers src to a control-flow graph, hands it to this
// process's architecture's native backend, and maps the resulting
// machine code executable. It returns ErrUnavailable on any
// architecture with no registered backend (everything but amd64, for
// now), and an *UnmatchedBracketError or ErrCodegenFailed for a
// malformed program or a code generator failure respectively.
// Lowering runs before the architecture dispatch, so bracket errors
// are reported on every GOARCH.
func (*Machine) Compile(src []byte) (machine.Executable, error) {
	g, err := lower(src)
	if err != nil {
		return nil, err
	}

	build, ok := nativeBuilders[runtime.GOARCH]
	if !ok {
		return nil, ErrUnavailable
	}

	code, err := build(g, putcShimAddr, getcShimAddr)
	if err != nil {
		return nil, err
	}

	loaded, err := loadNativeCode(code)
	if err != nil {
		return nil, err
	}

	return &Program{code: loaded}, nil
}
