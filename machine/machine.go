// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package machine defines the polymorphic compile/execute surface
// shared by the bytecode and JIT backends, and the opaque Executable
// handle type each backend produces.
package machine

import (
	"errors"

	"github.com/go-interpreter/brainfk/tape"
)

// ErrBackendMismatch is returned by Execute when an Executable produced
// by one backend is handed to a different backend's Machine.
var ErrBackendMismatch = errors.New("machine: executable produced by a different backend")

// Backend tags which compiler produced a given Executable.
type Backend uint8

const (
	// Bytecode tags executables produced by the bytecode compiler.
	Bytecode Backend = iota
	// JIT tags executables produced by the IR lowering / native backend.
	JIT
)

func (b Backend) String() string {
	switch b {
	case Bytecode:
		return "bytecode"
	case JIT:
		return "jit"
	default:
		return "unknown"
	}
}

// ByteWriter receives one output byte at a time. It may fail, e.g. if
// the underlying writer is closed.
type ByteWriter func(byte) error

// ByteReader produces one input byte at a time. It may fail or block.
type ByteReader func() (byte, error)

// Executable is an opaque, backend-specific compiled form of a source
// program. It is read-only during execution and may be run any number
// of times against different tapes.
type Executable interface {
	// Backend reports which Machine produced this Executable.
	Backend() Backend
	// Run executes the program against t, invoking out for every '.'
	// and in for every ',' encountered, in program order.
	Run(t *tape.Tape, out ByteWriter, in ByteReader) error
}

// Machine compiles Brainfuck source into an Executable for its backend.
type Machine interface {
	// Backend reports which backend this Machine implements.
	Backend() Backend
	// Compile parses and validates src, returning an Executable or a
	// compilation error (typically *UnmatchedBracketError).
	Compile(src []byte) (Executable, error)
}

// Execute runs e on m, failing with ErrBackendMismatch if e was not
// produced by m. This is the one entry point that should be used when
// a Machine and an Executable may have come from different call sites;
// callers holding onto a concrete *bytecode.Program or *jit.Program
// may call its Run method directly without this check.
func Execute(m Machine, e Executable, t *tape.Tape, out ByteWriter, in ByteReader) error {
	if m.Backend() != e.Backend() {
		return ErrBackendMismatch
	}
	return e.Run(t, out, in)
}
