// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-interpreter/brainfk/machine"
	"github.com/go-interpreter/brainfk/tape"
)

const (
	abortNone       = 0
	abortCallback   = 1
	abortOutOfRange = 2
)

// Program is a compiled, loaded native executable produced by Compile,
// satisfying machine.Executable.
type Program struct {
	code *nativeCode
}

// Backend reports machine.JIT.
func (p *Program) Backend() machine.Backend {
	return machine.JIT
}

// Run invokes the native function against t, calling out for every '.'
// and in for every ',' encountered, in program order. The data pointer
// is synchronized back into t before returning, even when execution
// aborts partway through, so a caller inspecting t afterwards (or
// re-running the same Executable against it) sees where execution
// stopped; a pointer that left the tape is clamped into [0, tape.Size].
func (p *Program) Run(t *tape.Tape, out machine.ByteWriter, in machine.ByteReader) error {
	cb := &callbacks{out: out, in: in}
	token := register(cb)
	defer unregister(token)

	base := t.RawBase()
	end := unsafe.Pointer(uintptr(base) + tape.Size)

	finalOffset, abortCode := jitcall(p.code.addr(), base, uintptr(t.Pointer()), end, token)
	runtime.KeepAlive(t)

	// On abortOutOfRange, R12 had already moved outside [base, end)
	// when the bounds check tripped, so finalOffset may fall outside
	// [0, tape.Size] (even negative, via wraparound of the uintptr
	// subtraction). SetPointer panics on an out-of-range value, and no
	// panic may escape this public API, so clamp before writing it
	// back instead of passing the raw offset through. The same guard
	// applies to a program that terminates with its pointer out of
	// range without ever dereferencing it there: the generated code
	// checks bounds only at dereference, so such a run comes back
	// with abortNone and an unusable offset.
	ptr := int(finalOffset)
	if abortCode == abortOutOfRange || ptr < 0 || ptr > tape.Size {
		t.SetPointer(clampPointer(finalOffset))
		return tape.ErrOutOfRange
	}
	t.SetPointer(ptr)

	switch abortCode {
	case abortNone:
		return nil
	case abortCallback:
		return cb.err
	default:
		return fmt.Errorf("jit: unexpected abort code %d", abortCode)
	}
}

// clampPointer bounds a raw native-code offset into [0, tape.Size] so
// it is always safe to hand to Tape.SetPointer, even when the offset
// came from a bounds check that tripped on an out-of-range pointer.
func clampPointer(offset uintptr) int {
	p := int(offset)
	if p < 0 {
		return 0
	}
	if p > tape.Size {
		return tape.Size
	}
	return p
}
