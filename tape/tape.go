// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tape implements the fixed-size byte memory that Brainfuck
// programs execute against.
package tape

import (
	"errors"
	"unsafe"
)

// Size is the fixed number of cells on a Tape, per the Brainfuck
// convention this engine targets.
const Size = 30000

// ErrOutOfRange is the error value used while trapping an execution
// that has moved its data pointer outside the tape. A well-formed
// Brainfuck program never triggers this; it exists so that a runaway
// program fails loudly instead of corrupting memory outside the tape.
var ErrOutOfRange = errors.New("tape: data pointer out of range")

// Tape is the 30,000-byte working memory of a Brainfuck program, plus
// its data pointer. The zero value is not ready for use; call New.
type Tape struct {
	cells [Size]byte
	ptr   int
}

// New returns a fresh, zero-initialized Tape with its pointer at cell 0.
func New() *Tape {
	return &Tape{}
}

// Reset zeroes every cell and returns the pointer to 0, allowing a Tape
// to be reused across executions without reallocating it.
func (t *Tape) Reset() {
	t.cells = [Size]byte{}
	t.ptr = 0
}

// Pointer returns the current data pointer.
func (t *Tape) Pointer() int {
	return t.ptr
}

// Move advances the data pointer by delta. It panics with ErrOutOfRange
// if the result would leave the tape; callers that want a structured
// error should recover at the call boundary (bytecode.Program.Run does
// this).
func (t *Tape) Move(delta int32) {
	p := t.ptr + int(delta)
	if p < 0 || p >= Size {
		panic(ErrOutOfRange)
	}
	t.ptr = p
}

// Get returns the byte under the data pointer.
func (t *Tape) Get() byte {
	t.checkRange(t.ptr)
	return t.cells[t.ptr]
}

// Set writes v to the byte under the data pointer.
func (t *Tape) Set(v byte) {
	t.checkRange(t.ptr)
	t.cells[t.ptr] = v
}

// Add adds delta to the byte under the data pointer, modulo 256.
func (t *Tape) Add(delta int32) {
	t.checkRange(t.ptr)
	t.cells[t.ptr] = byte(int32(t.cells[t.ptr]) + delta)
}

// ZeroOne clears the byte under the data pointer without moving the
// pointer. This is the Zero(0) instruction form.
func (t *Tape) ZeroOne() {
	t.checkRange(t.ptr)
	t.cells[t.ptr] = 0
}

// ZeroRun clears the n cells starting at the data pointer and advances
// the pointer by n, leaving it one cell past the last cleared cell.
// This is the Zero(n>0) instruction form.
func (t *Tape) ZeroRun(n int32) {
	start := t.ptr
	end := start + int(n)
	if start < 0 || end > Size {
		panic(ErrOutOfRange)
	}
	for i := start; i < end; i++ {
		t.cells[i] = 0
	}
	t.ptr = end
}

// Bytes exposes the underlying cells read-only, for tests that assert
// on final tape state.
func (t *Tape) Bytes() [Size]byte {
	return t.cells
}

// RawBase returns the address of cell 0, for the jit package to hand
// to native code as the base of its bounds-checked pointer arithmetic.
// Callers outside this module's own packages have no legitimate use
// for it.
func (t *Tape) RawBase() unsafe.Pointer {
	return unsafe.Pointer(&t.cells[0])
}

// SetPointer forces the data pointer to p, used by the jit package to
// write back the data pointer native code left off at. p may equal
// Size, the same one-past-the-end position ZeroRun can leave the
// pointer in; any later access still traps via checkRange.
func (t *Tape) SetPointer(p int) {
	if p < 0 || p > Size {
		panic(ErrOutOfRange)
	}
	t.ptr = p
}

func (t *Tape) checkRange(p int) {
	if p < 0 || p >= Size {
		panic(ErrOutOfRange)
	}
}
