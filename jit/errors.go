// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

import (
	"errors"
	"fmt"
)

// BracketSide identifies which side of a bracket pair is unmatched.
type BracketSide int

const (
	Open BracketSide = iota
	Close
)

func (s BracketSide) String() string {
	if s == Open {
		return "open"
	}
	return "close"
}

// UnmatchedBracketError is returned by Compile when a source program's
// brackets do not nest correctly. The lowering pass maintains the same
// push-on-open/pop-on-close stack discipline as the bytecode compiler,
// so it detects the identical mismatches at the identical offsets.
type UnmatchedBracketError struct {
	Side   BracketSide
	Offset int
}

func (e *UnmatchedBracketError) Error() string {
	return fmt.Sprintf("jit: unmatched %s bracket at offset %d", e.Side, e.Offset)
}

// ErrCodegenFailed is returned when the external code generator
// (golang-asm) rejects the emitted instruction stream.
var ErrCodegenFailed = errors.New("jit: code generation failed")

// ErrUnavailable is returned by Compile when this process's
// architecture has no registered native backend, so no executable
// native function can be produced.
var ErrUnavailable = errors.New("jit: native backend unavailable on this architecture")
