// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytecode

import "fmt"

// BracketSide identifies which side of a bracket pair is unmatched.
type BracketSide int

const (
	// Open means a '[' was never closed.
	Open BracketSide = iota
	// Close means a ']' appeared with no matching open '['.
	Close
)

func (s BracketSide) String() string {
	if s == Open {
		return "open"
	}
	return "close"
}

// UnmatchedBracketError is returned by Compile when a source program's
// brackets do not nest correctly.
type UnmatchedBracketError struct {
	Side   BracketSide
	Offset int // byte offset of the offending bracket in the source
}

func (e *UnmatchedBracketError) Error() string {
	return fmt.Sprintf("bytecode: unmatched %s bracket at offset %d", e.Side, e.Offset)
}
