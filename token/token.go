// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package token scans Brainfuck source into a stream of operator tokens.
package token

import "fmt"

// Kind identifies the class of a token.
type Kind int

const (
	// Move is a maximal run of '>' or '<'. Run carries the signed
	// pointer delta (positive for '>', negative for '<').
	Move Kind = iota
	// Add is a maximal run of '+' or '-'. Run carries the signed cell
	// delta (positive for '+', negative for '-').
	Add
	// Output is a single '.'.
	Output
	// Input is a single ','.
	Input
	// Open is a single '['.
	Open
	// Close is a single ']'.
	Close
)

func (k Kind) String() string {
	switch k {
	case Move:
		return "Move"
	case Add:
		return "Add"
	case Output:
		return "Output"
	case Input:
		return "Input"
	case Open:
		return "Open"
	case Close:
		return "Close"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Token is a single scanned operator, tagged with its starting byte
// offset in the source for diagnostics.
type Token struct {
	Kind   Kind
	Run    int32 // signed run length, only meaningful for Move and Add
	Offset int   // byte offset of the first byte of this token in the source
}

// Scanner recognizes the eight Brainfuck operators in a source buffer
// and fuses adjacent identical pointer/data operators into a single
// token carrying a signed run length. All other bytes are comments and
// are skipped without error; the scanner never fails.
type Scanner struct {
	src []byte
	pos int
}

// New returns a Scanner positioned at the start of src.
func New(src []byte) *Scanner {
	return &Scanner{src: src}
}

// Next returns the next token and true, or a zero Token and false once
// the source is exhausted.
func (s *Scanner) Next() (Token, bool) {
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		switch c {
		case '>', '<':
			start := s.pos
			run := s.consumeRun(c)
			delta := int32(run)
			if c == '<' {
				delta = -delta
			}
			return Token{Kind: Move, Run: delta, Offset: start}, true
		case '+', '-':
			start := s.pos
			run := s.consumeRun(c)
			delta := int32(run)
			if c == '-' {
				delta = -delta
			}
			return Token{Kind: Add, Run: delta, Offset: start}, true
		case '.':
			s.pos++
			return Token{Kind: Output, Offset: s.pos - 1}, true
		case ',':
			s.pos++
			return Token{Kind: Input, Offset: s.pos - 1}, true
		case '[':
			s.pos++
			return Token{Kind: Open, Offset: s.pos - 1}, true
		case ']':
			s.pos++
			return Token{Kind: Close, Offset: s.pos - 1}, true
		default:
			s.pos++
		}
	}
	return Token{}, false
}

// consumeRun advances past a maximal run of byte c starting at s.pos
// and returns its length. s.src[s.pos] must equal c on entry.
func (s *Scanner) consumeRun(c byte) int {
	start := s.pos
	for s.pos < len(s.src) && s.src[s.pos] == c {
		s.pos++
	}
	return s.pos - start
}

// Offset returns the current scan position, the byte offset of the
// next call to Next (or len(src) at end of input).
func (s *Scanner) Offset() int {
	return s.pos
}
