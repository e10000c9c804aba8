// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bytecode

import "github.com/go-interpreter/brainfk/token"

// stackEntry pairs the index of a pending JumpIfZero in the emitted
// code with the source offset of its '[', kept only for diagnostics on
// an unmatched open.
type stackEntry struct {
	index  int
	offset int
}

// Compile parses src, validates bracket nesting, and emits a fused
// instruction vector with resolved branch offsets. It is a single pass
// over the filtered token stream: a nesting stack pairs '[' with ']'
// and backpatches the forward jump's operand once the matching close
// is found; before falling through to the generic per-token emission,
// each '[' is first tested against the '[-]' and '([-]>)+' peepholes.
func Compile(src []byte) (*Program, error) {
	toks := tokenize(src)

	var code []Instruction
	var stack []stackEntry

	for i := 0; i < len(toks); {
		tok := toks[i]
		if tok.Kind == token.Open {
			if count, trailing, next, ok := matchClearAndAdvance(toks, i); ok {
				code = append(code, Instruction{Op: Zero, Operand: count})
				if trailing != 0 {
					code = append(code, Instruction{Op: MovePointer, Operand: trailing})
				}
				i = next
				continue
			}
			stack = append(stack, stackEntry{index: len(code), offset: tok.Offset})
			code = append(code, Instruction{Op: JumpIfZero, Operand: 0})
			i++
			continue
		}

		switch tok.Kind {
		case token.Move:
			code = append(code, Instruction{Op: MovePointer, Operand: tok.Run})
		case token.Add:
			code = append(code, Instruction{Op: AddCell, Operand: tok.Run})
		case token.Output:
			code = append(code, Instruction{Op: Output})
		case token.Input:
			code = append(code, Instruction{Op: Input})
		case token.Close:
			if len(stack) == 0 {
				return nil, &UnmatchedBracketError{Side: Close, Offset: tok.Offset}
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			code[top.index].Operand = int32(len(code) - top.index)
			code = append(code, Instruction{Op: JumpIfNonZero, Operand: int32(top.index - len(code))})
		}
		i++
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, &UnmatchedBracketError{Side: Open, Offset: top.offset}
	}

	return &Program{code: code}, nil
}

func tokenize(src []byte) []token.Token {
	s := token.New(src)
	var toks []token.Token
	for {
		tok, ok := s.Next()
		if !ok {
			break
		}
		toks = append(toks, tok)
	}
	return toks
}

// matchClearAndAdvance tests whether toks[i:] begins with one or more
// back-to-back "[-]>" units (each unit being Open, Add(-1), Close,
// followed immediately by a Move token of run >= 1). It reports the
// total unit count, any leftover pointer movement beyond what the
// fused units account for, and the index of the first unconsumed
// token. A lone "[-]" with nothing following collapses to count 0
// (the plain clear-cell peephole); ok is false if toks[i:] isn't even
// a "[-]" shape.
func matchClearAndAdvance(toks []token.Token, i int) (count int32, trailing int32, next int, ok bool) {
	if !isClearCell(toks, i) {
		return 0, 0, 0, false
	}
	if i+3 >= len(toks) || toks[i+3].Kind != token.Move || toks[i+3].Run < 1 {
		// Plain "[-]" with nothing to advance into.
		return 0, 0, i + 3, true
	}

	j := i
	for {
		j += 4 // consumed this unit's Open, Add(-1), Close, Move
		count++
		run := toks[j-1].Run
		if run != 1 {
			trailing = run - 1
			break
		}
		if !isClearCell(toks, j) || j+3 >= len(toks) || toks[j+3].Kind != token.Move || toks[j+3].Run < 1 {
			break
		}
	}
	return count, trailing, j, true
}

// isClearCell reports whether toks[i:i+3] is exactly Open, Add(-1), Close.
func isClearCell(toks []token.Token, i int) bool {
	return i+2 < len(toks) &&
		toks[i].Kind == token.Open &&
		toks[i+1].Kind == token.Add && toks[i+1].Run == -1 &&
		toks[i+2].Kind == token.Close
}
