// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jit lowers Brainfuck source directly to a control-flow graph
// of basic blocks and hands that graph to an external code generator
// (golang-asm) to produce native amd64 machine code, which is then
// mapped executable and invoked through a small calling-convention
// trampoline.
package jit

import "fmt"

// opKind identifies a single lowered operation inside a basic block.
type opKind uint8

const (
	opAdd opKind = iota
	opMove
	opOutput
	opInput
)

type irOp struct {
	kind  opKind
	delta int32 // run length for opAdd/opMove
}

// loopFrame is the (header, body, tail, next) quadruple pushed for
// every '[' encountered during lowering, per the two-test loop pattern:
// header tests on entry (skip to next if zero), tail tests after each
// iteration (repeat via header if non-zero, else fall through to next).
type loopFrame struct {
	header *block
	body   *block
	tail   *block
	next   *block
	offset int // source offset of the '[', for diagnostics
}

// lower performs a one-pass lowering of src into a sequence of basic
// blocks, using a nesting stack of loopFrames to pair loop headers with
// loop tails. Adjacent identical '+'/'-'/'>'/'<' bytes are folded into
// a single irOp at lowering time as a pragmatic run-length accumulation
// (not a peephole rewrite of the bytecode backend's kind: there is no
// clear-loop or clear-and-advance recognition here, only straight-line
// translation of each operator).
func lower(src []byte) (*cfg, error) {
	g := newCFG()
	cur := g.entry
	var stack []loopFrame

	for i := 0; i < len(src); {
		c := src[i]
		switch c {
		case '+', '-':
			start := i
			for i < len(src) && src[i] == c {
				i++
			}
			n := int32(i - start)
			if c == '-' {
				n = -n
			}
			cur.ops = append(cur.ops, irOp{kind: opAdd, delta: n})
		case '>', '<':
			start := i
			for i < len(src) && src[i] == c {
				i++
			}
			n := int32(i - start)
			if c == '<' {
				n = -n
			}
			cur.ops = append(cur.ops, irOp{kind: opMove, delta: n})
		case '.':
			cur.ops = append(cur.ops, irOp{kind: opOutput})
			i++
		case ',':
			cur.ops = append(cur.ops, irOp{kind: opInput})
			i++
		case '[':
			header := g.newBlock()
			body := g.newBlock()
			tail := g.newBlock()
			next := g.newBlock()
			cur.jump = header
			stack = append(stack, loopFrame{header: header, body: body, tail: tail, next: next, offset: i})
			cur = body
			i++
		case ']':
			if len(stack) == 0 {
				return nil, &UnmatchedBracketError{Side: Close, Offset: i}
			}
			fr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			cur.jump = fr.tail
			fr.header.test = &blockTest{ifZero: fr.next, ifNonZero: fr.body}
			fr.tail.test = &blockTest{ifZero: fr.next, ifNonZero: fr.header}
			cur = fr.next
			i++
		default:
			i++
		}
	}

	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, &UnmatchedBracketError{Side: Open, Offset: top.offset}
	}
	g.exit = cur
	return g, nil
}

// blockTest is the two-way branch a header or tail block ends with:
// load the cell under the pointer, compare to zero, and go to ifZero
// or ifNonZero accordingly.
type blockTest struct {
	ifZero, ifNonZero *block
}

// block is one basic block of the lowered CFG: a straight-line run of
// ops, ending in either an unconditional jump, a test, or (for the
// final block) nothing.
type block struct {
	id   int
	ops  []irOp
	jump *block     // unconditional successor, nil if this block ends in a test or is the exit
	test *blockTest // conditional successor, nil for straight-line blocks
}

// cfg is the whole lowered program: a linked set of blocks reachable
// from entry.
type cfg struct {
	blocks []*block
	entry  *block
	exit   *block
}

func newCFG() *cfg {
	g := &cfg{}
	g.entry = g.newBlock()
	return g
}

func (g *cfg) newBlock() *block {
	b := &block{id: len(g.blocks)}
	g.blocks = append(g.blocks, b)
	return b
}

func (b *block) String() string {
	return fmt.Sprintf("block%d", b.id)
}
