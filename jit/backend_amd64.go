// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

import (
	"fmt"

	asm "github.com/twitchyliquid64/golang-asm"
	"github.com/twitchyliquid64/golang-asm/obj"
	"github.com/twitchyliquid64/golang-asm/obj/x86"
)

func init() {
	registerBackend("amd64", buildAMD64)
}

// Register conventions for the generated function, a private calling
// convention shared only between this backend, jitcall_amd64.s and
// shim_amd64.s, and dispatchOut/dispatchIn in registry.go.
//
// Incoming (set up by jitcall_amd64.s before CALL):
//
//	DI: tape base address
//	SI: starting data-pointer offset from base
//	DX: tape end address (base + len(tape))
//	CX: callback token
//
// Outgoing (read back by jitcall_amd64.s after RET):
//
//	AX: final data-pointer offset from base
//	DX: abort code (0 ok, 1 callback error, 2 out-of-range access)
//
// Held live for the whole run (the I/O shims spill and reload R10-R13
// around their calls into compiled Go code, which would otherwise
// clobber them):
//
//	R10: tape base address (constant)
//	R11: tape end address (constant)
//	R12: current cell address (base + data pointer), mutated by every move
//	R13: callback token (constant)
//	BX:  abort code accumulator
//
// putcShim/getcShim are reached through their addresses, resolved once
// via funcPC at package init (see registry.go) and baked into the
// generated code as 64-bit immediates loaded into R15, since
// golang-asm has no linker pass to resolve external symbols for code
// built this way.
func buildAMD64(g *cfg, putcShimAddr, getcShimAddr uintptr) ([]byte, error) {
	builder, err := asm.NewBuilder("amd64", 64+24*len(g.blocks))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodegenFailed, err)
	}

	b := &amd64Builder{
		b:            builder,
		labels:       make(map[*block]*obj.Prog),
		putcShimAddr: putcShimAddr,
		getcShimAddr: getcShimAddr,
	}
	b.emitPreamble()

	for _, blk := range g.blocks {
		logger.Printf("lowering %s: %d ops, test=%v, jump=%v", blk, len(blk.ops), blk.test != nil, blk.jump != nil)
		b.markLabel(blk)
		for _, op := range blk.ops {
			switch op.kind {
			case opAdd:
				b.emitAddCell(op.delta)
			case opMove:
				b.emitMovePointer(op.delta)
			case opOutput:
				b.emitOutput()
			case opInput:
				b.emitInput()
			}
		}
		switch {
		case blk.test != nil:
			b.emitTest(blk.test)
		case blk.jump != nil:
			b.emitJump(blk.jump)
		default:
			// The exit block. Its id is not necessarily the highest
			// (a loop's inner blocks are allocated after the next
			// block they enclose), so it cannot rely on falling
			// through to the postamble.
			b.emitJumpToEpilogue()
		}
	}
	b.emitPostamble()

	if err := b.patchLabels(); err != nil {
		return nil, err
	}

	for _, p := range b.emitted {
		logger.Printf("emitted: %v", p)
	}

	code := builder.Assemble()
	if code == nil {
		return nil, ErrCodegenFailed
	}
	return code, nil
}

type amd64Builder struct {
	b        *asm.Builder
	labels   map[*block]*obj.Prog // first Prog of each block, filled by markLabel
	epilogue *obj.Prog            // first Prog of the function epilogue, filled by emitPostamble

	putcShimAddr, getcShimAddr uintptr

	// pending holds branch Progs whose Pcond targets a block that may
	// not have been visited yet, or the epilogue (nil target); both
	// are resolved by patchLabels once every block has been emitted.
	// Branches whose target emitBoundsCheck creates itself right after
	// them (the bounds-check trap, the continuation after it) set Pcond
	// directly and never go through this slice.
	pending []pendingBranch

	// emitted records every Prog handed out by prog(), in emission
	// order, purely so buildAMD64 can dump the final instruction
	// stream through logger once patchLabels has resolved every
	// branch target.
	emitted []*obj.Prog
}

type pendingBranch struct {
	prog   *obj.Prog
	target *block
}

func (b *amd64Builder) prog() *obj.Prog {
	p := b.b.NewProg()
	b.emitted = append(b.emitted, p)
	return p
}

func (b *amd64Builder) markLabel(blk *block) {
	nop := b.prog()
	nop.As = obj.ANOP
	b.b.AddInstruction(nop)
	b.labels[blk] = nop
}

func (b *amd64Builder) emitPreamble() {
	for _, reg := range []int16{x86.REG_R12, x86.REG_R13} {
		p := b.prog()
		p.As = x86.APUSHQ
		p.To.Type = obj.TYPE_REG
		p.To.Reg = reg
		b.b.AddInstruction(p)
	}

	b.emitMovRegReg(x86.REG_DI, x86.REG_R10) // base
	b.emitMovRegReg(x86.REG_DX, x86.REG_R11) // end
	b.emitMovRegReg(x86.REG_CX, x86.REG_R13) // token

	zero := b.prog()
	zero.As = x86.AMOVQ
	zero.From.Type = obj.TYPE_CONST
	zero.From.Offset = 0
	zero.To.Type = obj.TYPE_REG
	zero.To.Reg = x86.REG_BX
	b.b.AddInstruction(zero)

	lea := b.prog()
	lea.As = x86.ALEAQ
	lea.From.Type = obj.TYPE_MEM
	lea.From.Reg = x86.REG_DI
	lea.From.Index = x86.REG_SI
	lea.From.Scale = 1
	lea.To.Type = obj.TYPE_REG
	lea.To.Reg = x86.REG_R12
	b.b.AddInstruction(lea)
}

func (b *amd64Builder) emitMovRegReg(from, to int16) {
	p := b.prog()
	p.As = x86.AMOVQ
	p.From.Type = obj.TYPE_REG
	p.From.Reg = from
	p.To.Type = obj.TYPE_REG
	p.To.Reg = to
	b.b.AddInstruction(p)
}

func (b *amd64Builder) emitPostamble() {
	anchor := b.prog()
	anchor.As = obj.ANOP
	b.b.AddInstruction(anchor)
	b.epilogue = anchor

	sub := b.prog()
	sub.As = x86.ASUBQ
	sub.From.Type = obj.TYPE_REG
	sub.From.Reg = x86.REG_R10
	sub.To.Type = obj.TYPE_REG
	sub.To.Reg = x86.REG_R12
	b.b.AddInstruction(sub)

	b.emitMovRegReg(x86.REG_R12, x86.REG_AX)
	b.emitMovRegReg(x86.REG_BX, x86.REG_DX)

	for _, reg := range []int16{x86.REG_R13, x86.REG_R12} {
		p := b.prog()
		p.As = x86.APOPQ
		p.To.Type = obj.TYPE_REG
		p.To.Reg = reg
		b.b.AddInstruction(p)
	}
	ret := b.prog()
	ret.As = obj.ARET
	b.b.AddInstruction(ret)
}

// emitBoundsCheck guards the next instruction's access to (R12),
// setting abort code 2 and jumping to the epilogue if the data pointer
// has moved outside [base, end). Checked lazily at every point the
// generated code is about to read or write through R12, rather than
// after every MovePointer, since an out-of-range pointer is only
// observable at the moment it is dereferenced.
func (b *amd64Builder) emitBoundsCheck() {
	b.emitCmpRegReg(x86.REG_R12, x86.REG_R10)
	jlow := b.emitBranch(x86.AJLT)

	b.emitCmpRegReg(x86.REG_R12, x86.REG_R11)
	jhigh := b.emitBranch(x86.AJGE)

	skip := b.emitBranch(obj.AJMP)

	trap := b.prog()
	trap.As = obj.ANOP
	b.b.AddInstruction(trap)
	jlow.Pcond = trap
	jhigh.Pcond = trap

	movAbort := b.prog()
	movAbort.As = x86.AMOVQ
	movAbort.From.Type = obj.TYPE_CONST
	movAbort.From.Offset = 2
	movAbort.To.Type = obj.TYPE_REG
	movAbort.To.Reg = x86.REG_BX
	b.b.AddInstruction(movAbort)

	toEpilogue := b.emitBranch(obj.AJMP)
	b.pending = append(b.pending, pendingBranch{prog: toEpilogue, target: nil})

	cont := b.prog()
	cont.As = obj.ANOP
	b.b.AddInstruction(cont)
	skip.Pcond = cont
}

func (b *amd64Builder) emitCmpRegReg(left, right int16) {
	p := b.prog()
	p.As = x86.ACMPQ
	p.From.Type = obj.TYPE_REG
	p.From.Reg = left
	p.To.Type = obj.TYPE_REG
	p.To.Reg = right
	b.b.AddInstruction(p)
}

func (b *amd64Builder) emitBranch(as obj.As) *obj.Prog {
	p := b.prog()
	p.As = as
	p.To.Type = obj.TYPE_BRANCH
	b.b.AddInstruction(p)
	return p
}

// emitAddCell adds delta to the byte under the data pointer. Only the
// low byte of delta is observable through an 8-bit cell, so the
// operand is reduced mod 256 here rather than asking the assembler to
// encode a wider immediate into ADDB.
func (b *amd64Builder) emitAddCell(delta int32) {
	b.emitBoundsCheck()
	p := b.prog()
	p.As = x86.AADDB
	p.From.Type = obj.TYPE_CONST
	p.From.Offset = int64(byte(delta))
	p.To.Type = obj.TYPE_MEM
	p.To.Reg = x86.REG_R12
	b.b.AddInstruction(p)
}

func (b *amd64Builder) emitMovePointer(delta int32) {
	p := b.prog()
	p.As = x86.AADDQ
	p.From.Type = obj.TYPE_CONST
	p.From.Offset = int64(delta)
	p.To.Type = obj.TYPE_REG
	p.To.Reg = x86.REG_R12
	b.b.AddInstruction(p)
}

// emitCallShim loads addr into R15 (the one scratch register not used
// to hold live state across calls) and issues an indirect CALL R15.
func (b *amd64Builder) emitCallShim(addr uintptr) {
	load := b.prog()
	load.As = x86.AMOVQ
	load.From.Type = obj.TYPE_CONST
	load.From.Offset = int64(addr)
	load.To.Type = obj.TYPE_REG
	load.To.Reg = x86.REG_R15
	b.b.AddInstruction(load)

	call := b.prog()
	call.As = obj.ACALL
	call.To.Type = obj.TYPE_REG
	call.To.Reg = x86.REG_R15
	b.b.AddInstruction(call)
}

// emitOutput calls putcShim with the current cell value in DI and the
// callback token in SI; see shim_amd64.s for the shim and registry.go
// for dispatchOut.
func (b *amd64Builder) emitOutput() {
	b.emitBoundsCheck()

	load := b.prog()
	load.As = x86.AMOVBLZX
	load.From.Type = obj.TYPE_MEM
	load.From.Reg = x86.REG_R12
	load.To.Type = obj.TYPE_REG
	load.To.Reg = x86.REG_DI
	b.b.AddInstruction(load)

	b.emitMovRegReg(x86.REG_R13, x86.REG_SI)
	b.emitCallShim(b.putcShimAddr)
	b.emitAbortCheck()
}

// emitInput calls getcShim with the callback token in DI; the shim
// returns the byte in AX and the abort flag in BX.
func (b *amd64Builder) emitInput() {
	b.emitBoundsCheck()

	b.emitMovRegReg(x86.REG_R13, x86.REG_DI)
	b.emitCallShim(b.getcShimAddr)
	b.emitAbortCheck()

	store := b.prog()
	store.As = x86.AMOVB
	store.From.Type = obj.TYPE_REG
	store.From.Reg = x86.REG_AX
	store.To.Type = obj.TYPE_MEM
	store.To.Reg = x86.REG_R12
	b.b.AddInstruction(store)
}

// emitAbortCheck tests BX (set to a nonzero callback-abort code by
// whichever shim was just called) and jumps straight to the function
// epilogue if it is nonzero, propagating a callback error out of the
// compiled function instead of continuing to run user code past a
// failed I/O call. The underlying error is recovered from the
// registry by Run, keyed by the same token passed in R13.
func (b *amd64Builder) emitAbortCheck() {
	b.emitCmpRegConst(x86.REG_BX, 0)
	jmp := b.emitBranch(x86.AJNE)
	b.pending = append(b.pending, pendingBranch{prog: jmp, target: nil})
}

func (b *amd64Builder) emitCmpRegConst(reg int16, c int64) {
	p := b.prog()
	p.As = x86.ACMPQ
	p.From.Type = obj.TYPE_REG
	p.From.Reg = reg
	p.To.Type = obj.TYPE_CONST
	p.To.Offset = c
	b.b.AddInstruction(p)
}

func (b *amd64Builder) emitTest(t *blockTest) {
	b.emitBoundsCheck()

	cmp := b.prog()
	cmp.As = x86.ACMPB
	cmp.From.Type = obj.TYPE_MEM
	cmp.From.Reg = x86.REG_R12
	cmp.To.Type = obj.TYPE_CONST
	cmp.To.Offset = 0
	b.b.AddInstruction(cmp)

	jz := b.emitBranch(x86.AJEQ)
	b.pending = append(b.pending, pendingBranch{prog: jz, target: t.ifZero})

	jmp := b.emitBranch(obj.AJMP)
	b.pending = append(b.pending, pendingBranch{prog: jmp, target: t.ifNonZero})
}

func (b *amd64Builder) emitJump(target *block) {
	jmp := b.emitBranch(obj.AJMP)
	b.pending = append(b.pending, pendingBranch{prog: jmp, target: target})
}

func (b *amd64Builder) emitJumpToEpilogue() {
	jmp := b.emitBranch(obj.AJMP)
	b.pending = append(b.pending, pendingBranch{prog: jmp, target: nil})
}

// patchLabels resolves every pending branch's Pcond now that every
// block (and the epilogue) has a known Prog. A nil target resolves to
// the function epilogue.
func (b *amd64Builder) patchLabels() error {
	for _, pb := range b.pending {
		if pb.target == nil {
			pb.prog.Pcond = b.epilogue
			continue
		}
		target, ok := b.labels[pb.target]
		if !ok {
			return fmt.Errorf("%w: branch to unresolved block", ErrCodegenFailed)
		}
		pb.prog.Pcond = target
	}
	return nil
}
