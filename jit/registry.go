// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

import (
	"sync"
	"unsafe"
)

// callbacks holds one Run call's I/O functions and the first error
// either of them returned, so native code that has no Go calling
// convention of its own can still report failures: the shims set an
// abort flag and the generated code jumps straight to its epilogue
// (see backend_amd64.go's emitAbortCheck), then vm.go reads err back
// out of the registry entry the token pointed at.
type callbacks struct {
	out func(byte) error
	in  func() (byte, error)
	err error
}

var (
	registryMu  sync.Mutex
	registry    = map[uintptr]*callbacks{}
	nextToken   uintptr
)

// register installs cb under a fresh token and returns it. The token
// is threaded through R13/SI/DI by the generated code and the asm
// shims purely as an opaque uintptr key; it carries no address
// meaning of its own, unlike putcShimAddr/getcShimAddr.
func register(cb *callbacks) uintptr {
	registryMu.Lock()
	defer registryMu.Unlock()
	nextToken++
	tok := nextToken
	registry[tok] = cb
	return tok
}

func unregister(tok uintptr) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, tok)
}

func lookup(tok uintptr) *callbacks {
	registryMu.Lock()
	defer registryMu.Unlock()
	return registry[tok]
}

// dispatchOut is reached from putcShim (shim_amd64.s) via a plain Go
// call once the shim has moved its two stack-convention arguments into
// place. b is the cell value, tok the registry token. The return value
// is the abort flag the shim surfaces to the generated code in BL: 0
// on success, 1 if the registered callback returned an error.
func dispatchOut(b byte, tok uintptr) byte {
	cb := lookup(tok)
	if cb == nil {
		return 1
	}
	if err := cb.out(b); err != nil {
		cb.err = err
		return 1
	}
	return 0
}

// dispatchIn is reached from getcShim. It returns the byte read (valid
// only when the abort flag is 0) and the abort flag, matching
// dispatchOut's convention.
func dispatchIn(tok uintptr) (byte, byte) {
	cb := lookup(tok)
	if cb == nil {
		return 0, 1
	}
	b, err := cb.in()
	if err != nil {
		cb.err = err
		return 0, 1
	}
	return b, 0
}

// funcPC returns the entry address of a Go-asm-defined, no-argument
// function without going through cgo or reflect. f must refer to a
// function declared with a Go prototype and defined in a .s file
// (putcShim, getcShim below); relying on a func value's first word
// being its code pointer is the same trick used throughout the
// no-cgo-JIT corner of the Go ecosystem wherever a raw address is
// needed for inline machine code to call back into.
func funcPC(f func()) uintptr {
	return **(**uintptr)(unsafe.Pointer(&f))
}

var (
	putcShimAddr = funcPC(putcShim)
	getcShimAddr = funcPC(getcShim)
)
