// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

import (
	"fmt"
	"unsafe"

	"github.com/edsrzf/mmap-go"
	"golang.org/x/sys/unix"
)

// nativeCode is a loaded, executable mapping of one compiled program.
// Its zero value is not usable; obtain one through loadNativeCode.
type nativeCode struct {
	region mmap.MMap
}

// loadNativeCode copies code into a fresh anonymous mapping, then
// flips that mapping from writable to executable. mmap-go has no
// Protect method of its own, so the permission flip goes through
// golang.org/x/sys/unix.Mprotect directly on the mapping's backing
// slice, matching the allocate-writable/copy/reprotect-executable
// sequence every cgo-free Go JIT in the ecosystem uses since a region
// can never be mapped RWX under a W^X-enforcing kernel.
func loadNativeCode(code []byte) (*nativeCode, error) {
	if len(code) == 0 {
		return nil, fmt.Errorf("jit: empty native code unit")
	}

	region, err := mmap.MapRegion(nil, len(code), mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("jit: mmap executable region: %w", err)
	}
	copy(region, code)

	if err := unix.Mprotect(region, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		region.Unmap()
		return nil, fmt.Errorf("jit: mprotect executable region: %w", err)
	}

	return &nativeCode{region: region}, nil
}

// addr returns the address of the first byte of the mapped code, the
// entry point jitcall transfers control to.
func (n *nativeCode) addr() uintptr {
	return uintptr(unsafe.Pointer(&n.region[0]))
}

// Close unmaps the native code region. Calling Run on an Executable
// after Close is undefined; callers are expected to drop the
// Executable at the same time.
func (n *nativeCode) Close() error {
	return n.region.Unmap()
}
