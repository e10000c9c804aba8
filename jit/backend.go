// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

// nativeBuilder produces native machine code for a lowered cfg, given
// the addresses of the two I/O shims the generated code must call back
// through. Registered per architecture by the matching backend_*.go
// file's init function.
type nativeBuilder func(g *cfg, putcShimAddr, getcShimAddr uintptr) ([]byte, error)

var nativeBuilders = map[string]nativeBuilder{}

func registerBackend(arch string, b nativeBuilder) {
	nativeBuilders[arch] = b
}
