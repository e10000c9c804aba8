// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !amd64

package jit

// putcShim and getcShim have no assembly definition outside amd64
// (shim_amd64.s is filename-excluded on every other GOARCH). These Go
// bodies exist only so the package still links and so funcPC still has
// a function to take the address of; nativeBuilders has no entry for
// any non-amd64 arch, so Machine.Compile always fails with
// ErrUnavailable before a Program is ever built, and neither shim is
// ever actually called.
func putcShim() {
	panic("jit: putcShim invoked on a GOARCH with no registered native backend")
}

func getcShim() {
	panic("jit: getcShim invoked on a GOARCH with no registered native backend")
}
