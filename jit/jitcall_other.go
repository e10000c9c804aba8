// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !amd64

package jit

import "unsafe"

// jitcall has no assembly definition outside amd64 (jitcall_amd64.s is
// filename-excluded on every other GOARCH). This Go body exists only
// so the package still links; nativeBuilders has no entry for any
// non-amd64 arch, so Machine.Compile always fails with ErrUnavailable
// before any *Program exists to call Run on, and jitcall is never
// actually reached.
func jitcall(entry uintptr, base unsafe.Pointer, startOffset uintptr, end unsafe.Pointer, token uintptr) (finalOffset uintptr, abortCode uint8) {
	panic("jit: jitcall invoked with no native backend registered for this GOARCH")
}
