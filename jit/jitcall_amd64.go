// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

import "unsafe"

// jitcall transfers control to the native function at entry, passing
// it the tape's base address, the data pointer's starting offset from
// that base, the tape's end address, and an opaque callback token. It
// returns the data pointer's final offset and an abort code (see
// backend_amd64.go). Implemented in jitcall_amd64.s.
func jitcall(entry uintptr, base unsafe.Pointer, startOffset uintptr, end unsafe.Pointer, token uintptr) (finalOffset uintptr, abortCode uint8)
