// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

// putcShim and getcShim are defined in shim_amd64.s. Their Go
// signatures exist only so funcPC has something to take the address
// of; they are never called directly as Go functions; on amd64, only
// from within generated code via emitCallShim.
func putcShim()
func getcShim()
