// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

import (
	"io"
	"log"
	"os"
)

// PrintDebugInfo gates this package's codegen tracing. It is read
// once, by this package's init, to decide where logger writes; init
// runs before any importing package's code, so only the value it is
// declared with here takes effect.
var PrintDebugInfo = false

var logger *log.Logger

func init() {
	w := io.Discard

	if PrintDebugInfo {
		w = os.Stderr
	}

	logger = log.New(w, "", log.Lshortfile)
}
