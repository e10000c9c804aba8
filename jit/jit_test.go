// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jit

import (
	"bytes"
	"errors"
	"runtime"
	"testing"

	"github.com/go-interpreter/brainfk/machine"
	"github.com/go-interpreter/brainfk/tape"
)

// requireAMD64 skips native-codegen tests on architectures with no
// registered backend, and in short mode.
func requireAMD64(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping JIT end-to-end test in short mode")
	}
	if runtime.GOARCH != "amd64" {
		t.Skipf("no registered native backend for GOARCH=%s", runtime.GOARCH)
	}
}

func runJIT(t *testing.T, src string, in []byte) ([]byte, *tape.Tape, error) {
	t.Helper()
	m := NewMachine()
	exe, err := m.Compile([]byte(src))
	if err != nil {
		return nil, nil, err
	}
	tp := tape.New()
	var out bytes.Buffer
	pos := 0
	runErr := exe.Run(tp,
		func(b byte) error { out.WriteByte(b); return nil },
		func() (byte, error) {
			if pos >= len(in) {
				return 0, errors.New("jit_test: input exhausted")
			}
			b := in[pos]
			pos++
			return b, nil
		},
	)
	return out.Bytes(), tp, runErr
}

func TestHelloWorld(t *testing.T) {
	requireAMD64(t)
	src := "++++++++++[>+>+++>+++++++>++++++++++<<<<-]>>>++.>+++++.<<<."
	out, _, err := runJIT(t, src, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{'H', 'i', '\n'}
	if !bytes.Equal(out, want) {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestEchoUntilDot(t *testing.T) {
	requireAMD64(t)
	src := "+[,.----------------------------------------------]"
	out, _, err := runJIT(t, src, []byte("hello."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out, []byte("hello.")) {
		t.Fatalf("output = %q, want %q", out, "hello.")
	}
}

func TestIndependentCells(t *testing.T) {
	requireAMD64(t)
	_, tp, err := runJIT(t, "+>++>+++", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{1, 2, 3, 0}
	for i, w := range want {
		tp.SetPointer(i)
		if got := tp.Get(); got != w {
			t.Errorf("cell %d = %d, want %d", i, got, w)
		}
	}
}

func TestLoopSkippedWhenCellStartsZero(t *testing.T) {
	requireAMD64(t)
	_, tp, err := runJIT(t, "[++>]+", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tp.SetPointer(0)
	if got := tp.Get(); got != 1 {
		t.Fatalf("cell 0 = %d, want 1", got)
	}
}

func TestUnmatchedOpenAtOffsetZero(t *testing.T) {
	m := NewMachine()
	_, err := m.Compile([]byte("["))
	var bracketErr *UnmatchedBracketError
	if !errors.As(err, &bracketErr) {
		t.Fatalf("err = %v, want *UnmatchedBracketError", err)
	}
	if bracketErr.Side != Open || bracketErr.Offset != 0 {
		t.Fatalf("err = %+v, want {Open, 0}", bracketErr)
	}
}

func TestUnmatchedCloseAtOffsetZero(t *testing.T) {
	m := NewMachine()
	_, err := m.Compile([]byte("]"))
	var bracketErr *UnmatchedBracketError
	if !errors.As(err, &bracketErr) {
		t.Fatalf("err = %v, want *UnmatchedBracketError", err)
	}
	if bracketErr.Side != Close || bracketErr.Offset != 0 {
		t.Fatalf("err = %+v, want {Close, 0}", bracketErr)
	}
}

func TestBackendTag(t *testing.T) {
	requireAMD64(t)
	m := NewMachine()
	exe, err := m.Compile([]byte("+"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exe.Backend() != machine.JIT {
		t.Fatalf("Backend() = %v, want machine.JIT", exe.Backend())
	}
}

func TestNestedLoops(t *testing.T) {
	requireAMD64(t)
	// 2 * 2 via an inner transfer loop: cell 2 ends at 4, cells 0 and 1
	// drain to zero.
	_, tp, err := runJIT(t, "++[>++[>+<-]<-]", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0, 0, 4}
	for i, w := range want {
		tp.SetPointer(i)
		if got := tp.Get(); got != w {
			t.Errorf("cell %d = %d, want %d", i, got, w)
		}
	}
}

func TestAddWraparound(t *testing.T) {
	requireAMD64(t)
	for _, n := range []int{0, 1, 255, 256, 257, 300} {
		src := make([]byte, n)
		for i := range src {
			src[i] = '+'
		}
		_, tp, err := runJIT(t, string(src), nil)
		if err != nil {
			t.Fatalf("n=%d: unexpected error: %v", n, err)
		}
		tp.SetPointer(0)
		want := byte(n % 256)
		if got := tp.Get(); got != want {
			t.Errorf("n=%d: cell 0 = %d, want %d", n, got, want)
		}
	}
}

func TestReexecutionIsDeterministic(t *testing.T) {
	requireAMD64(t)
	m := NewMachine()
	exe, err := m.Compile([]byte("++++++++++[>+>+++>+++++++>++++++++++<<<<-]>>>++.>+++++.<<<."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	runOnce := func() []byte {
		tp := tape.New()
		var out bytes.Buffer
		runErr := exe.Run(tp,
			func(b byte) error { out.WriteByte(b); return nil },
			func() (byte, error) { return 0, errors.New("no input expected") },
		)
		if runErr != nil {
			t.Fatalf("unexpected error: %v", runErr)
		}
		return out.Bytes()
	}

	first := runOnce()
	second := runOnce()
	if !bytes.Equal(first, second) {
		t.Fatalf("re-execution diverged: %q vs %q", first, second)
	}
}

func TestOutputCallbackErrorPropagates(t *testing.T) {
	requireAMD64(t)
	m := NewMachine()
	exe, err := m.Compile([]byte("+."))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantErr := errors.New("boom")
	tp := tape.New()
	runErr := exe.Run(tp, func(byte) error { return wantErr }, func() (byte, error) { return 0, nil })
	if runErr != wantErr {
		t.Fatalf("Run() err = %v, want %v", runErr, wantErr)
	}
}

func TestTapeOutOfRangeSurfacesAsError(t *testing.T) {
	requireAMD64(t)
	_, _, err := runJIT(t, "<.", nil)
	if !errors.Is(err, tape.ErrOutOfRange) {
		t.Fatalf("Run() err = %v, want tape.ErrOutOfRange", err)
	}
}

func TestLowerRejectsUnmatchedBracketsRegardlessOfArch(t *testing.T) {
	// lower() runs before any architecture dispatch, so its bracket
	// validation is exercised on every GOARCH this suite runs on.
	if _, err := lower([]byte("[[")); err == nil {
		t.Fatal("lower(\"[[\"): expected an UnmatchedBracketError")
	}
	if _, err := lower([]byte("]")); err == nil {
		t.Fatal("lower(\"]\"): expected an UnmatchedBracketError")
	}
	g, err := lower([]byte("+[-]"))
	if err != nil {
		t.Fatalf("lower(\"+[-]\"): unexpected error: %v", err)
	}
	if len(g.blocks) == 0 {
		t.Fatal("lower(\"+[-]\"): expected at least one block")
	}
}
