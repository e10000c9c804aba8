// Copyright 2019 The go-interpreter Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tape

import "testing"

func panics(fn func()) (ok bool, recovered interface{}) {
	defer func() {
		if r := recover(); r != nil {
			ok = true
			recovered = r
		}
	}()
	fn()
	return false, nil
}

func TestNewIsZeroed(t *testing.T) {
	tp := New()
	if tp.Pointer() != 0 {
		t.Fatalf("Pointer() = %d, want 0", tp.Pointer())
	}
	if got := tp.Get(); got != 0 {
		t.Fatalf("Get() = %d, want 0", got)
	}
}

func TestMoveAndGetSet(t *testing.T) {
	tp := New()
	tp.Move(5)
	if tp.Pointer() != 5 {
		t.Fatalf("Pointer() = %d, want 5", tp.Pointer())
	}
	tp.Set(42)
	if got := tp.Get(); got != 42 {
		t.Fatalf("Get() = %d, want 42", got)
	}
	tp.Move(-5)
	if got := tp.Get(); got != 0 {
		t.Fatalf("Get() at cell 0 = %d, want 0 (unaffected by cell 5's write)", got)
	}
}

func TestAddWraps(t *testing.T) {
	tp := New()
	tp.Add(255)
	tp.Add(1)
	if got := tp.Get(); got != 0 {
		t.Fatalf("Get() = %d, want 0 after wraparound", got)
	}
	tp.Add(-1)
	if got := tp.Get(); got != 255 {
		t.Fatalf("Get() = %d, want 255 after underflow", got)
	}
}

func TestZeroOne(t *testing.T) {
	tp := New()
	tp.Set(7)
	tp.ZeroOne()
	if got := tp.Get(); got != 0 {
		t.Fatalf("Get() = %d, want 0", got)
	}
	if tp.Pointer() != 0 {
		t.Fatalf("Pointer() = %d, want 0 (unchanged)", tp.Pointer())
	}
}

func TestZeroRunAdvances(t *testing.T) {
	tp := New()
	tp.Set(1)
	tp.Move(1)
	tp.Set(2)
	tp.Move(1)
	tp.Set(3)
	tp.Move(-2)

	tp.ZeroRun(3)
	if tp.Pointer() != 3 {
		t.Fatalf("Pointer() = %d, want 3", tp.Pointer())
	}
	for i := 0; i < 3; i++ {
		tp.SetPointer(i)
		if got := tp.Get(); got != 0 {
			t.Errorf("cell %d = %d, want 0", i, got)
		}
	}
}

func TestMoveOutOfRangePanics(t *testing.T) {
	tp := New()
	ok, recovered := panics(func() { tp.Move(-1) })
	if !ok || recovered != ErrOutOfRange {
		t.Fatalf("Move(-1) panic = (%v, %v), want (true, ErrOutOfRange)", ok, recovered)
	}

	tp2 := New()
	ok, recovered = panics(func() { tp2.Move(Size) })
	if !ok || recovered != ErrOutOfRange {
		t.Fatalf("Move(Size) panic = (%v, %v), want (true, ErrOutOfRange)", ok, recovered)
	}
}

func TestZeroRunOutOfRangePanics(t *testing.T) {
	tp := New()
	tp.Move(Size - 2)
	ok, recovered := panics(func() { tp.ZeroRun(5) })
	if !ok || recovered != ErrOutOfRange {
		t.Fatalf("ZeroRun past end panic = (%v, %v), want (true, ErrOutOfRange)", ok, recovered)
	}
}

func TestReset(t *testing.T) {
	tp := New()
	tp.Set(9)
	tp.Move(100)
	tp.Set(9)
	tp.Reset()
	if tp.Pointer() != 0 {
		t.Fatalf("Pointer() = %d, want 0 after Reset", tp.Pointer())
	}
	if got := tp.Get(); got != 0 {
		t.Fatalf("Get() = %d, want 0 after Reset", got)
	}
	tp.SetPointer(100)
	if got := tp.Get(); got != 0 {
		t.Fatalf("cell 100 = %d, want 0 after Reset", got)
	}
}

func TestSetPointerAllowsOnePastEnd(t *testing.T) {
	tp := New()
	tp.SetPointer(Size)
	ok, _ := panics(func() { tp.Get() })
	if !ok {
		t.Fatal("Get() at one-past-end should panic")
	}
}
