// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import "testing"

// resetRegistryForTest tears the singleton back to UNINITIALIZED and
// reconfigures it active, so each test starts from a known state.
func resetRegistryForTest(t *testing.T) {
	t.Helper()
	shutdownSingleThreadedForTests()
	SetCfg(Config{DefaultActive: true})
	Initialize()
}

func TestInitializeIsIdempotent(t *testing.T) {
	resetRegistryForTest(t)
	inc := reg.incarnation
	if ok := Initialize(); !ok {
		t.Fatalf("Initialize returned false on second call")
	}
	if reg.incarnation != inc {
		t.Errorf("incarnation changed on a redundant Initialize call: %d -> %d", inc, reg.incarnation)
	}
}

// S4 -- deactivation suppression.
func TestDeactivationSuppressesNewThreadData(t *testing.T) {
	resetRegistryForTest(t)
	SetTrackingStatus(false)
	if TrackingStatus() {
		t.Fatalf("TrackingStatus still true after SetTrackingStatus(false)")
	}
	if td := NewNamedThreadData("named"); td != nil {
		t.Errorf("NewNamedThreadData returned non-nil while deactivated")
	}
	if td := NewWorkerThreadData(); td != nil {
		t.Errorf("NewWorkerThreadData returned non-nil while deactivated")
	}
}

// S6 -- worker recycling under the same incarnation.
func TestWorkerThreadDataRecyclingSameIncarnation(t *testing.T) {
	resetRegistryForTest(t)

	w1 := NewWorkerThreadData()
	if w1 == nil {
		t.Fatalf("NewWorkerThreadData returned nil")
	}
	loc := Here("a.cc", "f", 10)
	w1.tallyBirth(loc)

	ReleaseWorkerThreadData(w1)

	w2 := NewWorkerThreadData()
	if w2 != w1 {
		t.Fatalf("expected the released table to be recycled, got a distinct table")
	}
	if w2.Name() != w1.Name() {
		t.Errorf("recycled table's name changed: %q vs %q", w2.Name(), w1.Name())
	}

	w2.tallyBirth(loc)
	b := w2.birthMap[loc]
	if b.Count() != 2 {
		t.Errorf("recycled table's birth count = %d, want 2 (stats not cleared on release)", b.Count())
	}
}

// A table recycled into the pool under one incarnation is abandoned
// (not reused) once the incarnation bumps, e.g. via SetTrackingStatus.
func TestWorkerThreadDataStaleIncarnationAbandoned(t *testing.T) {
	resetRegistryForTest(t)

	w1 := NewWorkerThreadData()
	ReleaseWorkerThreadData(w1)

	SetTrackingStatus(false)
	SetTrackingStatus(true)

	w2 := NewWorkerThreadData()
	if w2 == w1 {
		t.Fatalf("stale pooled table was reused across an incarnation bump")
	}
}

func TestResetAllThreadDataZeroesEveryTable(t *testing.T) {
	resetRegistryForTest(t)

	a := NewNamedThreadData("A")
	b := NewNamedThreadData("B")
	loc := Here("a.cc", "f", 10)
	a.tallyBirth(loc)
	b.tallyBirth(loc)

	ResetAllThreadData()

	if a.birthMap[loc].Count() != 0 {
		t.Errorf("A's birth count not reset")
	}
	if b.birthMap[loc].Count() != 0 {
		t.Errorf("B's birth count not reset")
	}
}

func TestRegistryListWalkOrder(t *testing.T) {
	resetRegistryForTest(t)

	a := NewNamedThreadData("A")
	b := NewNamedThreadData("B")

	if First() != b {
		t.Fatalf("expected most recently inserted table at head, got %q", First().Name())
	}
	if First().Next() != a {
		t.Fatalf("expected A to follow B in the list")
	}
}
