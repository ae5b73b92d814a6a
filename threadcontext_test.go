// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import "testing"

func TestThreadContextGetCreatesWorkerTableOnce(t *testing.T) {
	resetRegistryForTest(t)
	ctx := &ThreadContext{}

	t1 := ctx.Get()
	if t1 == nil {
		t.Fatalf("Get() returned nil while active")
	}
	if !t1.IsWorker() {
		t.Errorf("lazily created table is not marked as a worker table")
	}

	t2 := ctx.Get()
	if t2 != t1 {
		t.Errorf("Get() created a second table on a repeat call")
	}
}

func TestThreadContextInitializeNamed(t *testing.T) {
	resetRegistryForTest(t)
	ctx := &ThreadContext{}

	tbl := ctx.InitializeNamed("io-thread")
	if tbl == nil {
		t.Fatalf("InitializeNamed returned nil while active")
	}
	if tbl.IsWorker() {
		t.Errorf("named table incorrectly marked as worker")
	}
	if tbl.Name() != "io-thread" {
		t.Errorf("Name() = %q, want %q", tbl.Name(), "io-thread")
	}
	if ctx.Get() != tbl {
		t.Errorf("Get() after InitializeNamed returned a different table")
	}
}

func TestThreadContextReleaseRecyclesWorkerTable(t *testing.T) {
	resetRegistryForTest(t)
	ctx := &ThreadContext{}

	tbl := ctx.Get()
	ctx.Release()

	ctx2 := &ThreadContext{}
	tbl2 := ctx2.Get()
	if tbl2 != tbl {
		t.Errorf("Release() did not return the worker table to the pool")
	}
}
