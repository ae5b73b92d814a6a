// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import "sync"

// ThreadContext is the Go stand-in for the original's thread-local
// storage slot (spec.md abstracts TLS mechanics as "a per-thread
// slot"; Go has no public API for that, so the caller holds this small
// handle wherever it keeps other per-goroutine state -- typically a
// field on a worker-pool's per-worker struct, one ThreadContext per
// goroutine that will ever tally a birth or death).
//
// A ThreadContext must never be shared between concurrently running
// goroutines: all of its methods assume single-goroutine-at-a-time use,
// exactly like the original's thread-confined ThreadData::Get().
type ThreadContext struct {
	mu          sync.Mutex
	table       *ThreadData
	isWorker    bool
	initialized bool
}

// Get returns this context's ThreadData, creating a worker-style table
// on first use. Returns nil (and creates nothing) if tracking is not
// ACTIVE -- mirrors "get() returns null so hot paths degrade to a null
// check." An already bound table is returned as is; its incarnation is
// not checked.
func (c *ThreadContext) Get() *ThreadData {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		c.table = NewWorkerThreadData()
		c.isWorker = true
		c.initialized = c.table != nil
		return c.table
	}
	if !TrackingStatus() {
		return nil
	}
	return c.table
}

// InitializeNamed binds this context to a named (non-worker) thread
// table, e.g. for a well-known message-loop-style goroutine. Must be
// called before any birth/death is tallied through this context, and
// only once. Returns the new table, or nil if not ACTIVE.
func (c *ThreadContext) InitializeNamed(name string) *ThreadData {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.table = NewNamedThreadData(name)
	c.isWorker = false
	c.initialized = true
	return c.table
}

// Release is the thread-termination hook: call it when the goroutine
// that owns this context is about to exit, so a worker table can be
// recycled into the registry's reuse pool. Named-thread tables are
// never pooled, and a context whose Get was never called releases
// nothing. In every case the context is unbound afterwards, so its
// next Get binds a table afresh.
func (c *ThreadContext) Release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isWorker {
		ReleaseWorkerThreadData(c.table)
	}
	c.table = nil
	c.initialized = false
}
