// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/intuitivelabs/counters"
)

// Status is the tracking system's activation state. It can only move
// UNINITIALIZED -> ACTIVE|DEACTIVATED -> (ACTIVE <-> DEACTIVATED); there
// is no path back to UNINITIALIZED in production (only the test-only
// teardown below resets it).
type Status int32

const (
	Uninitialized Status = iota
	Active
	Deactivated
)

func (s Status) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Deactivated:
		return "deactivated"
	default:
		return "invalid"
	}
}

type registryStats struct {
	grp *counters.Group

	hTables      counters.Handle // thread tables ever constructed
	hPooled      counters.Handle // tables currently sitting in the reuse pool
	hPoolHits    counters.Handle // worker constructions that reused a pooled table
	hPoolMiss    counters.Handle // worker constructions that built a fresh table
	hIncarnation counters.Handle // current incarnation counter value
	hResets      counters.Handle // ResetAllThreadData invocations
}

func (s *registryStats) init() {
	const entries = 16
	s.grp = counters.NewGroup("tasktrack.registry", nil, entries)
	if s.grp == nil {
		s.grp = &counters.Group{}
		s.grp.Init("tasktrack.registry", nil, entries)
	}
	defs := [...]counters.Def{
		{H: &s.hTables, Flags: counters.CntMaxF, Name: "tables",
			Desc: "thread tables ever constructed"},
		{H: &s.hPooled, Flags: counters.CntMaxF | counters.CntMinF, Name: "pooled",
			Desc: "worker tables currently sitting in the reuse pool"},
		{H: &s.hPoolHits, Name: "pool_hits",
			Desc: "worker thread constructions that reused a pooled table"},
		{H: &s.hPoolMiss, Name: "pool_miss",
			Desc: "worker thread constructions that built a fresh table"},
		{H: &s.hIncarnation, Flags: counters.CntMaxF, Name: "incarnation",
			Desc: "current activation incarnation counter"},
		{H: &s.hResets, Name: "resets",
			Desc: "ResetAllThreadData invocations"},
	}
	if !s.grp.RegisterDefs(defs[:]) {
		Log.PANIC("registry: failed to register counters\n")
	}
}

// registryT is the process-wide singleton described in spec.md §3/§4.3:
// a singly-linked, insert-at-head, never-unlinked list of ThreadData,
// a worker-table reuse pool, and the activation state machine.
type registryT struct {
	listMu sync.Mutex // guards head, pool and the two counters below
	head   *ThreadData
	pool   []*ThreadData // stack of recyclable worker tables

	threadNumCounter uint32
	incarnation      uint32

	status int32 // atomic Status

	cnts registryStats
}

var reg = registryT{status: int32(Uninitialized)}

// Initialize idempotently transitions UNINITIALIZED -> ACTIVE or
// DEACTIVATED (per Config.DefaultActive), bumping the incarnation
// counter. Calling it again after the first call is a no-op that
// returns true.
func Initialize() bool {
	if Status(atomic.LoadInt32(&reg.status)) != Uninitialized {
		return true
	}
	reg.listMu.Lock()
	defer reg.listMu.Unlock()
	if Status(reg.status) != Uninitialized {
		return true
	}
	reg.cnts.init()
	next := Deactivated
	if GetCfg().DefaultActive {
		next = Active
	}
	reg.incarnation++
	reg.cnts.grp.Set(reg.cnts.hIncarnation, counters.Val(reg.incarnation))
	atomic.StoreInt32(&reg.status, int32(next))
	return true
}

// SetTrackingStatus toggles between ACTIVE and DEACTIVATED and bumps
// the incarnation counter, so that worker tables recycled under a
// prior incarnation are abandoned rather than reused (see
// popPooledLocked). Calling it before Initialize() is a no-op.
func SetTrackingStatus(active bool) {
	reg.listMu.Lock()
	defer reg.listMu.Unlock()
	if Status(reg.status) == Uninitialized {
		return
	}
	next := Deactivated
	if active {
		next = Active
	}
	reg.incarnation++
	reg.cnts.grp.Set(reg.cnts.hIncarnation, counters.Val(reg.incarnation))
	atomic.StoreInt32(&reg.status, int32(next))
}

// TrackingStatus reports whether the system is currently ACTIVE.
func TrackingStatus() bool {
	return Status(atomic.LoadInt32(&reg.status)) == Active
}

// pushHeadLocked links t at the head of the registry's list. Callers
// must hold reg.listMu. Because insertion only ever prepends, a reader
// that captured the old head pointer before this call can keep
// iterating its suffix without any further coordination.
func pushHeadLocked(t *ThreadData) {
	t.next = reg.head
	reg.head = t
}

// First returns the current head of the registry's thread-table list,
// for callers (the collector) that want to walk it. The list itself
// may grow (at the head) while being walked; a walk that started at an
// older head simply sees a smaller, still fully valid, suffix.
func First() *ThreadData {
	reg.listMu.Lock()
	defer reg.listMu.Unlock()
	return reg.head
}

// Next returns the next table in the registry's list.
func (t *ThreadData) Next() *ThreadData { return t.next }

// popPooledLocked pops a reusable worker table from the pool if its
// incarnation matches the registry's current one. Callers must hold
// reg.listMu.
func popPooledLocked() *ThreadData {
	n := len(reg.pool)
	if n == 0 {
		return nil
	}
	t := reg.pool[n-1]
	reg.pool = reg.pool[:n-1]
	reg.cnts.grp.Dec(reg.cnts.hPooled)
	if t.incarnation != reg.incarnation {
		// stale: from a prior activation, abandon it on the list
		// (it stays reachable, just never reused).
		return nil
	}
	return t
}

// NewNamedThreadData constructs (and registers) a ThreadData for a
// thread with a caller-supplied display name -- the message-loop-named
// case from spec.md §4.3. Returns nil if the system is not ACTIVE.
func NewNamedThreadData(name string) *ThreadData {
	if Status(atomic.LoadInt32(&reg.status)) != Active {
		return nil
	}
	reg.listMu.Lock()
	defer reg.listMu.Unlock()
	t := newThreadData(name, false, reg.incarnation)
	pushHeadLocked(t)
	reg.cnts.grp.Inc(reg.cnts.hTables)
	return t
}

// NewWorkerThreadData constructs or recycles a ThreadData for a
// worker (pooled) thread. It first tries to pop a table from the reuse
// pool matching the current incarnation; on a miss it builds a new one
// with a synthetic "WorkerThread-<n>" name. Returns nil if the system
// is not ACTIVE.
func NewWorkerThreadData() *ThreadData {
	if Status(atomic.LoadInt32(&reg.status)) != Active {
		return nil
	}
	reg.listMu.Lock()
	defer reg.listMu.Unlock()
	if t := popPooledLocked(); t != nil {
		reg.cnts.grp.Inc(reg.cnts.hPoolHits)
		return t
	}
	reg.cnts.grp.Inc(reg.cnts.hPoolMiss)
	reg.threadNumCounter++
	name := fmt.Sprintf("WorkerThread-%d", reg.threadNumCounter)
	t := newThreadData(name, true, reg.incarnation)
	pushHeadLocked(t)
	reg.cnts.grp.Inc(reg.cnts.hTables)
	return t
}

// ReleaseWorkerThreadData is the thread-termination hook: if t's
// incarnation still matches the registry's current incarnation and t
// is a worker table, it is pushed into the reuse pool; otherwise it is
// left exactly where it is on the global list (leaked, but still
// inspectable by the collector). t is deliberately *not* cleared
// before being pooled: a recycled table is the same statistics bucket,
// not the same thread, and its accumulated stats are meant to survive
// into whichever worker adopts it next (see spec.md §4.3 and S6).
func ReleaseWorkerThreadData(t *ThreadData) {
	if t == nil || !t.isWorker {
		return
	}
	reg.listMu.Lock()
	defer reg.listMu.Unlock()
	if t.incarnation != reg.incarnation {
		return
	}
	reg.pool = append(reg.pool, t)
	reg.cnts.grp.Inc(reg.cnts.hPooled)
}

// ResetAllThreadData zeroes every birth and death record on every
// registered thread table. Best-effort under concurrent updates (see
// spec.md §4.2/§9): a tally racing with a reset may be lost.
func ResetAllThreadData() {
	reg.listMu.Lock()
	reg.cnts.grp.Inc(reg.cnts.hResets)
	// snapshot the head under the list lock, then release it before
	// taking per-table locks one at a time, per the locking discipline
	// in spec.md §5 (never hold the list mutex while acquiring a
	// per-table mutex).
	head := reg.head
	reg.listMu.Unlock()
	for t := head; t != nil; t = t.next {
		t.reset()
	}
}

// shutdownSingleThreadedForTests tears the registry back down to
// UNINITIALIZED. Only safe to call from tests, single-threaded, with
// no other goroutine holding a ThreadData pointer -- mirrors the
// original's ShutdownSingleThreadedCleanup(leak=false). Production
// code never calls this: teardown is intentionally a no-op everywhere
// else, since racing with live threads is worse than leaking.
func shutdownSingleThreadedForTests() {
	reg.listMu.Lock()
	defer reg.listMu.Unlock()
	reg.head = nil
	reg.pool = nil
	reg.threadNumCounter = 0
	reg.incarnation = 0
	atomic.StoreInt32(&reg.status, int32(Uninitialized))
}
