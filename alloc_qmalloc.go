// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import (
	"sync"
	"unsafe"

	"github.com/intuitivelabs/mallocs/qmalloc"
)

// DeathData is a plain value with no embedded Go pointers (its
// DurationStat fields are themselves plain int64 pairs), which makes
// it -- unlike Births, which holds a *ThreadData -- safe to place in
// memory the garbage collector does not scan. The teacher's RegEntry
// qmalloc experiment ran into exactly this hazard when it tried to
// alias a GC-scanned struct containing pointers onto a qmalloc block;
// DeathData sidesteps it by construction.
//
// This allocator is opt-in (Config.UseQMalloc) since ordinary Go
// allocation is simpler and, for most workloads, fast enough; it
// exists for processes that want task-tracking memory excluded from
// GC scan time, exactly the rationale the teacher states for its
// qmalloc build variant.

const qmallocArenaSize = 64 * 1024 * 1024 // 64MB arena for DeathData records

var (
	qmOnce sync.Once
	qm     qmalloc.QMalloc
)

func qmallocInit() {
	qmOnce.Do(func() {
		mem := make([]byte, qmallocArenaSize)
		if !qm.Init(mem, 12, qmalloc.QMDefaultOptions) {
			Log.PANIC("tasktrack: qmalloc arena init failed\n")
		}
	})
}

// allocDeathData returns a zeroed DeathData, from the qmalloc arena if
// Config.UseQMalloc is set, otherwise from ordinary Go allocation. It
// never returns nil: arena exhaustion falls back to a Go allocation
// rather than losing a death tally, recording the fallback in
// DeathDataAllocStats.Failures.
func allocDeathData() *DeathData {
	DeathDataAllocStats.NewCalls.Inc(1)
	if !GetCfg().UseQMalloc {
		return &DeathData{}
	}
	qmallocInit()
	p := qm.Malloc(uint64(unsafe.Sizeof(DeathData{})))
	if p == nil {
		DeathDataAllocStats.Failures.Inc(1)
		return &DeathData{}
	}
	d := (*DeathData)(p)
	*d = DeathData{}
	return d
}

// freeDeathData releases a DeathData obtained from allocDeathData. The
// production code path never calls this (death records are never
// destroyed per spec.md §3); it exists for test teardown, so the
// qmalloc arena doesn't look leaked across repeated test runs.
func freeDeathData(d *DeathData, fromQMalloc bool) {
	DeathDataAllocStats.FreeCalls.Inc(1)
	if !fromQMalloc {
		return
	}
	qm.Free(unsafe.Pointer(d))
}
