// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import (
	"sync"
	"time"

	"github.com/intuitivelabs/counters"
)

// threadTableStats groups the per-table counters exposed through the
// counters package, the same way callsStats groups CallEntryHash's
// counters in the teacher.
type threadTableStats struct {
	grp *counters.Group

	hBirths   counters.Handle // total births tallied on this table
	hDeaths   counters.Handle // total deaths tallied on this table
	hNewBirth counters.Handle // new Births record allocations
	hNewDeath counters.Handle // new DeathData record allocations
}

func (s *threadTableStats) init(name string) {
	const entries = 16
	s.grp = counters.NewGroup(name, nil, entries)
	if s.grp == nil {
		s.grp = &counters.Group{}
		s.grp.Init(name, nil, entries)
	}
	defs := [...]counters.Def{
		{H: &s.hBirths, Flags: counters.CntMaxF, Name: "births",
			Desc: "total births tallied on this thread table"},
		{H: &s.hDeaths, Flags: counters.CntMaxF, Name: "deaths",
			Desc: "total deaths tallied on this thread table"},
		{H: &s.hNewBirth, Name: "new_birth_records",
			Desc: "Births records created on this thread table"},
		{H: &s.hNewDeath, Name: "new_death_records",
			Desc: "DeathData records created on this thread table"},
	}
	if !s.grp.RegisterDefs(defs[:]) {
		Log.PANIC("ThreadData: failed to register counters for %q\n", name)
	}
}

// ThreadData is the per-thread database of birth and death records --
// the "thread table" of the spec. Exactly one exists per goroutine
// (worker or named) that ever tallies a birth or death, and it is
// mutated lock-free by its owner except for structural map insertions
// and foreign-thread reads, both of which take mu.
type ThreadData struct {
	// Immutable after construction.
	name        string
	isWorker    bool
	incarnation uint32

	mu       sync.Mutex
	birthMap map[Location]*Births
	deathMap map[*Births]*DeathData

	cnts threadTableStats

	// next links into the registry's singly-linked, insert-at-head,
	// never-unlinked list. Written exactly once, at insertion.
	next *ThreadData
}

func newThreadData(name string, isWorker bool, incarnation uint32) *ThreadData {
	t := &ThreadData{
		name:        name,
		isWorker:    isWorker,
		incarnation: incarnation,
		birthMap:    make(map[Location]*Births, 8),
		deathMap:    make(map[*Births]*DeathData, 8),
	}
	t.cnts.init("tasktrack." + name)
	return t
}

// Name returns the thread's display name.
func (t *ThreadData) Name() string { return t.name }

// IsWorker reports whether this table belongs to a worker (pooled)
// thread as opposed to a named message-loop thread.
func (t *ThreadData) IsWorker() bool { return t.isWorker }

// tallyBirth finds or creates the Births record for loc on this table
// and increments it. The existing-record lookup takes no lock: only
// the owning goroutine ever writes birthMap (foreign threads only read
// it, under mu, in CloneBirthMap), so an unlocked read from the owner
// never races with a write from elsewhere.
func (t *ThreadData) tallyBirth(loc Location) *Births {
	if b, ok := t.birthMap[loc]; ok {
		b.RecordBirth()
		t.cnts.grp.Inc(t.cnts.hBirths)
		return b
	}
	t.mu.Lock()
	b, ok := t.birthMap[loc]
	if !ok {
		b = newBirths(loc, t)
		t.birthMap[loc] = b
		t.cnts.grp.Inc(t.cnts.hNewBirth)
	}
	t.mu.Unlock()
	b.RecordBirth()
	t.cnts.grp.Inc(t.cnts.hBirths)
	return b
}

// tallyDeath finds or creates the DeathData keyed by birth on this
// table and folds in the observed durations. birth may belong to a
// different ThreadData -- that is exactly the cross-thread attribution
// the spec requires: the table that *ran* the task owns the death
// record, not the table that bore it.
func (t *ThreadData) tallyDeath(birth *Births, queueDuration, runDuration time.Duration) {
	d, ok := t.deathMap[birth]
	if !ok {
		t.mu.Lock()
		d, ok = t.deathMap[birth]
		if !ok {
			d = allocDeathData()
			t.deathMap[birth] = d
			t.cnts.grp.Inc(t.cnts.hNewDeath)
		}
		t.mu.Unlock()
	}
	d.RecordDeath(queueDuration, runDuration)
	t.cnts.grp.Inc(t.cnts.hDeaths)
}

// CloneBirthMap returns a shallow copy of the birth map, safe to read
// from any goroutine. Acquires mu for the duration of the copy only.
func (t *ThreadData) CloneBirthMap() map[Location]*Births {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[Location]*Births, len(t.birthMap))
	for k, v := range t.birthMap {
		out[k] = v
	}
	return out
}

// CloneDeathMap returns a shallow copy of the death map: the keys
// (Births pointers) are shared, the DeathData values are copied by
// value so the snapshot is a frozen point-in-time view.
func (t *ThreadData) CloneDeathMap() map[*Births]DeathData {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[*Births]DeathData, len(t.deathMap))
	for k, v := range t.deathMap {
		out[k] = *v
	}
	return out
}

// reset zeroes every birth count and every death record on this table.
// Best-effort under concurrent updates, exactly as documented in the
// spec: a birth or death tallied mid-reset may be lost or double
// counted, and that is an accepted tradeoff for hot-path speed.
func (t *ThreadData) reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, b := range t.birthMap {
		b.clear()
	}
	for _, d := range t.deathMap {
		d.Clear()
	}
}
