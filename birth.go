// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import "sync/atomic"

// Births is the record of all tasks constructed at one Location on one
// thread's table. The (location, owner) pair is immutable for the life
// of the record; only the count mutates, and only the owning thread
// mutates it -- any other thread may read location()/owner() freely
// since those fields never change after construction.
//
// Once registered a Births record is never destroyed: other threads
// hold this pointer (attached to the task they enqueued) for the life
// of the process, so it must remain valid forever.
type Births struct {
	loc   Location
	owner *ThreadData

	// count is only ever mutated by owner's goroutine; atomic so that
	// foreign-thread snapshot reads (CloneBirthMap) never race with a
	// torn word on 32-bit platforms, even though the contract already
	// accepts rare torn reads during snapshotting.
	count int32
}

// newBirths constructs a birth record for loc on table t with a zero
// count. Callers only reach this through ThreadData.tallyBirth, which
// serializes creation with the table mutex.
func newBirths(loc Location, t *ThreadData) *Births {
	return &Births{loc: loc, owner: t}
}

// Location returns the immutable birthplace.
func (b *Births) Location() Location { return b.loc }

// Owner returns the thread table that exclusively owns this record's
// count. The pointer is valid for the life of the process.
func (b *Births) Owner() *ThreadData { return b.owner }

// RecordBirth increments the birth count. Must only be called from the
// owning thread.
func (b *Births) RecordBirth() {
	atomic.AddInt32(&b.count, 1)
}

// Forget decrements the birth count, for the rare case where a birth
// is attributed to the wrong location and corrected after the fact
// (mirrors the original's ForgetBirth). Must only be called from the
// owning thread.
func (b *Births) Forget() {
	atomic.AddInt32(&b.count, -1)
}

// Count returns the current birth count.
func (b *Births) Count() int32 {
	return atomic.LoadInt32(&b.count)
}

// clear zeroes the count; used only by ResetAllThreadData.
func (b *Births) clear() {
	atomic.StoreInt32(&b.count, 0)
}
