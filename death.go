// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import "time"

// DeathData summarizes repeated destructions of tasks born at a single
// Births record and run to completion on one particular thread. It is
// keyed inside a ThreadData by the *pointer* of the Births record, not
// by Location -- the same (birth-thread, location) pair can die on
// many different death threads, each with its own DeathData.
type DeathData struct {
	count     int32
	runTime   DurationStat
	queueTime DurationStat
}

// newDeathData builds a DeathData representing count outstanding
// births with no recorded deaths yet -- used only when the collector
// synthesizes a "living objects" snapshot entry.
func newDeathData(count int32) DeathData {
	return DeathData{count: count}
}

// RecordDeath folds in one more completed task: bumps the count and
// accumulates both duration stats. Must only be called from the thread
// that owns this DeathData (the death/run thread).
func (d *DeathData) RecordDeath(queueDuration, runDuration time.Duration) {
	d.count++
	d.queueTime.Add(clampDuration(queueDuration))
	d.runTime.Add(clampDuration(runDuration))
}

// AddDeathData accumulates another DeathData's totals into this one.
// Used only when merging frozen snapshot copies, never concurrently
// with RecordDeath on the live record.
func (d *DeathData) AddDeathData(o DeathData) {
	d.count += o.count
	d.runTime.Merge(o.runTime)
	d.queueTime.Merge(o.queueTime)
}

// Clear zeroes count and both duration stats.
func (d *DeathData) Clear() {
	*d = DeathData{}
}

// Count returns the number of deaths recorded.
func (d DeathData) Count() int32 { return d.count }

// RunTime returns the run-duration accumulator.
func (d DeathData) RunTime() DurationStat { return d.runTime }

// QueueTime returns the queue-duration accumulator.
func (d DeathData) QueueTime() DurationStat { return d.queueTime }

// AverageRunMs returns the mean run duration in milliseconds.
func (d DeathData) AverageRunMs() int64 {
	return d.runTime.AverageMs(int(d.count))
}

// AverageQueueMs returns the mean queue duration in milliseconds.
func (d DeathData) AverageQueueMs() int64 {
	return d.queueTime.AverageMs(int(d.count))
}
