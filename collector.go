// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

// DataCollector is a container that assembles Snapshot records for
// every (birth, death-thread) pair in the process, plus a final pass
// of "living objects" -- births with no matching death yet. It gathers
// data asynchronously relative to the ongoing updates it is sampling;
// spec.md explicitly accepts that an individual counter word could, in
// theory, be read while torn.
type DataCollector struct {
	snapshots []Snapshot

	// living accumulates, per birth-record pointer, (birth count) minus
	// (sum of death counts attributed to that birth across every
	// thread). It is built incrementally as Append visits each
	// registered thread table.
	living map[*Births]int32
}

// NewDataCollector returns an empty collector ready for Append calls.
func NewDataCollector() *DataCollector {
	return &DataCollector{living: make(map[*Births]int32, 64)}
}

// Append clones thread table t's birth and death maps (each under t's
// mutex, released before the next clone) and folds their contribution
// into the collector: one Snapshot per death record, and t's births
// added into the living-objects tally. Safe to call from any goroutine
// and concurrently with t's own hot-path updates.
func (c *DataCollector) Append(t *ThreadData) {
	births := t.CloneBirthMap()
	for _, b := range births {
		c.living[b] += b.Count()
	}
	deaths := t.CloneDeathMap()
	for b, d := range deaths {
		c.snapshots = append(c.snapshots, Snapshot{
			Birth:       b,
			DeathThread: t,
			DeathData:   d,
		})
		c.living[b] -= d.Count()
	}
}

// AddListOfLivingObjects appends one birth-only Snapshot per birth
// record with a positive residual (births seen, no matching death
// yet). Must be called after every known ThreadData has been passed to
// Append. A negative residual indicates a snapshotting race (a death
// counted twice, or a birth missed) and is coerced to zero rather than
// surfaced as a negative living-object count.
func (c *DataCollector) AddListOfLivingObjects() {
	for b, residual := range c.living {
		if residual < 0 {
			residual = 0
		}
		if residual > 0 {
			c.snapshots = append(c.snapshots, Snapshot{
				Birth:     b,
				DeathData: newDeathData(residual),
			})
		}
	}
}

// Collection returns the assembled snapshots.
func (c *DataCollector) Collection() []Snapshot {
	return c.snapshots
}

// Collect walks the global registry, appending every registered thread
// table's contribution, then adds the living-objects pass. It is the
// one-call convenience path behind ToValue().
func Collect() *DataCollector {
	c := NewDataCollector()
	for t := First(); t != nil; t = t.Next() {
		c.Append(t)
	}
	c.AddListOfLivingObjects()
	return c
}
