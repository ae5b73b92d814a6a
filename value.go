// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/intuitivelabs/bytespool"
)

// valuePoolRoundTo and valuePoolMax size the pooled buffers used while
// serializing a snapshot tree to JSON for the rendering consumer, the
// same pooling strategy alloc_oneblock.go uses for entry buffers --
// repurposed here for short-lived serialization scratch space instead
// of long-lived record storage.
const (
	valuePoolMin     = 0
	valuePoolMax     = 64 * 1024
	valuePoolRoundTo = 64
)

var valuePool bytespool.Bpool

func init() {
	if !valuePool.Init(valuePoolMin, valuePoolMax, valuePoolRoundTo) {
		Log.PANIC("tasktrack: value buffer pool init failed\n")
	}
}

// SnapshotRecord is the structured-value-tree element described in
// spec.md §6: one flattened row per Snapshot, ready for JSON emission
// or for a rendering layer to consume directly without reaching back
// into Births/ThreadData pointers.
type SnapshotRecord struct {
	File        string `json:"file"`
	Function    string `json:"function"`
	Line        int    `json:"line"`
	BirthThread string `json:"birth_thread"`
	DeathThread string `json:"death_thread,omitempty"`

	Count int32 `json:"count"`

	RunTotalMs int64 `json:"run_total_ms"`
	RunMaxMs   int64 `json:"run_max_ms"`
	RunAvgMs   int64 `json:"run_avg_ms"`

	QueueTotalMs int64 `json:"queue_total_ms"`
	QueueMaxMs   int64 `json:"queue_max_ms"`
	QueueAvgMs   int64 `json:"queue_avg_ms"`
}

// Value is the structured value tree handed to a rendering layer: a
// flat list of records, one per Snapshot.
type Value struct {
	Records []SnapshotRecord `json:"records"`
}

// snapshotToRecord flattens one Snapshot into its rendering-ready row.
func snapshotToRecord(s Snapshot) SnapshotRecord {
	loc := s.Birth.Location()
	r := SnapshotRecord{
		File:         loc.File(),
		Function:     loc.Function(),
		Line:         loc.Line(),
		BirthThread:  s.Birth.Owner().Name(),
		Count:        s.DeathData.Count(),
		RunTotalMs:   s.DeathData.RunTime().Sum().Milliseconds(),
		RunMaxMs:     s.DeathData.RunTime().Max().Milliseconds(),
		RunAvgMs:     s.DeathData.AverageRunMs(),
		QueueTotalMs: s.DeathData.QueueTime().Sum().Milliseconds(),
		QueueMaxMs:   s.DeathData.QueueTime().Max().Milliseconds(),
		QueueAvgMs:   s.DeathData.AverageQueueMs(),
	}
	if s.DeathThread != nil {
		r.DeathThread = s.DeathThread.Name()
	}
	return r
}

// ToValue walks the registry, collects a snapshot, and returns the
// resulting structured value tree -- spec.md §6's `to_value()`.
// Serialization (see WriteJSON below) is read-only over already
// frozen copies; no thread-table lock is held while emitting.
func ToValue() Value {
	c := Collect()
	snaps := c.Collection()
	v := Value{Records: make([]SnapshotRecord, 0, len(snaps))}
	for _, s := range snaps {
		v.Records = append(v.Records, snapshotToRecord(s))
	}
	return v
}

// WriteJSON encodes v to w, staging the encoded bytes in a pooled
// buffer (sized off the record count) instead of letting the encoder
// grow a fresh allocation for every snapshot dump.
func (v Value) WriteJSON(w io.Writer) error {
	scratch, _ := valuePool.Get(len(v.Records)*96+256, false)
	buf := bytes.NewBuffer(scratch[:0])
	defer valuePool.Put(scratch)
	if err := json.NewEncoder(buf).Encode(struct {
		Records []SnapshotRecord `json:"records"`
	}{Records: v.Records}); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
