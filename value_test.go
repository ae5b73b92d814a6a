// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestToValueFlattensSnapshots(t *testing.T) {
	resetRegistryForTest(t)

	loc := Here("a.cc", "f", 10)
	a := NewNamedThreadData("A")
	birth := a.tallyBirth(loc)
	a.tallyDeath(birth, 0, 25*time.Millisecond)

	v := ToValue()
	if len(v.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(v.Records))
	}
	r := v.Records[0]
	if r.File != "a.cc" || r.Function != "f" || r.Line != 10 {
		t.Errorf("unexpected location in record: %+v", r)
	}
	if r.RunTotalMs != 25 {
		t.Errorf("RunTotalMs = %d, want 25", r.RunTotalMs)
	}
}

func TestValueWriteJSONRoundTrips(t *testing.T) {
	resetRegistryForTest(t)

	loc := Here("a.cc", "f", 10)
	a := NewNamedThreadData("A")
	a.tallyBirth(loc)

	v := ToValue()

	var buf bytes.Buffer
	if err := v.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded struct {
		Records []SnapshotRecord `json:"records"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("decoding WriteJSON output failed: %v", err)
	}
	if len(decoded.Records) != len(v.Records) {
		t.Errorf("decoded %d records, want %d", len(decoded.Records), len(v.Records))
	}
}
