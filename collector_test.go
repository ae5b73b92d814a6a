// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import (
	"testing"
	"time"
)

// S3 -- living-objects residual.
func TestCollectorLivingObjectsResidual(t *testing.T) {
	a := newThreadData("A", false, 0)
	loc := Here("a.cc", "f", 10)

	b := a.tallyBirth(loc)
	a.tallyBirth(loc)
	a.tallyBirth(loc) // three births total

	a.tallyDeath(b, 0, 10*time.Millisecond) // one death

	c := NewDataCollector()
	c.Append(a)
	c.AddListOfLivingObjects()

	var completed, living *Snapshot
	snaps := c.Collection()
	for i := range snaps {
		if snaps[i].IsLiving() {
			living = &snaps[i]
		} else {
			completed = &snaps[i]
		}
	}

	if completed == nil {
		t.Fatalf("expected a completed-death snapshot")
	}
	if completed.DeathThread != a {
		t.Errorf("completed snapshot's death thread = %v, want A", completed.DeathThread)
	}
	if completed.Count() != 1 {
		t.Errorf("completed snapshot count = %d, want 1", completed.Count())
	}
	if completed.DeathData.RunTime().Sum() != 10*time.Millisecond {
		t.Errorf("completed snapshot run sum = %v, want 10ms", completed.DeathData.RunTime().Sum())
	}

	if living == nil {
		t.Fatalf("expected a living-objects residual snapshot")
	}
	if living.Count() != 2 {
		t.Errorf("residual count = %d, want 2", living.Count())
	}
	if living.DeathThread != nil {
		t.Errorf("residual snapshot has a non-nil death thread")
	}
}

// A negative residual (more deaths tallied against a birth than births
// observed, e.g. a sampling race) is clamped to zero rather than
// surfaced as a negative living-object count.
func TestCollectorNegativeResidualClamped(t *testing.T) {
	a := newThreadData("A", false, 0)
	loc := Here("a.cc", "f", 10)
	b := a.tallyBirth(loc)

	// Simulate a race: two deaths recorded against one birth.
	a.tallyDeath(b, 0, 5*time.Millisecond)
	a.tallyDeath(b, 0, 5*time.Millisecond)

	c := NewDataCollector()
	c.Append(a)
	c.AddListOfLivingObjects()

	for _, s := range c.Collection() {
		if s.IsLiving() {
			t.Errorf("expected no living-objects snapshot for a negative residual, got count %d", s.Count())
		}
	}
}

func TestCollectIncludesEveryRegisteredTable(t *testing.T) {
	resetRegistryForTest(t)

	loc := Here("x.cc", "g", 1)
	a := NewNamedThreadData("A")
	bThread := NewNamedThreadData("B")

	birth := a.tallyBirth(loc)
	bThread.tallyDeath(birth, 100*time.Millisecond, 140*time.Millisecond)

	v := ToValue()
	if len(v.Records) != 1 {
		t.Fatalf("expected exactly 1 snapshot record, got %d", len(v.Records))
	}
	r := v.Records[0]
	if r.DeathThread != "B" {
		t.Errorf("death_thread = %q, want %q", r.DeathThread, "B")
	}
	if r.BirthThread != "A" {
		t.Errorf("birth_thread = %q, want %q", r.BirthThread, "A")
	}
	if r.Count != 1 {
		t.Errorf("count = %d, want 1", r.Count)
	}
}
