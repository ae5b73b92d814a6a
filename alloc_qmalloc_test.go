// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import "testing"

func TestAllocDeathDataPlainGoPath(t *testing.T) {
	defer SetCfg(Config{DefaultActive: true})
	SetCfg(Config{DefaultActive: true, UseQMalloc: false})

	before := DeathDataAllocStats.NewCalls.Get()
	d := allocDeathData()
	if d == nil {
		t.Fatalf("allocDeathData returned nil")
	}
	if d.Count() != 0 {
		t.Errorf("fresh DeathData has non-zero count")
	}
	if got := DeathDataAllocStats.NewCalls.Get(); got != before+1 {
		t.Errorf("NewCalls = %d, want %d", got, before+1)
	}
}

func TestAllocDeathDataQMallocPath(t *testing.T) {
	defer SetCfg(Config{DefaultActive: true})
	SetCfg(Config{DefaultActive: true, UseQMalloc: true})

	d := allocDeathData()
	if d == nil {
		t.Fatalf("allocDeathData returned nil from the qmalloc arena")
	}
	d.RecordDeath(0, 1)
	if d.Count() != 1 {
		t.Errorf("qmalloc-backed DeathData did not record correctly")
	}
	freeDeathData(d, true)
}
