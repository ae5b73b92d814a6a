// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

// Snapshot is a frozen combination of a Births record, the thread table
// that ran it to completion (nil for "still living" entries), and a
// by-value copy of the death data at sampling time. The Births and
// ThreadData pointers are safe to hold onto indefinitely: both are
// immortal once registered.
type Snapshot struct {
	Birth       *Births
	DeathThread *ThreadData // nil means "no death yet, still living"
	DeathData   DeathData
}

// Count proxies through to the embedded DeathData for convenient call
// sites.
func (s Snapshot) Count() int32 { return s.DeathData.Count() }

// IsLiving reports whether this snapshot represents outstanding births
// with no matching death rather than a real birth/death pair.
func (s Snapshot) IsLiving() bool { return s.DeathThread == nil }
