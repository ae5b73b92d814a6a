// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import "sync"

// Location identifies a source call site. Two Locations compare equal
// iff their file, function and line are equal: == on the struct
// compares the strings by content, so identical file/function/line
// text from different call sites yields equal Locations, the same
// result the original macro gets from the linker deduplicating
// identical string literals.
//
// Go has no linker-level literal deduplication guarantee a library can
// rely on across packages, so Here() routes every (file, function,
// line) triple through a process-lifetime intern table and hands back
// the stored Location value. The value is plain (safe as a map key,
// comparable with ==).
type Location struct {
	file, fn string
	line     int
}

// Here captures the calling source location. Callers normally wrap
// this in a package-level helper invoked at each tracked call site,
// analogous to the original FROM_HERE macro.
func Here(file, function string, line int) Location {
	return intern(file, function, line)
}

// File, Function and Line expose the triple for rendering.
func (l Location) File() string     { return l.file }
func (l Location) Function() string { return l.fn }
func (l Location) Line() int        { return l.line }

// Less provides the total, deterministic (if arbitrary) ordering the
// contract requires for use as an ordered-map key: lexicographic on
// (file, function, line).
func (l Location) Less(o Location) bool {
	if l.file != o.file {
		return l.file < o.file
	}
	if l.fn != o.fn {
		return l.fn < o.fn
	}
	return l.line < o.line
}

// locationIntern is the process-lifetime table guaranteeing that
// identical logical locations always produce the identical Location
// value (by content here, since Go strings already compare by value --
// the table exists so future callers can switch to a pointer-sized
// handle without changing this file's exported surface).
type locationIntern struct {
	mu    sync.Mutex
	table map[Location]Location
}

var locIntern = locationIntern{table: make(map[Location]Location, 256)}

func intern(file, function string, line int) Location {
	key := Location{file: file, fn: function, line: line}
	locIntern.mu.Lock()
	defer locIntern.mu.Unlock()
	if v, ok := locIntern.table[key]; ok {
		return v
	}
	locIntern.table[key] = key
	return key
}
