// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import (
	"github.com/intuitivelabs/timestamp"
)

// TrackedTime is the monotonic instant type used throughout the
// package -- spec.md's "external monotonic time provider", concretely
// github.com/intuitivelabs/timestamp the same way cstimer.go uses it
// for call-entry expiry. Abstracting it behind this alias keeps every
// other file blind to the concrete clock source.
type TrackedTime = timestamp.TS

// NowForStartOfRun and NowForEndOfRun are the two (possibly distinct)
// clock reads bracketing a tracked run. They are separate functions,
// not one, so that an implementation wanting to charge idle time
// between runs to something other than the next task's queue time can
// diverge them; this implementation keeps them identical. Both are
// cheap and return the zero TrackedTime when tracking is inactive, so
// hot paths never pay for a clock read they will discard.
func NowForStartOfRun() TrackedTime {
	if !TrackingStatus() {
		return 0
	}
	return timestamp.Now()
}

func NowForEndOfRun() TrackedTime {
	if !TrackingStatus() {
		return 0
	}
	return timestamp.Now()
}

// ScopedTimer is a stack-scoped helper: construct it at the start of a
// tracked region, and call Stop (typically via defer, so it runs on
// every exit path including a panic unwinding through it) at the end.
// It reports a queue duration of zero, per
// TallyRunInAScopedRegionIfTracking's contract.
type ScopedTimer struct {
	ctx   *ThreadContext
	birth *Births
	start TrackedTime
}

// NewScopedTimer captures the start instant and returns a timer to be
// stopped (generally via defer) at scope exit. birth may be nil, in
// which case Stop is a no-op -- callers need not special-case a failed
// TallyABirthIfActive.
func NewScopedTimer(ctx *ThreadContext, birth *Births) *ScopedTimer {
	return &ScopedTimer{ctx: ctx, birth: birth, start: NowForStartOfRun()}
}

// Stop captures the end instant and records the death. Safe to call
// exactly once; typically invoked via defer.
func (s *ScopedTimer) Stop() {
	if s == nil || s.birth == nil {
		return
	}
	end := NowForEndOfRun()
	TallyRunInAScopedRegionIfTracking(s.ctx, s.birth, s.start, end)
}
