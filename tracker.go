// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package tasktrack is a low-overhead, in-process task-lifecycle
// profiler: it records where tasks are born, where and how they run,
// and how long they spent queued versus executing, then exposes
// aggregated snapshots for diagnostic rendering. It does not schedule
// anything and does not render anything -- it is telemetry substrate
// for a surrounding thread-based runtime, ported from the design in
// Chromium's base/tracked_objects.h.
package tasktrack

// TrackingInfo bundles the fields a scheduler carries alongside a
// posted task, analogous to base::TrackingInfo: the Births record
// obtained at post time, when it was posted, and (for delayed tasks)
// when it was actually supposed to start.
type TrackingInfo struct {
	Birth            *Births
	TimePosted       TrackedTime
	DelayedStartTime TrackedTime // zero value means "not a delayed task"
}

// TallyABirthIfActive finds or creates the Births record for loc on
// ctx's thread table and increments it, returning the (stable) record
// so the caller can attach it to the task about to be enqueued. It
// returns nil and does nothing if the system is not ACTIVE.
func TallyABirthIfActive(ctx *ThreadContext, loc Location) *Births {
	t := ctx.Get()
	if t == nil {
		return nil
	}
	return t.tallyBirth(loc)
}

// TallyRunOnNamedThreadIfTracking attributes a death, on ctx's thread
// table, to the task described by info. Queue duration is measured
// from info.DelayedStartTime if set, otherwise from info.TimePosted,
// to startOfRun; run duration is startOfRun to endOfRun. A nil
// info.Birth is a silent no-op.
func TallyRunOnNamedThreadIfTracking(ctx *ThreadContext, info TrackingInfo, startOfRun, endOfRun TrackedTime) {
	if info.Birth == nil {
		return
	}
	t := ctx.Get()
	if t == nil {
		return
	}
	queuedSince := info.TimePosted
	if !info.DelayedStartTime.IsZero() {
		queuedSince = info.DelayedStartTime
	}
	queueDuration := startOfRun.Sub(queuedSince)
	runDuration := endOfRun.Sub(startOfRun)
	t.tallyDeath(info.Birth, queueDuration, runDuration)
}

// TallyRunOnWorkerThreadIfTracking is TallyRunOnNamedThreadIfTracking's
// worker-thread counterpart: same formulas, explicit arguments instead
// of a TrackingInfo bundle (workers never have a delayed start).
func TallyRunOnWorkerThreadIfTracking(ctx *ThreadContext, birth *Births, timePosted, startOfRun, endOfRun TrackedTime) {
	if birth == nil {
		return
	}
	t := ctx.Get()
	if t == nil {
		return
	}
	queueDuration := startOfRun.Sub(timePosted)
	runDuration := endOfRun.Sub(startOfRun)
	t.tallyDeath(birth, queueDuration, runDuration)
}

// TallyRunInAScopedRegionIfTracking records a death with a zero queue
// duration -- used for scoped regions that were never queued at all.
func TallyRunInAScopedRegionIfTracking(ctx *ThreadContext, birth *Births, startOfRun, endOfRun TrackedTime) {
	if birth == nil {
		return
	}
	t := ctx.Get()
	if t == nil {
		return
	}
	runDuration := endOfRun.Sub(startOfRun)
	t.tallyDeath(birth, 0, runDuration)
}

// EnableForProcessLifetime calls Initialize() once at process startup
// and starts the background maintenance reporter if configured -- the
// original AutoTracking's only remaining job, since teardown was
// deliberately made a no-op (see DESIGN.md). Typical use:
// `tasktrack.EnableForProcessLifetime()` once at startup; there is
// nothing to defer.
func EnableForProcessLifetime() {
	LoadConfigFromEnv()
	Initialize()
	StartMaintenance()
}
