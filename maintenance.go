// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import (
	"sync/atomic"
	"time"

	"github.com/intuitivelabs/wtimer"
)

// maintTimers is a timer wheel, exactly the mechanism the teacher uses
// for call-entry expiry (cstimer.go), repurposed here for a single
// recurring job instead of one timer per tracked object: periodically
// logging a one-line snapshot summary, when Config.MaintenanceInterval
// is non-zero. This is strictly an ambient convenience -- nothing in
// the core tally/collect path depends on it.
var maintTimers wtimer.WTimer

const maintTimerFlags = 0
const maintTick = 1 * time.Second

var maintHandle wtimer.TimerLnk

var maintStarted int32 // set to 1 by the first StartMaintenance that starts the wheel

// StartMaintenance starts the background reporter if
// Config.MaintenanceInterval is non-zero. Safe to call once after
// Initialize(); a second call is a no-op.
func StartMaintenance() {
	interval := GetCfg().MaintenanceInterval
	if interval == 0 {
		return
	}
	if !atomic.CompareAndSwapInt32(&maintStarted, 0, 1) {
		return
	}
	if err := maintTimers.Init(maintTick); err != nil {
		Log.PANIC("tasktrack: maintenance timer wheel init failed: %s\n", err)
	}
	maintTimers.Start()
	if err := maintTimers.InitTimer(&maintHandle, maintTimerFlags); err != nil {
		Log.PANIC("tasktrack: maintenance timer init failed: %s\n", err)
	}
	period := time.Duration(interval) * time.Second
	if err := maintTimers.Add(&maintHandle, period, maintenanceTick, nil); err != nil {
		Log.PANIC("tasktrack: maintenance timer add failed: %s\n", err)
	}
}

// StopMaintenance stops the background reporter's goroutines. Safe to
// call even if StartMaintenance was never called or tracking was never
// initialized.
func StopMaintenance() {
	maintTimers.Shutdown()
}

// maintenanceTick is the wtimer.TimerHandleF callback: it logs a
// one-line summary and reschedules itself for another period.
func maintenanceTick(wt *wtimer.WTimer, h *wtimer.TimerLnk, _ interface{}) (bool, time.Duration) {
	v := ToValue()
	var living, dead int
	for _, r := range v.Records {
		if r.DeathThread == "" {
			living += int(r.Count)
		} else {
			dead += int(r.Count)
		}
	}
	Log.INFO("tasktrack: %d snapshot records, %d living, %d completed\n",
		len(v.Records), living, dead)
	period := time.Duration(GetCfg().MaintenanceInterval) * time.Second
	return true, period
}
