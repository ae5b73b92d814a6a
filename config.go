// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import (
	"os"
	"sync"

	"github.com/intuitivelabs/bytescase"
)

// Config holds the process-wide tunables for the tracking database.
// Each field is read where it is used, through GetCfg() (the teacher's
// GetCfg()/SetCfg() convention): DefaultActive once, by Initialize();
// UseQMalloc on every DeathData allocation; MaintenanceInterval by
// StartMaintenance() and on every maintenance tick.
type Config struct {
	// DefaultActive selects the state Initialize() transitions into
	// from UNINITIALIZED when TASKTRACK_STATUS is not set: ACTIVE if
	// true, DEACTIVATED otherwise.
	DefaultActive bool

	// UseQMalloc selects the off-heap qmalloc-backed allocator for
	// DeathData records instead of plain Go allocation; Births records
	// are always Go-allocated. Useful
	// for processes that want task-tracking memory excluded from GC
	// scan time; see alloc_qmalloc.go.
	UseQMalloc bool

	// MaintenanceInterval, when non-zero, starts a background reporter
	// (see maintenance.go) that periodically logs a snapshot summary.
	MaintenanceInterval uint32 // seconds, 0 disables
}

var (
	cfgLock sync.Mutex
	cfg     = Config{DefaultActive: true}
)

// GetCfg returns a copy of the current configuration.
func GetCfg() Config {
	cfgLock.Lock()
	defer cfgLock.Unlock()
	return cfg
}

// SetCfg replaces the current configuration. Must be called before
// Initialize() to have any effect on the initial activation state.
func SetCfg(c Config) {
	cfgLock.Lock()
	cfg = c
	cfgLock.Unlock()
}

// envActiveToken and envDeactivatedToken are matched
// case-insensitively against TASKTRACK_STATUS using bytescase, the
// same way the corpus matches protocol tokens without allocating a
// lower-cased copy of the environment string.
var (
	envActiveToken      = []byte("active")
	envDeactivatedToken = []byte("deactivated")
)

// LoadConfigFromEnv overlays TASKTRACK_STATUS onto the current config's
// DefaultActive flag, if set and recognized. It is best-effort: an
// unrecognized value leaves DefaultActive unchanged.
func LoadConfigFromEnv() {
	v := os.Getenv("TASKTRACK_STATUS")
	if v == "" {
		return
	}
	b := []byte(v)
	cfgLock.Lock()
	defer cfgLock.Unlock()
	if bytescase.CmpEq(b, envActiveToken) {
		cfg.DefaultActive = true
	} else if bytescase.CmpEq(b, envDeactivatedToken) {
		cfg.DefaultActive = false
	}
}
