// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package tasktrack

import (
	"github.com/intuitivelabs/slog"
)

// Log is the package-wide logger. The core never logs on the hot
// (birth/death tally) path -- it is a telemetry substrate, not a
// logger's client. PANIC is reserved for broken invariants (bad
// counter defs, corrupted registry state), never for ordinary runtime
// conditions like a deactivated tracker.
var Log slog.Log
