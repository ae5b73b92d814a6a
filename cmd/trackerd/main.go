// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Command trackerd demonstrates the tasktrack package standalone: it
// enables process-lifetime tracking, serves its snapshot both as JSON
// and as Prometheus metrics over HTTP, and exposes reset as a CLI
// subcommand for local experimentation.
package main

import (
	"os"

	"github.com/phuslu/log"

	"github.com/intuitivelabs/tasktrack/cmd/trackerd/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		log.Fatal().Err(err).Msg("trackerd failed")
		os.Exit(1)
	}
}
