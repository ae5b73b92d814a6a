// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the trackerd command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "trackerd",
		Short:             "trackerd runs a standalone task-lifecycle tracking demo server",
		Long:              `trackerd enables tasktrack for its own process, serves its live snapshot as JSON and as Prometheus metrics, and can reset the tracked state on demand.`,
		DisableAutoGenTag: true,
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newSnapshotCmd())
	root.AddCommand(newResetCmd())
	return root
}
