// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

func newResetCmd() *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "reset",
		Short: "zero every birth and death record on a running trackerd instance",
		RunE: func(_ *cobra.Command, _ []string) error {
			resp, err := http.Post("http://"+addr+"/reset", "", nil)
			if err != nil {
				return fmt.Errorf("contacting trackerd at %s: %w", addr, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusNoContent {
				return fmt.Errorf("trackerd returned %s", resp.Status)
			}
			fmt.Println("reset ok")
			return nil
		},
	}
	c.Flags().StringVar(&addr, "addr", "localhost:8090", "trackerd's listen address")
	return c
}
