// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package cmd

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	var addr string
	c := &cobra.Command{
		Use:   "snapshot",
		Short: "print the current snapshot from a running trackerd instance",
		RunE: func(_ *cobra.Command, _ []string) error {
			return fetchAndPrint("http://"+addr+"/snapshot", addr)
		},
	}
	c.Flags().StringVar(&addr, "addr", "localhost:8090", "trackerd's listen address")
	return c
}

func fetchAndPrint(url, addr string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("contacting trackerd at %s: %w", addr, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("trackerd returned %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}
