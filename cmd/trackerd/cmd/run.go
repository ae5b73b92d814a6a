// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

package cmd

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/phuslu/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/intuitivelabs/tasktrack"
	"github.com/intuitivelabs/tasktrack/exporter"
)

type runOptions struct {
	addr       string
	workers    int
	taskPeriod time.Duration
}

func newRunCmd() *cobra.Command {
	o := &runOptions{}
	c := &cobra.Command{
		Use:   "run",
		Short: "enable tracking, run a synthetic workload, and serve snapshots over HTTP",
		RunE:  o.run,
	}
	c.Flags().StringVar(&o.addr, "addr", ":8090", "listen address for /snapshot, /reset and /metrics")
	c.Flags().IntVar(&o.workers, "workers", 4, "number of synthetic worker goroutines")
	c.Flags().DurationVar(&o.taskPeriod, "task-period", 50*time.Millisecond, "average delay between synthetic tasks per worker")
	return c
}

func (o *runOptions) run(_ *cobra.Command, _ []string) error {
	tasktrack.EnableForProcessLifetime()

	reg := prometheus.NewRegistry()
	if err := reg.Register(exporter.NewCollector()); err != nil {
		return err
	}

	for i := 0; i < o.workers; i++ {
		go runSyntheticWorker(o.taskPeriod)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/snapshot", handleSnapshot)
	mux.HandleFunc("/reset", handleReset)

	log.Info().Str("addr", o.addr).Msg("trackerd listening")
	return http.ListenAndServe(o.addr, mux)
}

func handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	v := tasktrack.ToValue()
	if err := v.WriteJSON(w); err != nil {
		log.Error().Err(err).Msg("failed writing snapshot")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST required", http.StatusMethodNotAllowed)
		return
	}
	tasktrack.ResetAllThreadData()
	w.WriteHeader(http.StatusNoContent)
}

// runSyntheticWorker is the demo workload: a worker-style goroutine
// that repeatedly births, runs, and completes a task at the same call
// site, so there is always live data behind /snapshot and /metrics.
func runSyntheticWorker(period time.Duration) {
	ctx := &tasktrack.ThreadContext{}
	defer ctx.Release()
	loc := tasktrack.Here("cmd/trackerd/cmd/run.go", "runSyntheticWorker", 87)
	for {
		birth := tasktrack.TallyABirthIfActive(ctx, loc)
		timer := tasktrack.NewScopedTimer(ctx, birth)
		sleep := period/2 + time.Duration(rand.Int63n(int64(period)))
		time.Sleep(sleep)
		timer.Stop()
	}
}
