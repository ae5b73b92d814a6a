// Copyright 2019-2020 Intuitive Labs GmbH. All rights reserved.
//
// Use of this source code is governed by a source-available license
// that can be found in the LICENSE.txt file in the root of the source
// tree.

// Package exporter exposes a task-lifecycle snapshot as Prometheus
// metrics: a read-only consumer of tasktrack.ToValue(), one gauge or
// counter series per snapshot record, rebuilt fresh on every scrape.
package exporter

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/intuitivelabs/tasktrack"
)

// Collector implements prometheus.Collector by calling
// tasktrack.ToValue() on every scrape and translating each
// SnapshotRecord into one set of labeled metric samples. It holds no
// state of its own between scrapes, following the same
// fresh-metrics-per-scrape approach the pack's ETW exporter uses for
// its custom collectors.
type Collector struct{}

// NewCollector returns a ready-to-register Collector.
func NewCollector() *Collector {
	return &Collector{}
}

var (
	countDesc = prometheus.NewDesc(
		"tasktrack_task_count",
		"Number of tasks observed for a birth location, thread pair.",
		[]string{"file", "function", "line", "birth_thread", "death_thread"}, nil,
	)
	runTotalDesc = prometheus.NewDesc(
		"tasktrack_run_duration_ms_total",
		"Total milliseconds spent running tasks for a birth location, thread pair.",
		[]string{"file", "function", "line", "birth_thread", "death_thread"}, nil,
	)
	runMaxDesc = prometheus.NewDesc(
		"tasktrack_run_duration_ms_max",
		"Largest single run duration observed, in milliseconds.",
		[]string{"file", "function", "line", "birth_thread", "death_thread"}, nil,
	)
	queueTotalDesc = prometheus.NewDesc(
		"tasktrack_queue_duration_ms_total",
		"Total milliseconds tasks spent queued for a birth location, thread pair.",
		[]string{"file", "function", "line", "birth_thread", "death_thread"}, nil,
	)
	queueMaxDesc = prometheus.NewDesc(
		"tasktrack_queue_duration_ms_max",
		"Largest single queue duration observed, in milliseconds.",
		[]string{"file", "function", "line", "birth_thread", "death_thread"}, nil,
	)
)

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- countDesc
	ch <- runTotalDesc
	ch <- runMaxDesc
	ch <- queueTotalDesc
	ch <- queueMaxDesc
}

// Collect implements prometheus.Collector: it walks the current
// tasktrack snapshot and emits one sample set per record. Records with
// no recorded death (still living) report a death_thread label of "".
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	v := tasktrack.ToValue()
	for _, r := range v.Records {
		labels := []string{
			r.File,
			r.Function,
			strconv.Itoa(r.Line),
			r.BirthThread,
			r.DeathThread,
		}
		ch <- prometheus.MustNewConstMetric(countDesc, prometheus.GaugeValue, float64(r.Count), labels...)
		ch <- prometheus.MustNewConstMetric(runTotalDesc, prometheus.CounterValue, float64(r.RunTotalMs), labels...)
		ch <- prometheus.MustNewConstMetric(runMaxDesc, prometheus.GaugeValue, float64(r.RunMaxMs), labels...)
		ch <- prometheus.MustNewConstMetric(queueTotalDesc, prometheus.CounterValue, float64(r.QueueTotalMs), labels...)
		ch <- prometheus.MustNewConstMetric(queueMaxDesc, prometheus.GaugeValue, float64(r.QueueMaxMs), labels...)
	}
}
