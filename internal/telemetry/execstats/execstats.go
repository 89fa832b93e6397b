// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package execstats provides opt-in, low-overhead Prometheus telemetry
// for the dictionary and the adaptive parallel executor. It is designed
// to be safe to call from hot paths: when disabled, every public
// function is a no-op save for a single atomic load.
package execstats

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var enabled atomic.Bool

var (
	dictInternsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coltab_dictionary_interns_total",
		Help: "Total number of new distinct values interned across all dictionaries",
	})
	dictOverflowsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coltab_dictionary_overflows_total",
		Help: "Total number of interns rejected because an IndexFormat's maximal index was reached",
	})
	batchesDispatchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coltab_executor_batches_dispatched_total",
		Help: "Total number of doPart batches dispatched by the adaptive executor",
	})
	partDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "coltab_executor_part_duration_seconds",
		Help:    "Distribution of doPart call durations",
		Buckets: prometheus.DefBuckets,
	})
	abortsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coltab_executor_aborts_total",
		Help: "Total number of Execute calls that ended in Aborted",
	})
	userFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "coltab_executor_user_failures_total",
		Help: "Total number of Execute calls that ended in a UserCodeFailure",
	})
	modeGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "coltab_executor_last_dispatch_mode",
		Help: "1 for the dispatch mode (sequential/sequential-empty/equal-parts/batched) most recently chosen, per label",
	}, []string{"mode"})
)

func init() {
	prometheus.MustRegister(dictInternsTotal, dictOverflowsTotal, batchesDispatchedTotal,
		partDuration, abortsTotal, userFailuresTotal, modeGauge)
}

// Enable turns telemetry recording on. Safe to call multiple times.
func Enable() { enabled.Store(true) }

// Disable turns telemetry recording back off.
func Disable() { enabled.Store(false) }

// Handler exposes the Prometheus scrape endpoint, for embedding into a
// host HTTP server (see cmd/coltab-bench).
func Handler() http.Handler { return promhttp.Handler() }

// RecordDictIntern records one successful new interning.
func RecordDictIntern() {
	if !enabled.Load() {
		return
	}
	dictInternsTotal.Inc()
}

// RecordDictOverflow records one rejected intern.
func RecordDictOverflow() {
	if !enabled.Load() {
		return
	}
	dictOverflowsTotal.Inc()
}

// RecordBatch records one completed doPart invocation and its duration.
func RecordBatch(d time.Duration) {
	if !enabled.Load() {
		return
	}
	batchesDispatchedTotal.Inc()
	partDuration.Observe(d.Seconds())
}

// RecordMode records which dispatch mode Execute chose.
func RecordMode(mode string) {
	if !enabled.Load() {
		return
	}
	modeGauge.Reset()
	modeGauge.WithLabelValues(mode).Set(1)
}

// RecordAbort records an Execute call that ended in Aborted.
func RecordAbort() {
	if !enabled.Load() {
		return
	}
	abortsTotal.Inc()
}

// RecordUserFailure records an Execute call that ended in UserCodeFailure.
func RecordUserFailure() {
	if !enabled.Load() {
		return
	}
	userFailuresTotal.Inc()
}
