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

// Package main provides the coltab-bench demo/benchmark driver.
//
// It builds a numeric column and a categorical column of a caller-chosen
// size, then drives pkg/colcalc.Execute over each with a real bounded
// goroutine-pool Context, printing the wall time and result of each run. It's the runnable counterpart to the table-driven unit tests:
// a way to see the adaptive executor actually pick sequential,
// equal-parts, or batched mode on data sized the way a caller chooses.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"coltab/internal/telemetry/execstats"
	"coltab/pkg/colbuf"
	"coltab/pkg/colcalc"
	"coltab/pkg/coltype"
	"coltab/pkg/column"
)

var workloadByName = map[string]colcalc.Workload{
	"small":   colcalc.Small,
	"medium":  colcalc.Medium,
	"default": colcalc.Default,
	"large":   colcalc.Large,
	"huge":    colcalc.Huge,
}

func main() {
	rows := flag.Int64("rows", 1_000_000, "number of rows to generate for each benchmark column")
	workloadName := flag.String("workload", "default", "colcalc.Workload hint: small, medium, default, large, huge")
	parallelism := flag.Int("parallelism", runtime.GOMAXPROCS(0), "number of workers in the demo goroutine-pool Context")
	categories := flag.Int("categories", 50, "number of distinct categories in the generated nominal column")
	seed := flag.Int64("seed", 42, "seed for the random data generator")
	metricsAddr := flag.String("metrics_addr", "", "if non-empty, expose Prometheus /metrics on this address (e.g., :9090) and keep running until interrupted")
	flag.Parse()

	workload, ok := workloadByName[*workloadName]
	if !ok {
		log.Fatalf("unknown -workload %q: want one of small, medium, default, large, huge", *workloadName)
	}
	if *rows < 0 {
		log.Fatalf("-rows must be >= 0")
	}

	var metricsServer *http.Server
	if *metricsAddr != "" {
		execstats.Enable()
		mux := http.NewServeMux()
		mux.Handle("/metrics", execstats.Handler())
		metricsServer = &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			fmt.Printf("coltab-bench: serving metrics on %s\n", *metricsAddr)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("coltab-bench: metrics server failed: %v", err)
			}
		}()
	}

	rng := rand.New(rand.NewSource(*seed))
	n := int(*rows)

	numericCol, err := buildNumericColumn(rng, n)
	if err != nil {
		log.Fatalf("coltab-bench: building numeric column: %v", err)
	}
	nominalCol, err := buildNominalColumn(rng, n, *categories)
	if err != nil {
		log.Fatalf("coltab-bench: building nominal column: %v", err)
	}

	fmt.Printf("coltab-bench: %d rows, workload=%s, parallelism=%d\n", n, workload, *parallelism)

	runSum(numericCol, workload, *parallelism)
	runHistogram(nominalCol, workload, *parallelism)

	if metricsServer == nil {
		return
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	fmt.Println("coltab-bench: benchmarks complete; press Ctrl+C to stop the metrics server")
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(ctx); err != nil {
		log.Fatalf("coltab-bench: metrics server shutdown failed: %v", err)
	}
	fmt.Println("coltab-bench: stopped.")
}

func buildNumericColumn(rng *rand.Rand, n int) (*column.Column, error) {
	buf, err := colbuf.NewRealBuffer(n, false)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		if err := buf.Set(i, rng.Float64()*1000); err != nil {
			return nil, err
		}
	}
	return buf.ToColumn(), nil
}

func buildNominalColumn(rng *rand.Rand, n, categories int) (*column.Column, error) {
	if categories < 1 {
		categories = 1
	}
	format := coltype.MinimalFormatFor(categories)
	buf, err := colbuf.NewNominalBuffer(format, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		label := fmt.Sprintf("category-%03d", rng.Intn(categories))
		if err := buf.Set(i, label); err != nil {
			return nil, err
		}
	}
	return buf.ToColumn(), nil
}

func runSum(col *column.Column, workload colcalc.Workload, parallelism int) {
	ctx := newPoolContext(parallelism)
	calc := &sumCalculator{col: col}
	started := time.Now()
	total, err := colcalc.Execute[float64](calc, workload, nil, ctx)
	elapsed := time.Since(started)
	if err != nil {
		log.Fatalf("coltab-bench: sum benchmark failed: %v", err)
	}
	fmt.Printf("coltab-bench: sum over %d numeric rows = %.2f (%s)\n", col.Size(), total, elapsed)
}

func runHistogram(col *column.Column, workload colcalc.Workload, parallelism int) {
	ctx := newPoolContext(parallelism)
	calc := &histogramCalculator{col: col}
	started := time.Now()
	counts, err := colcalc.Execute[map[string]int64](calc, workload, nil, ctx)
	elapsed := time.Since(started)
	if err != nil {
		log.Fatalf("coltab-bench: histogram benchmark failed: %v", err)
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	top := keys
	if len(top) > 5 {
		top = top[:5]
	}
	fmt.Printf("coltab-bench: histogram over %d nominal rows, %d distinct categories (%s)\n", col.Size(), len(counts), elapsed)
	for _, k := range top {
		fmt.Printf("  %s: %d\n", k, counts[k])
	}
}
