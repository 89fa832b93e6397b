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

// Package colexec implements the adaptive parallel dispatch loop behind
// pkg/colcalc.Execute: sequential, equal-parts, and batched modes chosen
// from a row count, a workload's tuning, and the context's parallelism.
//
// This package never imports pkg/colcalc — it is wired to the public
// Calculator/Context contract structurally, through Init/DoPart closures
// and a same-shaped Context interface, to keep pkg/colcalc -> colexec a
// one-directional dependency (the friend-package sharing spec §9 asks
// for, without a visibility-workaround static-init dance).
package colexec

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"coltab/internal/telemetry/execstats"
	"coltab/pkg/colerr"
	"coltab/pkg/packedint"
)

// Context mirrors pkg/colcalc.Context structurally so values of that
// public type satisfy this one without colexec importing colcalc.
type Context interface {
	IsActive() bool
	Parallelism() int
	Call(tasks []func() error) error
}

// Params carries the per-call tuning values derived from a Workload.
type Params struct {
	NumberOfOperations        int
	Threshold                 int
	BatchSize                 int
	ThresholdFactorEqualParts int
}

const alignment = 4

// Run dispatches init/doPart over [0, params.NumberOfOperations) according
// to the mode decision in spec §4.7, reporting progress and honoring ctx's
// cancellation.
func Run(params Params, init func(int), doPart func(from, to, batchIndex int) error, progress func(float64), ctx Context) error {
	n := params.NumberOfOperations

	if !ctx.IsActive() {
		execstats.RecordAbort()
		return fmt.Errorf("colexec: context inactive at entry: %w", colerr.ErrAborted)
	}

	if n == 0 {
		init(1)
		execstats.RecordMode("sequential-empty")
		if err := runPart(doPart, 0, 0, 0); err != nil {
			execstats.RecordUserFailure()
			return fmt.Errorf("colexec: doPart(0,0,0) failed: %w: %w", colerr.ErrUserCodeFailure, err)
		}
		reportProgress(progress, 1.0)
		return nil
	}

	p := ctx.Parallelism()
	if p < 1 {
		p = 1
	}
	t, b, f := params.Threshold, params.BatchSize, params.ThresholdFactorEqualParts

	switch {
	case n < t*p:
		return runSequential(n, init, doPart, progress)
	case n <= b*f*p:
		return runEqualParts(n, p, init, doPart, progress, ctx)
	default:
		return runBatched(n, b, p, init, doPart, progress, ctx)
	}
}

func runPart(doPart func(from, to, batchIndex int) error, from, to, batchIndex int) (err error) {
	started := time.Now()
	defer func() { execstats.RecordBatch(time.Since(started)) }()
	return doPart(from, to, batchIndex)
}

func runSequential(n int, init func(int), doPart func(from, to, batchIndex int) error, progress func(float64)) error {
	execstats.RecordMode("sequential")
	init(1)
	if err := runPart(doPart, 0, n, 0); err != nil {
		execstats.RecordUserFailure()
		return fmt.Errorf("colexec: doPart(0,%d,0) failed: %w: %w", n, colerr.ErrUserCodeFailure, err)
	}
	reportProgress(progress, 1.0)
	return nil
}

// equalPartBoundaries splits [0,n) into numBatches contiguous chunks: the
// provisional chunk sizes differ by at most one, and every provisional
// split point but the last is rounded up to the nearest multiple of 4
// (clamped to n), so the final chunks can be unequal or even empty.
func equalPartBoundaries(n, numBatches int) []int {
	bounds := make([]int, 0, numBatches+1)
	bounds = append(bounds, 0)
	base := n / numBatches
	rem := n % numBatches
	prov := 0
	pos := 0
	for i := 0; i < numBatches; i++ {
		size := base
		if i < rem {
			size++
		}
		prov += size
		if i == numBatches-1 {
			pos = n
		} else {
			pos = packedint.AlignedBlockStart(prov, alignment)
			if pos > n {
				pos = n
			}
		}
		bounds = append(bounds, pos)
	}
	return bounds
}

func runEqualParts(n, p int, init func(int), doPart func(from, to, batchIndex int) error, progress func(float64), ctx Context) error {
	execstats.RecordMode("equal-parts")
	numBatches := p
	if n < numBatches {
		numBatches = n
	}
	bounds := equalPartBoundaries(n, numBatches)
	// Rounding can collapse trailing partitions to zero width; drop them
	// so batchIndex stays dense and init sees the batch count it gets.
	actual := 0
	for i := 0; i < numBatches; i++ {
		if bounds[i+1] > bounds[i] || i == 0 {
			actual++
		}
	}
	init(actual)

	var mu sync.Mutex
	var firstErr error
	var userFailure bool
	var done atomic.Int64
	record := func(err error, isUserCode bool) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			userFailure = isUserCode
		}
	}

	tasks := make([]func() error, 0, actual)
	batchIndex := 0
	for i := 0; i < numBatches; i++ {
		from, to := bounds[i], bounds[i+1]
		if to <= from && i != 0 {
			continue
		}
		bi := batchIndex
		batchIndex++
		tasks = append(tasks, func() error {
			if err := runPart(doPart, from, to, bi); err != nil {
				record(err, true)
				return err
			}
			reportProgress(progress, float64(done.Add(1))/float64(actual))
			return nil
		})
	}

	callErr := ctx.Call(tasks)
	return finish(callErr, firstErr, userFailure)
}

func runBatched(n, batchSize, p int, init func(int), doPart func(from, to, batchIndex int) error, progress func(float64), ctx Context) error {
	execstats.RecordMode("batched")
	bounds := []int{0}
	pos := 0
	for pos < n {
		next := pos + batchSize
		if next >= n {
			next = n
		} else {
			next = packedint.AlignedBlockStart(next, alignment)
			if next > n {
				next = n
			}
			if next <= pos {
				next = n
			}
		}
		bounds = append(bounds, next)
		pos = next
	}
	numBatches := len(bounds) - 1
	init(numBatches)

	var mu sync.Mutex
	var firstErr error
	var userFailure bool
	var done atomic.Int64
	record := func(err error, isUserCode bool) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
			userFailure = isUserCode
		}
	}

	var nextBatch atomic.Int64
	workers := p
	if workers > numBatches {
		workers = numBatches
	}
	if workers < 1 {
		workers = 1
	}

	tasks := make([]func() error, workers)
	for w := 0; w < workers; w++ {
		tasks[w] = func() error {
			for {
				if !ctx.IsActive() {
					return nil
				}
				bi := int(nextBatch.Add(1)) - 1
				if bi >= numBatches {
					return nil
				}
				mu.Lock()
				abort := firstErr != nil
				mu.Unlock()
				if abort {
					return nil
				}
				from, to := bounds[bi], bounds[bi+1]
				if err := runPart(doPart, from, to, bi); err != nil {
					record(err, true)
					return err
				}
				reportProgress(progress, float64(done.Add(1))/float64(numBatches))
			}
		}
	}

	callErr := ctx.Call(tasks)
	if err := finish(callErr, firstErr, userFailure); err != nil {
		return err
	}
	if !ctx.IsActive() {
		execstats.RecordAbort()
		return fmt.Errorf("colexec: context went inactive mid-execution: %w", colerr.ErrAborted)
	}
	return nil
}

func finish(callErr, firstErr error, userFailure bool) error {
	if firstErr != nil {
		execstats.RecordUserFailure()
		return fmt.Errorf("colexec: doPart failed: %w: %w", colerr.ErrUserCodeFailure, firstErr)
	}
	if callErr != nil {
		if userFailure {
			return fmt.Errorf("colexec: doPart failed: %w: %w", colerr.ErrUserCodeFailure, callErr)
		}
		execstats.RecordAbort()
		return fmt.Errorf("colexec: context rejected work: %w: %w", colerr.ErrAborted, callErr)
	}
	return nil
}

func reportProgress(progress func(float64), v float64) {
	if progress != nil {
		progress(v)
	}
}
