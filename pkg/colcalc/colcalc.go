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

// Package colcalc defines the public contract a transformation implements
// to be dispatched by the adaptive parallel executor: the Calculator
// interface, the Workload tuning hint, and the caller-supplied execution
// Context. Execute is the single public entry point; the dispatch logic
// itself lives in internal/colexec.
package colcalc

import "coltab/internal/colexec"

// Calculator is the unit of transformation dispatched by Execute. R is the
// type assembled from per-partition work once every doPart call completes.
type Calculator[R any] interface {
	// Init is called exactly once, before any DoPart, with the precise
	// number of batches the executor will use.
	Init(numberOfBatches int)

	// NumberOfOperations returns the total number of rows to process.
	NumberOfOperations() int

	// DoPart processes the row range [from, to) under the given
	// batchIndex. batchIndex values are 0..numberOfBatches-1, unique per
	// call, but calls may arrive in any order and from any goroutine:
	// implementations that are not associatively commutative must use
	// per-batch slots keyed by batchIndex rather than a live accumulator.
	DoPart(from, to, batchIndex int) error

	// Result is called exactly once, after every DoPart has returned.
	Result() (R, error)
}

// Context is the caller-supplied execution environment: a bounded
// work-stealing pool in production, a synchronous stand-in in tests.
type Context interface {
	// IsActive reports whether the context still accepts work.
	IsActive() bool

	// Parallelism returns the number of workers Execute should target.
	Parallelism() int

	// Call blocks until every task has run (or the context decides not
	// to run the rest), returning the first task or scheduling error
	// encountered. A context that refuses to accept further work
	// returns a non-nil error without running every task.
	Call(tasks []func() error) error
}

// Workload hints at the size of the work a Calculator represents, which
// selects the threshold and batch size the executor dispatches at.
type Workload int

const (
	Small Workload = iota
	Medium
	Default
	Large
	Huge
)

func (w Workload) String() string {
	switch w {
	case Small:
		return "SMALL"
	case Medium:
		return "MEDIUM"
	case Default:
		return "DEFAULT"
	case Large:
		return "LARGE"
	case Huge:
		return "HUGE"
	default:
		return "UNKNOWN"
	}
}

// tuning holds the calibrated magic numbers spec §4.7 calls for: threshold
// and batchSize increase across the workload ordering, strictly except
// between Medium and Default, which share the same values.
type tuning struct {
	threshold int
	batchSize int
}

var tuningTable = [...]tuning{
	Small:   {threshold: 1_000, batchSize: 256},
	Medium:  {threshold: 4_000, batchSize: 1_024},
	Default: {threshold: 4_000, batchSize: 1_024},
	Large:   {threshold: 16_000, batchSize: 4_096},
	Huge:    {threshold: 64_000, batchSize: 16_384},
}

// Threshold returns the sub-threshold cutoff below which Execute runs
// sequentially rather than fanning work out.
func (w Workload) Threshold() int { return tuningTable[w].threshold }

// BatchSize returns the batch size used in batched dispatch mode.
func (w Workload) BatchSize() int { return tuningTable[w].batchSize }

// ThresholdFactorEqualParts governs the transition from equal-parts mode
// to batched mode: workloads with n <= BatchSize*ThresholdFactorEqualParts*parallelism
// are split into exactly Parallelism() equal parts rather than many
// fixed-size batches.
const ThresholdFactorEqualParts = 4

// Execute dispatches calc over ctx according to workload's tuning,
// choosing between sequential, equal-parts, and batched modes (spec
// §4.7). progress is invoked with a non-decreasing value in [0,1] at
// least once per completed batch; it is never called with 1.0 on an
// aborted run. The zero value of R is returned alongside a non-nil error
// on Aborted or wrapped UserCodeFailure.
func Execute[R any](calc Calculator[R], workload Workload, progress func(float64), ctx Context) (R, error) {
	var zero R
	params := colexec.Params{
		NumberOfOperations:        calc.NumberOfOperations(),
		Threshold:                 workload.Threshold(),
		BatchSize:                 workload.BatchSize(),
		ThresholdFactorEqualParts: ThresholdFactorEqualParts,
	}
	if err := colexec.Run(params, calc.Init, calc.DoPart, progress, ctx); err != nil {
		return zero, err
	}
	result, err := calc.Result()
	if err != nil {
		return zero, err
	}
	return result, nil
}
