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

package main

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// poolContext is the bounded goroutine-pool colcalc.Context this demo
// drives Execute with: one goroutine per task, capped at numWorkers in
// flight at a time. Cancel flips the context inactive; in-flight tasks
// still run to completion, matching the cooperative-cancellation
// contract colexec relies on.
type poolContext struct {
	numWorkers int
	active     atomic.Bool
}

func newPoolContext(numWorkers int) *poolContext {
	if numWorkers < 1 {
		numWorkers = 1
	}
	c := &poolContext{numWorkers: numWorkers}
	c.active.Store(true)
	return c
}

func (c *poolContext) IsActive() bool   { return c.active.Load() }
func (c *poolContext) Parallelism() int { return c.numWorkers }
func (c *poolContext) Cancel()          { c.active.Store(false) }

// Call runs every task, at most numWorkers concurrently, and returns the
// first error encountered (if any) once all tasks have returned.
func (c *poolContext) Call(tasks []func() error) error {
	if !c.active.Load() {
		return fmt.Errorf("coltab-bench: context is not active")
	}

	sem := make(chan struct{}, c.numWorkers)
	errs := make([]error, len(tasks))
	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, task := range tasks {
		sem <- struct{}{}
		go func(i int, task func() error) {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = task()
		}(i, task)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
