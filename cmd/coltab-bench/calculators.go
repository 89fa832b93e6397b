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
	"math"

	"coltab/pkg/colview"
	"coltab/pkg/column"
)

// sumCalculator sums a numeric column's non-missing (non-NaN) values. Per spec §4.6's
// commutativity caveat, each batch accumulates into its own slot rather
// than a shared running total, since doPart calls race across batches.
type sumCalculator struct {
	col   *column.Column
	slots []float64
}

func (c *sumCalculator) Init(numberOfBatches int) { c.slots = make([]float64, numberOfBatches) }
func (c *sumCalculator) NumberOfOperations() int  { return c.col.Size() }

func (c *sumCalculator) DoPart(from, to, batchIndex int) error {
	var row colview.NumericRow
	var sum float64
	for i := from; i < to; i++ {
		row.Index = i
		v, err := row.Get(c.col)
		if err != nil {
			return fmt.Errorf("sumCalculator: row %d: %w", i, err)
		}
		if !math.IsNaN(v) {
			sum += v
		}
	}
	c.slots[batchIndex] = sum
	return nil
}

func (c *sumCalculator) Result() (float64, error) {
	var total float64
	for _, s := range c.slots {
		total += s
	}
	return total, nil
}

// histogramCalculator counts occurrences of each decoded category value
// in a nominal column, one map per batch merged in Result.
type histogramCalculator struct {
	col   *column.Column
	slots []map[string]int64
}

func (c *histogramCalculator) Init(numberOfBatches int) {
	c.slots = make([]map[string]int64, numberOfBatches)
	for i := range c.slots {
		c.slots[i] = make(map[string]int64)
	}
}

func (c *histogramCalculator) NumberOfOperations() int { return c.col.Size() }

func (c *histogramCalculator) DoPart(from, to, batchIndex int) error {
	var row colview.CategoricalRow
	counts := c.slots[batchIndex]
	for i := from; i < to; i++ {
		row.Index = i
		v, err := row.Get(c.col)
		if err != nil {
			return fmt.Errorf("histogramCalculator: row %d: %w", i, err)
		}
		label, _ := v.(string)
		counts[label]++
	}
	return nil
}

func (c *histogramCalculator) Result() (map[string]int64, error) {
	total := make(map[string]int64)
	for _, counts := range c.slots {
		for label, n := range counts {
			total[label] += n
		}
	}
	return total, nil
}
