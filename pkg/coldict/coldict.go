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

// Package coldict provides a thread-safe, in-memory dictionary that
// interns distinct values into positive indices. Index 0 is always the
// missing-value sentinel. Value-to-index lookups never block; writers take a
// mutex only on the miss path and re-check under the lock (double-checked
// insertion) so two goroutines racing on the same new value never get two
// different indices for it.
package coldict

import (
	"fmt"
	"strconv"
	"sync"

	"coltab/internal/telemetry/execstats"
	"coltab/pkg/colerr"
	"coltab/pkg/coltype"
)

// Dictionary bidirectionally interns distinct non-nil values against
// positive indices. It is safe for concurrent use by multiple goroutines.
type Dictionary struct {
	format coltype.IndexFormat

	// index reads are lock-free via sync.Map; the mutex below serializes
	// only the allocation of a brand-new index on a miss.
	byValue sync.Map // map[any]int

	mu      sync.Mutex
	byIndex []any // byIndex[0] is always nil (the missing sentinel)
}

// New creates an empty Dictionary backed by the given IndexFormat.
func New(format coltype.IndexFormat) *Dictionary {
	return &Dictionary{
		format:  format,
		byIndex: []any{nil},
	}
}

// IndexFormat returns the format this dictionary was constructed with.
func (d *Dictionary) IndexFormat() coltype.IndexFormat { return d.format }

// Size returns the number of non-nil interned values.
func (d *Dictionary) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.byIndex) - 1
}

// Lookup returns the value at index, or nil for index 0 or an unused index.
func (d *Dictionary) Lookup(index int) any {
	d.mu.Lock()
	defer d.mu.Unlock()
	if index < 0 || index >= len(d.byIndex) {
		return nil
	}
	return d.byIndex[index]
}

// LookupValue returns the index interned for value, or -1 if never interned.
func (d *Dictionary) LookupValue(value any) int {
	if value == nil {
		return 0
	}
	if idx, ok := d.byValue.Load(value); ok {
		return idx.(int)
	}
	return -1
}

// Intern returns value's index, allocating a new one if value has never
// been seen before. Growth past the index format's maximal index returns
// an error wrapping ErrOverflow instead of allocating — callers that
// want to check ok/not-ok without the wrapped error's text should use
// TryIntern.
func (d *Dictionary) Intern(value any) (int, error) {
	idx, overflowed := d.tryIntern(value)
	if overflowed {
		execstats.RecordDictOverflow()
		return 0, fmt.Errorf("coldict: cannot intern beyond %s maximal index: %w", d.format, colerr.ErrOverflow)
	}
	return idx, nil
}

// TryIntern behaves like Intern but reports overflow instead of growing
// past IndexFormat.MaxValue(): ok is false when the cap would be exceeded
// and no new index is allocated.
func (d *Dictionary) TryIntern(value any) (index int, ok bool) {
	idx, overflowed := d.tryIntern(value)
	if overflowed {
		execstats.RecordDictOverflow()
	}
	return idx, !overflowed
}

// tryIntern is the shared fast-path/slow-path implementation.
func (d *Dictionary) tryIntern(value any) (index int, overflowed bool) {
	if value == nil {
		return 0, false
	}
	// Fast path: already interned, no lock needed.
	if idx, ok := d.byValue.Load(value); ok {
		return idx.(int), false
	}

	// Slow path: take the mutex and re-check (double-checked insertion)
	// so concurrent misses on the same new value don't allocate twice.
	d.mu.Lock()
	defer d.mu.Unlock()
	if idx, ok := d.byValue.Load(value); ok {
		return idx.(int), false
	}
	nextIndex := len(d.byIndex)
	if nextIndex > d.format.MaxValue() {
		return 0, true
	}
	d.byIndex = append(d.byIndex, value)
	d.byValue.Store(value, nextIndex)
	execstats.RecordDictIntern()
	return nextIndex, false
}

// MaximalIndex returns the highest index currently assigned, or 0 if empty.
func (d *Dictionary) MaximalIndex() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.byIndex) - 1
}

// Values returns a snapshot of the non-nil interned values in index order
// (index 1 first).
func (d *Dictionary) Values() []any {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]any, len(d.byIndex)-1)
	copy(out, d.byIndex[1:])
	return out
}

// Reintern builds a fresh Dictionary using the smallest IndexFormat that
// fits the current cardinality, returning the new dictionary and a
// mapping from old index to new index. This backs
// the "re-interning into a minimal format" round-trip described for
// buffer-from-column copies.
func (d *Dictionary) Reintern() (*Dictionary, map[int]int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	minimal := coltype.MinimalFormatFor(len(d.byIndex) - 1)
	fresh := New(minimal)
	remap := make(map[int]int, len(d.byIndex))
	remap[0] = 0
	for i := 1; i < len(d.byIndex); i++ {
		newIdx, _ := fresh.tryIntern(d.byIndex[i])
		remap[i] = newIdx
	}
	return fresh, remap
}

// String renders a short debug summary, not a full pretty-printed table.
func (d *Dictionary) String() string {
	return "Dictionary(format=" + d.format.String() + ", size=" + strconv.Itoa(d.Size()) + ")"
}
