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

package colbuf

import (
	"fmt"
	"math"
	"sync"

	"coltab/pkg/arraybuilder"
	"coltab/pkg/colerr"
	"coltab/pkg/coltype"
	"coltab/pkg/column"
)

// sparseChunkMax caps the largest live chunk allocation a sparse
// buffer's builders may hold at once, at roughly 1% of a typical large
// (million-row) buffer; small buffers simply never reach the cap.
const sparseChunkMax = 1 << 14

// SparseNumericBuffer backs a write-once, append-only sparse REAL or
// INTEGER_53_BIT column: a default value plus ascending (index, value)
// exceptions. SetNext calls are serialized by an internal mutex;
// callers must supply strictly increasing indices.
type SparseNumericBuffer struct {
	mu           sync.Mutex
	typ          coltype.TypeId
	size         int
	defaultValue float64
	rounded      bool
	prevIndex    int
	indices      *arraybuilder.Builder[int]
	values       *arraybuilder.Builder[float64]
	frozen       bool
}

// NewSparseRealBuffer creates a sparse REAL buffer of the given logical size.
func NewSparseRealBuffer(size int, defaultValue float64) (*SparseNumericBuffer, error) {
	return newSparseNumericBuffer(coltype.Real, size, defaultValue, false)
}

// NewSparseInteger53BitBuffer creates a sparse INTEGER_53_BIT buffer.
func NewSparseInteger53BitBuffer(size int, defaultValue float64) (*SparseNumericBuffer, error) {
	return newSparseNumericBuffer(coltype.Integer53Bit, size, defaultValue, true)
}

func newSparseNumericBuffer(typ coltype.TypeId, size int, defaultValue float64, rounded bool) (*SparseNumericBuffer, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	if rounded && !math.IsNaN(defaultValue) && !math.IsInf(defaultValue, 0) {
		defaultValue = math.Round(defaultValue)
	}
	return &SparseNumericBuffer{
		typ: typ, size: size, defaultValue: defaultValue, rounded: rounded, prevIndex: -1,
		indices: arraybuilder.New[int](64, 1.5, sparseChunkMax),
		values:  arraybuilder.New[float64](64, 1.5, sparseChunkMax),
	}, nil
}

func (b *SparseNumericBuffer) Size() int { return b.size }
func (b *SparseNumericBuffer) IsFrozen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frozen
}

// SetNext records v at the next logical index, which must exceed every
// previously recorded index.
func (b *SparseNumericBuffer) SetNext(index int, v float64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frozen {
		return fmt.Errorf("colbuf: mutation after freeze: %w", colerr.ErrBufferFrozen)
	}
	if index <= b.prevIndex {
		return fmt.Errorf("colbuf: sparse index %d must exceed previous index %d: %w", index, b.prevIndex, colerr.ErrNonMonotonicSparseIndex)
	}
	if index < 0 || index >= b.size {
		return fmt.Errorf("colbuf: index %d out of [0,%d): %w", index, b.size, colerr.ErrIndexOutOfBounds)
	}
	if b.rounded && !math.IsNaN(v) && !math.IsInf(v, 0) {
		v = math.Round(v)
	}
	b.indices.Append(index)
	b.values.Append(v)
	b.prevIndex = index
	return nil
}

// ToColumn freezes the buffer, concatenating the chunked builders into
// contiguous index/value arrays and releasing them.
func (b *SparseNumericBuffer) ToColumn() *column.Column {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frozen = true
	indices := b.indices.Build()
	values := b.values.Build()
	return column.NewSparseNumeric(b.typ, b.size, b.defaultValue, indices, values)
}
