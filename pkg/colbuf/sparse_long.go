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
	"sync"

	"coltab/pkg/arraybuilder"
	"coltab/pkg/colerr"
	"coltab/pkg/coltype"
	"coltab/pkg/column"
)

// SparseLongBuffer backs a write-once, append-only sparse TIME or
// DATE_TIME-seconds-only column.
type SparseLongBuffer struct {
	mu           sync.Mutex
	typ          coltype.TypeId
	size         int
	defaultValue int64
	validate     func(int64) error
	prevIndex    int
	indices      *arraybuilder.Builder[int]
	values       *arraybuilder.Builder[int64]
	frozen       bool
}

// NewSparseTimeBuffer creates a sparse TIME buffer.
func NewSparseTimeBuffer(size int, defaultValue int64) (*SparseLongBuffer, error) {
	return newSparseLongBuffer(coltype.Time, size, defaultValue, validateNanosOfDay)
}

// NewSparseDateTimeSecBuffer creates a sparse DATE_TIME-seconds-only buffer.
func NewSparseDateTimeSecBuffer(size int, defaultValue int64) (*SparseLongBuffer, error) {
	return newSparseLongBuffer(coltype.DateTime, size, defaultValue, validateEpochSeconds)
}

func newSparseLongBuffer(typ coltype.TypeId, size int, defaultValue int64, validate func(int64) error) (*SparseLongBuffer, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	if defaultValue != missingLong {
		if err := validate(defaultValue); err != nil {
			return nil, err
		}
	}
	return &SparseLongBuffer{
		typ: typ, size: size, defaultValue: defaultValue, validate: validate, prevIndex: -1,
		indices: arraybuilder.New[int](64, 1.5, sparseChunkMax),
		values:  arraybuilder.New[int64](64, 1.5, sparseChunkMax),
	}, nil
}

func (b *SparseLongBuffer) Size() int { return b.size }
func (b *SparseLongBuffer) IsFrozen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frozen
}

// SetNext records v at the next logical index, which must exceed every
// previously recorded index.
func (b *SparseLongBuffer) SetNext(index int, v int64) error {
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
	if v != missingLong {
		if err := b.validate(v); err != nil {
			return err
		}
	}
	b.indices.Append(index)
	b.values.Append(v)
	b.prevIndex = index
	return nil
}

// ToColumn freezes the buffer.
func (b *SparseLongBuffer) ToColumn() *column.Column {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frozen = true
	indices := b.indices.Build()
	values := b.values.Build()
	return column.NewSparseLong(b.typ, b.size, b.defaultValue, indices, values)
}
