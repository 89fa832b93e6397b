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
	"coltab/pkg/coldict"
	"coltab/pkg/colerr"
	"coltab/pkg/coltype"
	"coltab/pkg/column"
)

// SparseNominalBuffer backs a write-once, append-only sparse categorical
// column: a default value plus ascending (index, index-of-value)
// exceptions. A value equal to the default (by value-equality,
// null-safe) is not recorded as an exception — only the logical index
// advances — but it is still interned into the dictionary so later
// non-default writes of other values see a consistent index space.
type SparseNominalBuffer struct {
	mu           sync.Mutex
	size         int
	format       coltype.IndexFormat
	dict         *coldict.Dictionary
	defaultValue any
	defaultIndex int
	prevIndex    int
	indices      *arraybuilder.Builder[int]
	values       *arraybuilder.Builder[int]
	frozen       bool
}

// NewSparseNominalBuffer creates a sparse nominal buffer of the given
// size and IndexFormat, with defaultValue (possibly nil) as the implicit
// value of every unmentioned position.
func NewSparseNominalBuffer(format coltype.IndexFormat, size int, defaultValue any) (*SparseNominalBuffer, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	dict := coldict.New(format)
	defaultIndex, ok := dict.TryIntern(defaultValue)
	if !ok {
		return nil, fmt.Errorf("colbuf: default value overflows %s: %w", format, colerr.ErrOverflow)
	}
	return &SparseNominalBuffer{
		size: size, format: format, dict: dict, defaultValue: defaultValue, defaultIndex: defaultIndex, prevIndex: -1,
		indices: arraybuilder.New[int](64, 1.5, sparseChunkMax),
		values:  arraybuilder.New[int](64, 1.5, sparseChunkMax),
	}, nil
}

func (b *SparseNominalBuffer) Size() int                      { return b.size }
func (b *SparseNominalBuffer) Dictionary() *coldict.Dictionary { return b.dict }

func (b *SparseNominalBuffer) IsFrozen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frozen
}

// DifferentValues returns the number of distinct non-nil values seen,
// counting the default value only if it is itself non-nil (the open
// question in spec.md's Design Notes is resolved that way here).
func (b *SparseNominalBuffer) DifferentValues() int {
	// The default value is interned eagerly at construction (see
	// NewSparseNominalBuffer), so dict.Size() already counts it exactly
	// when it is non-nil — nil is never assigned an index.
	return b.dict.Size()
}

func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}

// SetNext records v at the next logical index, which must exceed every
// previously recorded index. Writing a value equal to the buffer's
// default does not create a non-default exception entry.
func (b *SparseNominalBuffer) SetNext(index int, v any) error {
	ok, err := b.setNext(index, v)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("colbuf: sparse nominal buffer at %s capacity, cannot intern new value: %w", b.format, colerr.ErrOverflow)
	}
	return nil
}

// SetNextSave behaves like SetNext but reports overflow via its bool
// return instead of an error.
func (b *SparseNominalBuffer) SetNextSave(index int, v any) (bool, error) {
	return b.setNext(index, v)
}

func (b *SparseNominalBuffer) setNext(index int, v any) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.frozen {
		return false, fmt.Errorf("colbuf: mutation after freeze: %w", colerr.ErrBufferFrozen)
	}
	if index <= b.prevIndex {
		return false, fmt.Errorf("colbuf: sparse index %d must exceed previous index %d: %w", index, b.prevIndex, colerr.ErrNonMonotonicSparseIndex)
	}
	if index < 0 || index >= b.size {
		return false, fmt.Errorf("colbuf: index %d out of [0,%d): %w", index, b.size, colerr.ErrIndexOutOfBounds)
	}
	if valuesEqual(v, b.defaultValue) {
		b.prevIndex = index
		return true, nil
	}
	idx, interned := b.dict.TryIntern(v)
	if !interned {
		return false, nil
	}
	b.indices.Append(index)
	b.values.Append(idx)
	b.prevIndex = index
	return true, nil
}

func (b *SparseNominalBuffer) storage() column.NominalSparseStorage {
	return column.NominalSparseStorage{
		Format: b.format, Size: b.size, DefaultIndex: b.defaultIndex,
		Indices: b.indices.Build(), Values: b.values.Build(),
	}
}

// ToColumn freezes the buffer into a plain (non-boolean) nominal Column.
func (b *SparseNominalBuffer) ToColumn() *column.Column {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frozen = true
	return column.NewSparseNominal(b.dict, b.storage(), false, coltype.NoEntry)
}

// ToBooleanColumn freezes the buffer into a boolean-tagged nominal
// Column, using the same positive-index rules as the dense NominalBuffer.
func (b *SparseNominalBuffer) ToBooleanColumn(positiveValue any) (*column.Column, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.dict.Size() > 2 {
		return nil, fmt.Errorf("colbuf: boolean column needs <=2 distinct values, got %d: %w", b.dict.Size(), colerr.ErrInvalidArgument)
	}
	positiveIndex := coltype.NoEntry
	if positiveValue == nil {
		if b.dict.Size() > 1 {
			return nil, fmt.Errorf("colbuf: nil positive value requires <=1 distinct value, got %d: %w", b.dict.Size(), colerr.ErrInvalidArgument)
		}
	} else {
		idx := b.dict.LookupValue(positiveValue)
		if idx <= 0 {
			return nil, fmt.Errorf("colbuf: positive value %v not present in dictionary: %w", positiveValue, colerr.ErrInvalidArgument)
		}
		positiveIndex = idx
	}
	b.frozen = true
	return column.NewSparseNominal(b.dict, b.storage(), true, positiveIndex), nil
}
