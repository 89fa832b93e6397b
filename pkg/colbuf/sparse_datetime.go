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
	"coltab/pkg/column"
)

// SparseDateTimeBuffer backs a write-once, append-only sparse DATE_TIME
// column carrying both epoch seconds and a nanosecond-of-second
// component.
type SparseDateTimeBuffer struct {
	mu                     sync.Mutex
	size                   int
	defaultSeconds         int64
	defaultNanos           int32
	prevIndex              int
	indices                *arraybuilder.Builder[int]
	seconds                *arraybuilder.Builder[int64]
	nanos                  *arraybuilder.Builder[int32]
	frozen                 bool
}

// NewSparseDateTimeBuffer creates a sparse DATE_TIME-with-nanos buffer.
func NewSparseDateTimeBuffer(size int, defaultSeconds int64, defaultNanos int32) (*SparseDateTimeBuffer, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	if defaultSeconds != missingLong {
		if err := validateEpochSeconds(defaultSeconds); err != nil {
			return nil, err
		}
		if defaultNanos < 0 || defaultNanos > 999_999_999 {
			return nil, fmt.Errorf("colbuf: default nanosecond component %d out of [0,999999999]: %w", defaultNanos, colerr.ErrInvalidArgument)
		}
	}
	return &SparseDateTimeBuffer{
		size: size, defaultSeconds: defaultSeconds, defaultNanos: defaultNanos, prevIndex: -1,
		indices: arraybuilder.New[int](64, 1.5, sparseChunkMax),
		seconds: arraybuilder.New[int64](64, 1.5, sparseChunkMax),
		nanos:   arraybuilder.New[int32](64, 1.5, sparseChunkMax),
	}, nil
}

func (b *SparseDateTimeBuffer) Size() int { return b.size }
func (b *SparseDateTimeBuffer) IsFrozen() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frozen
}

// SetNext records seconds/nanos at the next logical index, which must
// exceed every previously recorded index.
func (b *SparseDateTimeBuffer) SetNext(index int, seconds int64, nanos int32) error {
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
	if seconds != missingLong {
		if err := validateEpochSeconds(seconds); err != nil {
			return err
		}
		if nanos < 0 || nanos > 999_999_999 {
			return fmt.Errorf("colbuf: nanosecond component %d out of [0,999999999]: %w", nanos, colerr.ErrInvalidArgument)
		}
	}
	b.indices.Append(index)
	b.seconds.Append(seconds)
	b.nanos.Append(nanos)
	b.prevIndex = index
	return nil
}

// ToColumn freezes the buffer.
func (b *SparseDateTimeBuffer) ToColumn() *column.Column {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frozen = true
	indices := b.indices.Build()
	seconds := b.seconds.Build()
	nanos := b.nanos.Build()
	return column.NewSparseDateTime(b.size, b.defaultSeconds, b.defaultNanos, indices, seconds, nanos)
}
