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

	"coltab/pkg/colerr"
	"coltab/pkg/coltype"
	"coltab/pkg/column"
)

const missingLong = column.MissingLong

// MaxNanosOfDay is the inclusive upper bound for a TIME buffer's
// nanoseconds-of-day value (spec invariant 8).
const MaxNanosOfDay = 86_399_999_999_999

// LongBuffer backs TIME (nanoseconds-of-day) and DATE_TIME-seconds-only
// dense columns: both are long[size] with a sentinel missing value,
// differing only in the range each accepts.
type LongBuffer struct {
	frozenFlag
	typ      coltype.TypeId
	data     []int64
	validate func(int64) error
}

// NewTimeBuffer creates a TIME buffer of the given size.
func NewTimeBuffer(size int, initialize bool) (*LongBuffer, error) {
	return newLongBuffer(coltype.Time, size, initialize, validateNanosOfDay)
}

// NewDateTimeSecBuffer creates a DATE_TIME buffer carrying epoch seconds
// only (no nanosecond component).
func NewDateTimeSecBuffer(size int, initialize bool) (*LongBuffer, error) {
	return newLongBuffer(coltype.DateTime, size, initialize, validateEpochSeconds)
}

func newLongBuffer(typ coltype.TypeId, size int, initialize bool, validate func(int64) error) (*LongBuffer, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	data := make([]int64, size)
	if initialize {
		for i := range data {
			data[i] = missingLong
		}
	}
	return &LongBuffer{typ: typ, data: data, validate: validate}, nil
}

func validateNanosOfDay(v int64) error {
	if v < 0 || v > MaxNanosOfDay {
		return fmt.Errorf("colbuf: nanos-of-day %d out of [0,%d]: %w", v, MaxNanosOfDay, colerr.ErrInvalidArgument)
	}
	return nil
}

// MinInstantSecond/MaxInstantSecond bound a DATE_TIME column's epoch
// seconds (spec invariant 7), mirroring java.time.Instant's range.
const (
	MinInstantSecond int64 = -31557014167219200
	MaxInstantSecond int64 = 31556889864403199
)

func validateEpochSeconds(v int64) error {
	if v < MinInstantSecond || v > MaxInstantSecond {
		return fmt.Errorf("colbuf: epoch seconds %d out of range: %w", v, colerr.ErrInvalidArgument)
	}
	return nil
}

func (b *LongBuffer) Size() int { return len(b.data) }

// Set stores v (or the missing sentinel) at index i.
func (b *LongBuffer) Set(i int, v int64) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if err := checkBounds(i, len(b.data)); err != nil {
		return err
	}
	if v != missingLong {
		if err := b.validate(v); err != nil {
			return err
		}
	}
	b.data[i] = v
	return nil
}

// SetMissing clears index i to the missing sentinel.
func (b *LongBuffer) SetMissing(i int) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if err := checkBounds(i, len(b.data)); err != nil {
		return err
	}
	b.data[i] = missingLong
	return nil
}

// Get returns the value at index i, and whether it is missing.
func (b *LongBuffer) Get(i int) (value int64, missing bool, err error) {
	if err := checkBounds(i, len(b.data)); err != nil {
		return 0, false, err
	}
	v := b.data[i]
	return v, v == missingLong, nil
}

// ToColumn freezes the buffer into an immutable Column.
func (b *LongBuffer) ToColumn() *column.Column {
	b.freeze()
	return column.NewDenseLong(b.typ, b.data)
}
