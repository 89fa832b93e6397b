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
	"math"

	"coltab/pkg/coltype"
	"coltab/pkg/column"
)

// NumericBuffer backs both REAL and INTEGER_53_BIT: they share the same
// double[] + NaN-is-missing physical layout, differing only in whether
// Set rounds finite values to the nearest integer (round-half-away-
// from-zero, per the INTEGER_53_BIT rounding rule). Concurrent Set
// calls to distinct indices are race free; there is no internal lock.
type NumericBuffer struct {
	frozenFlag
	typ     coltype.TypeId
	data    []float64
	rounded bool
}

// NewRealBuffer creates a REAL buffer of the given size. When initialize
// is true every position starts at NaN (missing); otherwise the caller
// must overwrite every position before freezing.
func NewRealBuffer(size int, initialize bool) (*NumericBuffer, error) {
	return newNumericBuffer(coltype.Real, size, initialize, false)
}

// NewInteger53BitBuffer creates an INTEGER_53_BIT buffer of the given size.
func NewInteger53BitBuffer(size int, initialize bool) (*NumericBuffer, error) {
	return newNumericBuffer(coltype.Integer53Bit, size, initialize, true)
}

func newNumericBuffer(typ coltype.TypeId, size int, initialize, rounded bool) (*NumericBuffer, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	data := make([]float64, size)
	if initialize {
		for i := range data {
			data[i] = math.NaN()
		}
	}
	return &NumericBuffer{typ: typ, data: data, rounded: rounded}, nil
}

func (b *NumericBuffer) Size() int { return len(b.data) }

// Set stores v at index i. For an INTEGER_53_BIT buffer, finite values
// are rounded half-away-from-zero; NaN and ±Inf are stored verbatim.
func (b *NumericBuffer) Set(i int, v float64) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if err := checkBounds(i, len(b.data)); err != nil {
		return err
	}
	if b.rounded && !math.IsNaN(v) && !math.IsInf(v, 0) {
		v = math.Round(v)
	}
	b.data[i] = v
	return nil
}

// Get returns the value at index i.
func (b *NumericBuffer) Get(i int) (float64, error) {
	if err := checkBounds(i, len(b.data)); err != nil {
		return 0, err
	}
	return b.data[i], nil
}

// ToColumn freezes the buffer into an immutable Column. Freezing is
// idempotent: a second call still returns a logically identical column;
// only subsequent mutators observe ErrBufferFrozen.
func (b *NumericBuffer) ToColumn() *column.Column {
	b.freeze()
	return column.NewDenseNumeric(b.typ, b.data)
}
