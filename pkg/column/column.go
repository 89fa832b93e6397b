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

// Package column implements the immutable, sealed Column: the product of
// freezing exactly one buffer. A Column's type, size, and dictionary (if
// any) never change after construction, and every accessor is read-only
// and safe for unsynchronized concurrent reads — there is nothing left
// to race on once a Column is published.
package column

import (
	"fmt"
	"math"

	"coltab/pkg/coldict"
	"coltab/pkg/coltype"
)

// storageKind tags which physical layout backs a Column.
type storageKind int

const (
	kindDenseNumeric storageKind = iota
	kindDenseLong
	kindDenseDateTimeNano
	kindDenseNominal
	kindDenseObject
	kindSparseNumeric
	kindSparseLong
	kindSparseDateTime
	kindSparseNominal
)

// Column is the immutable, typed, fixed-length vector backing a table's
// field. Exactly one of the storage groups below is populated, selected
// by kind.
type Column struct {
	typ  coltype.TypeId
	size int
	kind storageKind

	// dense numeric (REAL, INTEGER_53_BIT)
	numeric []float64

	// dense long (TIME, DATE_TIME seconds-only)
	long []int64

	// dense datetime-nano
	seconds []int64
	nanos   []int32

	// dense nominal
	format  coltype.IndexFormat
	packed  []byte // U2/U4/U8 packing
	shorts  []uint16
	ints    []int32

	// dense object
	objects []any

	// sparse (shared shape across numeric/long/datetime/nominal kinds)
	defaultNumeric float64
	defaultLong    int64
	defaultNanos   int32
	defaultIndex   int
	indices        []int
	sparseNumeric  []float64
	sparseLong     []int64
	sparseNanos    []int32
	sparseFormat   []int // nominal sparse values, stored widened to int regardless of format

	dict          *coldict.Dictionary
	isBoolean     bool
	positiveIndex int
}

// Type returns the column's logical element type.
func (c *Column) Type() coltype.TypeId { return c.typ }

// Size returns the number of logical rows.
func (c *Column) Size() int { return c.size }

// GetDictionary returns the nominal dictionary, or nil for non-nominal columns.
func (c *Column) GetDictionary() *coldict.Dictionary { return c.dict }

// GetFormat returns the nominal IndexFormat, or -1 for non-nominal columns.
func (c *Column) GetFormat() coltype.IndexFormat {
	if c.kind != kindDenseNominal && c.kind != kindSparseNominal {
		return -1
	}
	return c.format
}

// IsBoolean reports whether this nominal column carries boolean
// positive-index metadata.
func (c *Column) IsBoolean() bool { return c.isBoolean }

// GetPositiveIndex returns the boolean positive index, or
// coltype.NoEntry if this is not a boolean column or has no positive value.
func (c *Column) GetPositiveIndex() int {
	if !c.isBoolean {
		return coltype.NoEntry
	}
	return c.positiveIndex
}

func (c *Column) isSparse() bool {
	switch c.kind {
	case kindSparseNumeric, kindSparseLong, kindSparseDateTime, kindSparseNominal:
		return true
	default:
		return false
	}
}

func (c *Column) sparseValueAt(i int) (pos int, found bool) {
	// indices are strictly increasing; binary search.
	lo, hi := 0, len(c.indices)
	for lo < hi {
		mid := (lo + hi) / 2
		if c.indices[mid] < i {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(c.indices) && c.indices[lo] == i {
		return lo, true
	}
	return 0, false
}

// Fill materializes the numeric view of the column into dst starting at
// offset. The column must have the NumericReadable capability.
func (c *Column) Fill(dst []float64, offset int) error {
	if !c.typ.Is(coltype.NumericReadable) {
		return fmt.Errorf("column: %s is not numeric-readable", c.typ)
	}
	switch c.kind {
	case kindDenseNumeric:
		copy(dst[offset:], c.numeric)
	case kindDenseLong:
		for i, v := range c.long {
			dst[offset+i] = longToNumeric(v)
		}
	case kindDenseDateTimeNano:
		for i, s := range c.seconds {
			dst[offset+i] = longToNumeric(s)
		}
	case kindDenseNominal:
		for i := 0; i < c.size; i++ {
			dst[offset+i] = float64(c.nominalIndexAt(i))
		}
	case kindSparseNumeric:
		c.fillSparse(dst, offset, c.defaultNumeric, func(pos int) float64 { return c.sparseNumeric[pos] })
	case kindSparseLong:
		c.fillSparse(dst, offset, longToNumeric(c.defaultLong), func(pos int) float64 { return longToNumeric(c.sparseLong[pos]) })
	case kindSparseDateTime:
		c.fillSparse(dst, offset, longToNumeric(c.defaultLong), func(pos int) float64 { return longToNumeric(c.sparseLong[pos]) })
	case kindSparseNominal:
		c.fillSparse(dst, offset, float64(c.defaultIndex), func(pos int) float64 { return float64(c.sparseFormat[pos]) })
	default:
		return fmt.Errorf("column: %s has no numeric fill path", c.typ)
	}
	return nil
}

// NumericAt returns the numeric view of row i, the single-row counterpart
// to Fill used by row views that walk a column one index at a time.
func (c *Column) NumericAt(i int) (float64, error) {
	if !c.typ.Is(coltype.NumericReadable) {
		return 0, fmt.Errorf("column: %s is not numeric-readable", c.typ)
	}
	switch c.kind {
	case kindDenseNumeric:
		return c.numeric[i], nil
	case kindDenseLong:
		return longToNumeric(c.long[i]), nil
	case kindDenseDateTimeNano:
		return longToNumeric(c.seconds[i]), nil
	case kindDenseNominal:
		return float64(c.nominalIndexAt(i)), nil
	case kindSparseNumeric:
		if pos, ok := c.sparseValueAt(i); ok {
			return c.sparseNumeric[pos], nil
		}
		return c.defaultNumeric, nil
	case kindSparseLong, kindSparseDateTime:
		if pos, ok := c.sparseValueAt(i); ok {
			return longToNumeric(c.sparseLong[pos]), nil
		}
		return longToNumeric(c.defaultLong), nil
	case kindSparseNominal:
		if pos, ok := c.sparseValueAt(i); ok {
			return float64(c.sparseFormat[pos]), nil
		}
		return float64(c.defaultIndex), nil
	default:
		return 0, fmt.Errorf("column: %s has no numeric fill path", c.typ)
	}
}

// IndexAt returns the raw dictionary index of row i. The column must be
// NOMINAL (or boolean, which is NOMINAL with two entries).
func (c *Column) IndexAt(i int) (int, error) {
	switch c.kind {
	case kindDenseNominal:
		return c.nominalIndexAt(i), nil
	case kindSparseNominal:
		if pos, ok := c.sparseValueAt(i); ok {
			return c.sparseFormat[pos], nil
		}
		return c.defaultIndex, nil
	default:
		return 0, fmt.Errorf("column: %s is not a categorical column", c.typ)
	}
}

// ObjectAt returns the object view of row i, the single-row counterpart
// to FillObject.
func (c *Column) ObjectAt(i int) (any, error) {
	if !c.typ.Is(coltype.ObjectReadable) {
		return nil, fmt.Errorf("column: %s is not object-readable", c.typ)
	}
	switch c.kind {
	case kindDenseObject:
		return c.objects[i], nil
	case kindDenseNominal:
		return c.dict.Lookup(c.nominalIndexAt(i)), nil
	case kindSparseNominal:
		if pos, ok := c.sparseValueAt(i); ok {
			return c.dict.Lookup(c.sparseFormat[pos]), nil
		}
		return c.dict.Lookup(c.defaultIndex), nil
	case kindDenseDateTimeNano:
		return c.seconds[i], nil
	default:
		return nil, fmt.Errorf("column: %s has no object fill path", c.typ)
	}
}

func (c *Column) fillSparse(dst []float64, offset int, def float64, at func(pos int) float64) {
	for i := 0; i < c.size; i++ {
		if pos, ok := c.sparseValueAt(i); ok {
			dst[offset+i] = at(pos)
		} else {
			dst[offset+i] = def
		}
	}
}

func longToNumeric(v int64) float64 {
	if v == missingLongSentinel {
		return math.NaN()
	}
	return float64(v)
}

const missingLongSentinel = math.MinInt64

func (c *Column) nominalIndexAt(i int) int {
	switch c.format {
	case coltype.U2:
		return int(readU2(c.packed, i))
	case coltype.U4:
		return int(readU4(c.packed, i))
	case coltype.U8:
		return int(c.packed[i])
	case coltype.U16:
		return int(c.shorts[i])
	default:
		return int(c.ints[i])
	}
}

func readU2(b []byte, i int) byte { return (b[i/4] >> uint(2*(i%4))) & 0x3 }
func readU4(b []byte, i int) byte { return (b[i/2] >> uint(4*(i%2))) & 0xF }

// FillObject materializes the object view of the column into dst.
func (c *Column) FillObject(dst []any, offset int) error {
	if !c.typ.Is(coltype.ObjectReadable) {
		return fmt.Errorf("column: %s is not object-readable", c.typ)
	}
	switch c.kind {
	case kindDenseObject:
		copy(dst[offset:], c.objects)
	case kindDenseNominal:
		for i := 0; i < c.size; i++ {
			dst[offset+i] = c.dict.Lookup(c.nominalIndexAt(i))
		}
	case kindSparseNominal:
		for i := 0; i < c.size; i++ {
			if pos, ok := c.sparseValueAt(i); ok {
				dst[offset+i] = c.dict.Lookup(c.sparseFormat[pos])
			} else {
				dst[offset+i] = c.dict.Lookup(c.defaultIndex)
			}
		}
	case kindDenseDateTimeNano:
		for i := range c.seconds {
			dst[offset+i] = c.seconds[i]
		}
	default:
		return fmt.Errorf("column: %s has no object fill path", c.typ)
	}
	return nil
}

// FillSecondsIntoArray materializes the epoch-seconds component of a
// DATE_TIME column.
func (c *Column) FillSecondsIntoArray(dst []int64, offset int) error {
	switch c.kind {
	case kindDenseDateTimeNano:
		copy(dst[offset:], c.seconds)
	case kindDenseLong:
		copy(dst[offset:], c.long)
	case kindSparseDateTime, kindSparseLong:
		for i := 0; i < c.size; i++ {
			if pos, ok := c.sparseValueAt(i); ok {
				dst[offset+i] = c.sparseLong[pos]
			} else {
				dst[offset+i] = c.defaultLong
			}
		}
	default:
		return fmt.Errorf("column: %s has no seconds component", c.typ)
	}
	return nil
}

// FillNanosIntoArray materializes the nanosecond-of-second component of a
// DATE_TIME-with-nanos column.
func (c *Column) FillNanosIntoArray(dst []int32, offset int) error {
	switch c.kind {
	case kindDenseDateTimeNano:
		copy(dst[offset:], c.nanos)
	case kindSparseDateTime:
		for i := 0; i < c.size; i++ {
			if pos, ok := c.sparseValueAt(i); ok {
				dst[offset+i] = c.sparseNanos[pos]
			} else {
				dst[offset+i] = c.defaultNanos
			}
		}
	default:
		return fmt.Errorf("column: %s has no nanosecond component", c.typ)
	}
	return nil
}

// String renders a short debug summary: type, size, and (for nominal
// columns) dictionary cardinality. Not a formatted table — pretty-
// printing the column's rows is explicitly out of this module's scope.
func (c *Column) String() string {
	if c.dict != nil {
		return fmt.Sprintf("Column(%s, size=%d, dict=%d)", c.typ, c.size, c.dict.Size())
	}
	return fmt.Sprintf("Column(%s, size=%d)", c.typ, c.size)
}
