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

// Package colview provides the row-handle types a Calculator's DoPart
// closure uses to read columns at the row it currently holds, rather than
// re-deriving an offset on every column access. A row view is a plain
// value: constructing one costs nothing, and advancing it through a
// partition is just reassigning its Index field.
package colview

import (
	"fmt"

	"coltab/pkg/colerr"
	"coltab/pkg/column"
)

// NumericRow is a row handle for closures that only ever read
// numeric-readable columns.
type NumericRow struct {
	Index int
}

// Get returns col's numeric value at the row's current index.
func (r NumericRow) Get(col *column.Column) (float64, error) {
	return col.NumericAt(r.Index)
}

// CategoricalRow is a row handle for closures that only ever read the
// decoded object value of categorical (NOMINAL-family) columns.
type CategoricalRow struct {
	Index int
}

// Get returns col's decoded category value at the row's current index.
func (r CategoricalRow) Get(col *column.Column) (any, error) {
	return col.ObjectAt(r.Index)
}

// MixedRow is a row handle for closures reading a mix of numeric,
// categorical, and object-only columns within the same DoPart call.
type MixedRow struct {
	Index int
}

// GetNumeric returns col's numeric value at the row's current index.
func (r MixedRow) GetNumeric(col *column.Column) (float64, error) {
	return col.NumericAt(r.Index)
}

// GetIndex returns col's raw dictionary index at the row's current index.
// col must be a categorical (NOMINAL-family) column.
func (r MixedRow) GetIndex(col *column.Column) (int, error) {
	return col.IndexAt(r.Index)
}

// GetObject returns col's decoded object value at the row's current index.
func (r MixedRow) GetObject(col *column.Column) (any, error) {
	return col.ObjectAt(r.Index)
}

// ObjectAs returns col's decoded object value at row's current index,
// asserted to T. It is the generic counterpart to a getObject(col, cls)
// overload: Go type parameters stand in for the class token.
func ObjectAs[T any](row MixedRow, col *column.Column) (T, error) {
	var zero T
	v, err := col.ObjectAt(row.Index)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("colview: value %v (%T) is not assignable to %T: %w", v, v, zero, colerr.ErrColumnTypeMismatch)
	}
	return t, nil
}
