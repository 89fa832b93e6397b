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

	"coltab/pkg/colerr"
	"coltab/pkg/coltype"
	"coltab/pkg/column"
)

// CopyBuffer constructs a fresh, mutable buffer whose contents match an
// existing immutable column — "a buffer may also be constructed by
// copying an existing column" (spec §3's lifecycle note, promoted here
// to a named operation).
func CopyBuffer(col *column.Column) (Buffer, error) {
	switch {
	case col.Type().Equal(coltype.Real):
		dst := make([]float64, col.Size())
		if err := col.Fill(dst, 0); err != nil {
			return nil, err
		}
		buf, err := NewRealBuffer(col.Size(), false)
		if err != nil {
			return nil, err
		}
		for i, v := range dst {
			if err := buf.Set(i, v); err != nil {
				return nil, err
			}
		}
		return buf, nil

	case col.Type().Equal(coltype.Integer53Bit):
		return NewInteger53BitBufferFromColumn(col)

	case col.Type().Equal(coltype.Time):
		return copyLongBuffer(col, NewTimeBuffer)

	case col.Type().Equal(coltype.DateTime):
		return copyDateTimeBuffer(col)

	case col.Type().Equal(coltype.Nominal):
		return copyNominalBuffer(col)

	default:
		dst := make([]any, col.Size())
		if err := col.FillObject(dst, 0); err != nil {
			return nil, err
		}
		buf, err := NewObjectBuffer(col.Type(), col.Size())
		if err != nil {
			return nil, err
		}
		for i, v := range dst {
			if err := buf.Set(i, v); err != nil {
				return nil, err
			}
		}
		return buf, nil
	}
}

func copyLongBuffer(col *column.Column, newBuf func(int, bool) (*LongBuffer, error)) (Buffer, error) {
	dst := make([]int64, col.Size())
	if err := col.FillSecondsIntoArray(dst, 0); err != nil {
		return nil, err
	}
	buf, err := newBuf(col.Size(), false)
	if err != nil {
		return nil, err
	}
	for i, v := range dst {
		if err := buf.Set(i, v); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func copyDateTimeBuffer(col *column.Column) (Buffer, error) {
	seconds := make([]int64, col.Size())
	if err := col.FillSecondsIntoArray(seconds, 0); err != nil {
		return nil, err
	}
	nanos := make([]int32, col.Size())
	if err := col.FillNanosIntoArray(nanos, 0); err != nil {
		// Seconds-only DATE_TIME column: fall back to the long buffer shape.
		return copyLongBuffer(col, NewDateTimeSecBuffer)
	}
	buf, err := NewDateTimeNanoBuffer(col.Size(), false)
	if err != nil {
		return nil, err
	}
	for i := range seconds {
		if seconds[i] == missingLong {
			if err := buf.SetMissing(i); err != nil {
				return nil, err
			}
			continue
		}
		if err := buf.Set(i, seconds[i], nanos[i]); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func copyNominalBuffer(col *column.Column) (Buffer, error) {
	dict := col.GetDictionary()
	if dict == nil {
		return nil, fmt.Errorf("colbuf: nominal column has no dictionary: %w", colerr.ErrColumnTypeMismatch)
	}
	dst := make([]any, col.Size())
	if err := col.FillObject(dst, 0); err != nil {
		return nil, err
	}
	buf, err := NewNominalBuffer(dict.IndexFormat(), col.Size())
	if err != nil {
		return nil, err
	}
	for i, v := range dst {
		if err := buf.Set(i, v); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// NewInteger53BitBufferFromColumn copies an arbitrary numeric-readable
// column into an INTEGER_53_BIT buffer. If the source is not already
// rounded — i.e. not INTEGER_53_BIT, TIME, or CATEGORICAL — every finite
// element is rounded half-away-from-zero on the way in, per spec §4.4.
func NewInteger53BitBufferFromColumn(col *column.Column) (*NumericBuffer, error) {
	if !col.Type().Is(coltype.NumericReadable) {
		return nil, fmt.Errorf("colbuf: %s is not numeric-readable: %w", col.Type(), colerr.ErrUnsupportedCapability)
	}
	alreadyRounded := col.Type().Equal(coltype.Integer53Bit) ||
		col.Type().Equal(coltype.Time) ||
		col.Type().Category() == coltype.Categorical

	dst := make([]float64, col.Size())
	if err := col.Fill(dst, 0); err != nil {
		return nil, err
	}
	buf, err := NewInteger53BitBuffer(col.Size(), false)
	if err != nil {
		return nil, err
	}
	for i, v := range dst {
		if !alreadyRounded && !math.IsNaN(v) && !math.IsInf(v, 0) {
			v = math.Round(v)
		}
		// buf.Set rounds again, which is a no-op on an already-rounded value.
		if err := buf.Set(i, v); err != nil {
			return nil, err
		}
	}
	return buf, nil
}
