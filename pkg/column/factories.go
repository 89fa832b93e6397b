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

package column

import (
	"coltab/pkg/coldict"
	"coltab/pkg/coltype"
)

// These constructors are the only way to build a Column; they are called
// exclusively from pkg/colbuf's freeze (ToColumn) methods, which hand
// over a buffer's backing storage with no copy. Nothing here re-exposes
// a way to mutate a Column after construction.

func NewDenseNumeric(typ coltype.TypeId, data []float64) *Column {
	return &Column{typ: typ, size: len(data), kind: kindDenseNumeric, numeric: data}
}

func NewDenseLong(typ coltype.TypeId, data []int64) *Column {
	return &Column{typ: typ, size: len(data), kind: kindDenseLong, long: data}
}

func NewDenseDateTimeNano(typ coltype.TypeId, seconds []int64, nanos []int32) *Column {
	return &Column{typ: typ, size: len(seconds), kind: kindDenseDateTimeNano, seconds: seconds, nanos: nanos}
}

func NewDenseObject(typ coltype.TypeId, data []any) *Column {
	return &Column{typ: typ, size: len(data), kind: kindDenseObject, objects: data}
}

// NominalDenseStorage carries the format-tagged packing for a dense
// nominal column; exactly one of Packed/Shorts/Ints is populated,
// selected by Format.
type NominalDenseStorage struct {
	Format coltype.IndexFormat
	Size   int
	Packed []byte   // U2, U4, U8
	Shorts []uint16 // U16
	Ints   []int32  // I32
}

func NewDenseNominal(dict *coldict.Dictionary, storage NominalDenseStorage, boolean bool, positiveIndex int) *Column {
	return &Column{
		typ: coltype.Nominal, size: storage.Size, kind: kindDenseNominal,
		format: storage.Format, packed: storage.Packed, shorts: storage.Shorts, ints: storage.Ints,
		dict: dict, isBoolean: boolean, positiveIndex: positiveIndex,
	}
}

func NewSparseNumeric(typ coltype.TypeId, size int, defaultValue float64, indices []int, values []float64) *Column {
	return &Column{
		typ: typ, size: size, kind: kindSparseNumeric,
		defaultNumeric: defaultValue, indices: indices, sparseNumeric: values,
	}
}

func NewSparseLong(typ coltype.TypeId, size int, defaultValue int64, indices []int, values []int64) *Column {
	return &Column{
		typ: typ, size: size, kind: kindSparseLong,
		defaultLong: defaultValue, indices: indices, sparseLong: values,
	}
}

func NewSparseDateTime(size int, defaultSeconds int64, defaultNanos int32, indices []int, seconds []int64, nanos []int32) *Column {
	return &Column{
		typ: coltype.DateTime, size: size, kind: kindSparseDateTime,
		defaultLong: defaultSeconds, defaultNanos: defaultNanos,
		indices: indices, sparseLong: seconds, sparseNanos: nanos,
	}
}

// NominalSparseStorage describes a sparse nominal column's exceptions,
// widened to int regardless of the backing IndexFormat (the format only
// controls how the owning buffer packed values prior to freeze).
type NominalSparseStorage struct {
	Format       coltype.IndexFormat
	Size         int
	DefaultIndex int
	Indices      []int
	Values       []int
}

func NewSparseNominal(dict *coldict.Dictionary, storage NominalSparseStorage, boolean bool, positiveIndex int) *Column {
	return &Column{
		typ: coltype.Nominal, size: storage.Size, kind: kindSparseNominal,
		format: storage.Format, defaultIndex: storage.DefaultIndex,
		indices: storage.Indices, sparseFormat: storage.Values,
		dict: dict, isBoolean: boolean, positiveIndex: positiveIndex,
	}
}

// MissingLong is the sentinel missing-value for dense/sparse long-backed
// columns (TIME, DATE_TIME-seconds), shared with pkg/colbuf.
const MissingLong = missingLongSentinel
