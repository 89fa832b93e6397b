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

	"coltab/pkg/coldict"
	"coltab/pkg/colerr"
	"coltab/pkg/coltype"
	"coltab/pkg/column"
	"coltab/pkg/packedint"
)

// NominalBuffer is a dense categorical buffer: a compressed-index array
// over one of the five IndexFormats plus the Dictionary those indices
// are drawn from. Overflow (interning a new distinct value past the
// format's maximal index) is checked eagerly at Set time, against this
// buffer's own storage format — the open question in spec.md's Design
// Notes is resolved that way here.
//
// Set itself takes no lock: distinct-index writes into U8/U16/I32
// storage are whole-unit and race free, and Dictionary.Intern already
// serializes the interning of new values. Concurrent writers into U2/U4
// storage must stay within non-overlapping aligned blocks (see
// pkg/packedint) — the adaptive executor guarantees this by rounding
// batch boundaries to multiples of 4.
type NominalBuffer struct {
	frozenFlag
	format coltype.IndexFormat
	size   int
	dict   *coldict.Dictionary
	packed []byte
	shorts []uint16
	ints   []int32
}

// NewNominalBuffer creates a dense nominal buffer of the given size and
// IndexFormat. Every position starts at index 0 (missing) — nominal
// buffers have no separate "initialize" flag because the zero index
// already means missing.
func NewNominalBuffer(format coltype.IndexFormat, size int) (*NominalBuffer, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	b := &NominalBuffer{format: format, size: size, dict: coldict.New(format)}
	switch format {
	case coltype.U2:
		b.packed = make([]byte, packedint.ByteLen(size, 2))
	case coltype.U4:
		b.packed = make([]byte, packedint.ByteLen(size, 4))
	case coltype.U8:
		b.packed = make([]byte, size)
	case coltype.U16:
		b.shorts = make([]uint16, size)
	case coltype.I32:
		b.ints = make([]int32, size)
	}
	return b, nil
}

func (b *NominalBuffer) Size() int                      { return b.size }
func (b *NominalBuffer) Dictionary() *coldict.Dictionary { return b.dict }
func (b *NominalBuffer) Format() coltype.IndexFormat     { return b.format }

// DifferentValues returns the number of distinct non-nil values written
// so far (equivalently, the dictionary's size).
func (b *NominalBuffer) DifferentValues() int { return b.dict.Size() }

// Set interns v (nil maps to the missing index 0) and writes its index
// at position i. Returns ErrOverflow, wrapped with context, if v would
// be the value that pushes the dictionary past this format's cap.
func (b *NominalBuffer) Set(i int, v any) error {
	_, ok, err := b.trySet(i, v)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("colbuf: nominal buffer at %s capacity, cannot intern new value: %w", b.format, colerr.ErrOverflow)
	}
	return nil
}

// SetSave behaves like Set but reports overflow via its bool return
// instead of an error, leaving the buffer untouched at index i.
func (b *NominalBuffer) SetSave(i int, v any) (bool, error) {
	_, ok, err := b.trySet(i, v)
	if err != nil {
		return false, err
	}
	return ok, nil
}

func (b *NominalBuffer) trySet(i int, v any) (index int, ok bool, err error) {
	if err := b.checkMutable(); err != nil {
		return 0, false, err
	}
	if err := checkBounds(i, b.size); err != nil {
		return 0, false, err
	}
	idx, interned := b.dict.TryIntern(v)
	if !interned {
		return 0, false, nil
	}
	b.writeIndex(i, idx)
	return idx, true, nil
}

func (b *NominalBuffer) writeIndex(i, idx int) {
	switch b.format {
	case coltype.U2:
		packedint.WriteU2(b.packed, i, byte(idx))
	case coltype.U4:
		packedint.WriteU4(b.packed, i, byte(idx))
	case coltype.U8:
		b.packed[i] = byte(idx)
	case coltype.U16:
		b.shorts[i] = uint16(idx)
	case coltype.I32:
		b.ints[i] = int32(idx)
	}
}

func (b *NominalBuffer) readIndex(i int) int {
	switch b.format {
	case coltype.U2:
		return int(packedint.ReadU2(b.packed, i))
	case coltype.U4:
		return int(packedint.ReadU4(b.packed, i))
	case coltype.U8:
		return int(b.packed[i])
	case coltype.U16:
		return int(b.shorts[i])
	default:
		return int(b.ints[i])
	}
}

// Get returns the value at index i (nil for missing).
func (b *NominalBuffer) Get(i int) (any, error) {
	if err := checkBounds(i, b.size); err != nil {
		return nil, err
	}
	return b.dict.Lookup(b.readIndex(i)), nil
}

func (b *NominalBuffer) storage() column.NominalDenseStorage {
	return column.NominalDenseStorage{Format: b.format, Size: b.size, Packed: b.packed, Shorts: b.shorts, Ints: b.ints}
}

// ToColumn freezes the buffer into a plain (non-boolean) nominal Column.
func (b *NominalBuffer) ToColumn() *column.Column {
	b.freeze()
	return column.NewDenseNominal(b.dict, b.storage(), false, coltype.NoEntry)
}

// ToBooleanColumn freezes the buffer into a nominal Column additionally
// tagged with boolean positive-index metadata.
//
// If positiveValue is nil, positiveIndex is NoEntry and the dictionary
// must contain at most one value (it is implicitly the negative one).
// Otherwise positiveValue must already be present in the dictionary.
func (b *NominalBuffer) ToBooleanColumn(positiveValue any) (*column.Column, error) {
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
	b.freeze()
	return column.NewDenseNominal(b.dict, b.storage(), true, positiveIndex), nil
}
