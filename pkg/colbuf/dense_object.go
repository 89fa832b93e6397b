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
	"coltab/pkg/coltype"
	"coltab/pkg/column"
)

// ObjectBuffer backs TEXT, TEXT_SET, TEXT_LIST, and CUSTOM columns:
// T?[size], missing represented as nil.
type ObjectBuffer struct {
	frozenFlag
	typ  coltype.TypeId
	data []any
}

// NewObjectBuffer creates an object buffer of the given size and type.
// typ must carry the Object category (TEXT, TEXT_SET, TEXT_LIST, CUSTOM).
func NewObjectBuffer(typ coltype.TypeId, size int) (*ObjectBuffer, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	return &ObjectBuffer{typ: typ, data: make([]any, size)}, nil
}

func (b *ObjectBuffer) Size() int { return len(b.data) }

// Set stores v (or nil for missing) at index i.
func (b *ObjectBuffer) Set(i int, v any) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if err := checkBounds(i, len(b.data)); err != nil {
		return err
	}
	b.data[i] = v
	return nil
}

// Get returns the value at index i (nil means missing).
func (b *ObjectBuffer) Get(i int) (any, error) {
	if err := checkBounds(i, len(b.data)); err != nil {
		return nil, err
	}
	return b.data[i], nil
}

// ToColumn freezes the buffer into an immutable Column.
func (b *ObjectBuffer) ToColumn() *column.Column {
	b.freeze()
	return column.NewDenseObject(b.typ, b.data)
}
