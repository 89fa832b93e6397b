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

// DateTimeNanoBuffer backs a DATE_TIME column carrying both epoch
// seconds and a nanosecond-of-second component: long[size] + int[size].
// A position is missing when its seconds entry equals the missing
// sentinel; its paired nanos entry is then ignored.
type DateTimeNanoBuffer struct {
	frozenFlag
	seconds []int64
	nanos   []int32
}

// NewDateTimeNanoBuffer creates a DATE_TIME-with-nanos buffer of the
// given size.
func NewDateTimeNanoBuffer(size int, initialize bool) (*DateTimeNanoBuffer, error) {
	if err := checkSize(size); err != nil {
		return nil, err
	}
	seconds := make([]int64, size)
	nanos := make([]int32, size)
	if initialize {
		for i := range seconds {
			seconds[i] = missingLong
		}
	}
	return &DateTimeNanoBuffer{seconds: seconds, nanos: nanos}, nil
}

func (b *DateTimeNanoBuffer) Size() int { return len(b.seconds) }

// Set stores epoch seconds and nanosecond-of-second at index i.
func (b *DateTimeNanoBuffer) Set(i int, seconds int64, nanos int32) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if err := checkBounds(i, len(b.seconds)); err != nil {
		return err
	}
	if err := validateEpochSeconds(seconds); err != nil {
		return err
	}
	if nanos < 0 || nanos > 999_999_999 {
		return fmt.Errorf("colbuf: nanosecond component %d out of [0,999999999]: %w", nanos, colerr.ErrInvalidArgument)
	}
	b.seconds[i] = seconds
	b.nanos[i] = nanos
	return nil
}

// SetMissing clears index i to missing.
func (b *DateTimeNanoBuffer) SetMissing(i int) error {
	if err := b.checkMutable(); err != nil {
		return err
	}
	if err := checkBounds(i, len(b.seconds)); err != nil {
		return err
	}
	b.seconds[i] = missingLong
	b.nanos[i] = 0
	return nil
}

// Get returns the seconds/nanos pair at index i, and whether it is missing.
func (b *DateTimeNanoBuffer) Get(i int) (seconds int64, nanos int32, missing bool, err error) {
	if err := checkBounds(i, len(b.seconds)); err != nil {
		return 0, 0, false, err
	}
	s := b.seconds[i]
	return s, b.nanos[i], s == missingLong, nil
}

// ToColumn freezes the buffer into an immutable Column.
func (b *DateTimeNanoBuffer) ToColumn() *column.Column {
	b.freeze()
	return column.NewDenseDateTimeNano(coltype.DateTime, b.seconds, b.nanos)
}
