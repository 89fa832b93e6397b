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

// Package colbuf implements the mutable, transient predecessor to a
// Column: dense fixed-length vectors and write-once sparse vectors,
// plus the freeze protocol that hands their backing storage to an
// immutable column with no copy.
//
// Dense buffers are caller-partitioned: concurrent Set calls to distinct
// indices race free (with the packed-nominal exception documented in
// pkg/packedint). Sparse buffers serialize SetNext/SetNextSave through an
// internal mutex and require strictly ascending indices.
package colbuf

import (
	"fmt"
	"sync/atomic"

	"coltab/pkg/colerr"
)

// Buffer is the contract every buffer variant satisfies.
type Buffer interface {
	Size() int
	IsFrozen() bool
}

// frozenFlag is embedded by every buffer variant to implement the
// one-way freeze transition.
type frozenFlag struct {
	frozen atomic.Bool
}

func (f *frozenFlag) IsFrozen() bool { return f.frozen.Load() }

func (f *frozenFlag) freeze() { f.frozen.Store(true) }

func (f *frozenFlag) checkMutable() error {
	if f.frozen.Load() {
		return fmt.Errorf("colbuf: mutation after freeze: %w", colerr.ErrBufferFrozen)
	}
	return nil
}

func checkBounds(index, size int) error {
	if index < 0 || index >= size {
		return fmt.Errorf("colbuf: index %d out of [0,%d): %w", index, size, colerr.ErrIndexOutOfBounds)
	}
	return nil
}

func checkSize(size int) error {
	if size < 0 {
		return fmt.Errorf("colbuf: negative size %d: %w", size, colerr.ErrInvalidArgument)
	}
	return nil
}
