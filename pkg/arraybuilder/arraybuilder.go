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

// Package arraybuilder implements a grow-by-chunks builder for primitive
// slices. Sparse buffers append values without knowing the final count in
// advance; a builder grows in discrete chunks (capped at a maximum chunk
// size) instead of doubling a single backing array without bound, so the
// largest single live allocation stays small relative to the logical
// buffer size. Build concatenates the chunks into one contiguous slice
// and releases the chunk list.
package arraybuilder

// Builder accumulates values of type T across growable chunks.
type Builder[T any] struct {
	chunks      [][]T
	cur         []T
	curLen      int
	initialSize int
	growth      float64
	maxChunk    int
}

// New creates a Builder. initialSize is the size of the first chunk,
// growth is the multiplicative factor applied to each new chunk's size
// relative to the previous one, and maxChunk caps how large any single
// chunk may grow (bounding the largest live allocation).
func New[T any](initialSize int, growth float64, maxChunk int) *Builder[T] {
	if initialSize <= 0 {
		initialSize = 16
	}
	if growth <= 1.0 {
		growth = 1.5
	}
	if maxChunk <= 0 {
		maxChunk = initialSize
	}
	return &Builder[T]{
		initialSize: initialSize,
		growth:      growth,
		maxChunk:    maxChunk,
	}
}

// Append adds v to the builder, allocating a new chunk if the current one
// is full.
func (bld *Builder[T]) Append(v T) {
	if bld.cur == nil || bld.curLen == len(bld.cur) {
		bld.allocChunk()
	}
	bld.cur[bld.curLen] = v
	bld.curLen++
}

// Len returns the total number of values appended so far.
func (bld *Builder[T]) Len() int {
	total := bld.curLen
	for _, c := range bld.chunks {
		total += len(c)
	}
	return total
}

func (bld *Builder[T]) allocChunk() {
	if bld.cur != nil {
		bld.chunks = append(bld.chunks, bld.cur[:bld.curLen])
	}
	size := bld.initialSize
	if len(bld.chunks) > 0 {
		last := len(bld.chunks[len(bld.chunks)-1])
		size = int(float64(last) * bld.growth)
		if size < bld.initialSize {
			size = bld.initialSize
		}
	}
	if size > bld.maxChunk {
		size = bld.maxChunk
	}
	bld.cur = make([]T, size)
	bld.curLen = 0
}

// Build concatenates all chunks into one contiguous slice and releases
// the chunk list. The builder must not be used afterward.
func (bld *Builder[T]) Build() []T {
	total := bld.Len()
	out := make([]T, 0, total)
	for _, c := range bld.chunks {
		out = append(out, c...)
	}
	if bld.cur != nil {
		out = append(out, bld.cur[:bld.curLen]...)
	}
	bld.chunks = nil
	bld.cur = nil
	bld.curLen = 0
	return out
}
