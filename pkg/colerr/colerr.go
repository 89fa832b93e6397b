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

// Package colerr defines the sentinel errors shared by every package in
// this module. Errors are distinguished by sentinel identity (errors.Is),
// never by a type hierarchy. Call sites wrap a sentinel with fmt.Errorf's
// %w verb to attach context (index, size, type name) without losing the
// ability to match on the underlying kind.
package colerr

import "errors"

var (
	// ErrInvalidArgument covers bad sizes, category counts, types, boolean
	// configurations, positive values absent from a dictionary, and
	// out-of-range nanos/seconds.
	ErrInvalidArgument = errors.New("colerr: invalid argument")

	// ErrIndexOutOfBounds is returned when a buffer index falls outside [0, size).
	ErrIndexOutOfBounds = errors.New("colerr: index out of bounds")

	// ErrNonMonotonicSparseIndex is returned by a sparse setNext call whose
	// index does not strictly exceed the previously written index.
	ErrNonMonotonicSparseIndex = errors.New("colerr: sparse index is not strictly increasing")

	// ErrBufferFrozen is returned by any mutator called after ToColumn.
	ErrBufferFrozen = errors.New("colerr: buffer is frozen")

	// ErrOverflow is returned when a new distinct value would exceed an
	// IndexFormat's maximal index.
	ErrOverflow = errors.New("colerr: dictionary index format overflow")

	// ErrUnsupportedCapability is returned when an operation requires a
	// capability (numeric-readable, object-readable, sortable) the column
	// or buffer's type does not carry.
	ErrUnsupportedCapability = errors.New("colerr: type does not support capability")

	// ErrColumnTypeMismatch is returned when a source column's element type
	// is not assignable to a target buffer's element type.
	ErrColumnTypeMismatch = errors.New("colerr: column type mismatch")

	// ErrAborted is returned when a Context goes inactive or refuses
	// further work during Execute.
	ErrAborted = errors.New("colerr: execution aborted")

	// ErrUserCodeFailure wraps an error returned from caller-supplied
	// closures inside Calculator.DoPart. The original error is wrapped
	// alongside it and stays matchable with errors.Is / errors.As.
	ErrUserCodeFailure = errors.New("colerr: user code failure")
)
