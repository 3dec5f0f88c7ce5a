/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package shm maps named shared memory regions so that atomic objects can
// be shared between processes.
package shm

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/srediag/patomic/api"
)

var (
	// ErrUnsupported is returned on platforms without POSIX shared memory.
	ErrUnsupported = errors.New("shm: shared memory is not supported on this platform")
	// ErrInvalidSize is returned for a non-positive region size.
	ErrInvalidSize = errors.New("shm: invalid region size")
	// ErrOutOfRange is returned when an object does not fit in the region.
	ErrOutOfRange = errors.New("shm: object outside region")
	// ErrMisaligned is returned when an object would violate its alignment.
	ErrMisaligned = errors.New("shm: object misaligned")
)

// Options defines how a region is opened.
type Options struct {
	// Name identifies the region; on Linux it is a file under /dev/shm.
	Name string
	// Size is the region size in bytes.
	Size int
	// Create creates the region if it does not exist.
	Create bool
}

// Region is a mapped shared memory region.
type Region struct {
	Mem  []byte
	path string
	fd   int
}

// At returns a pointer to width bytes at offset, checked against the
// minimum alignment of align.
func (r *Region) At(offset, width int, align api.Align) (unsafe.Pointer, error) {
	if offset < 0 || width < 0 || offset+width > len(r.Mem) {
		return nil, fmt.Errorf("%w: offset %d width %d size %d", ErrOutOfRange, offset, width, len(r.Mem))
	}
	if width == 0 {
		return unsafe.Pointer(unsafe.SliceData(r.Mem)), nil
	}
	p := unsafe.Pointer(&r.Mem[offset])
	if !align.MeetsMinimum(p, width) {
		return nil, fmt.Errorf("%w: offset %d for %+v", ErrMisaligned, offset, align)
	}
	return p, nil
}

// Path returns the backing file, if any.
func (r *Region) Path() string {
	return r.path
}
