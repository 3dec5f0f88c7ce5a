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

package shm

import (
	"context"
	"fmt"
	"sync"
	"unsafe"

	"go.opentelemetry.io/otel/metric"

	"github.com/srediag/patomic/api"
	internalshm "github.com/srediag/patomic/internal/shm"
)

var (
	ErrUnsupported = internalshm.ErrUnsupported
	ErrInvalidSize = internalshm.ErrInvalidSize
	ErrOutOfRange  = internalshm.ErrOutOfRange
	ErrMisaligned  = internalshm.ErrMisaligned
)

// Options defines how a segment is opened.
type Options struct {
	// Name identifies the segment across processes.
	Name string
	// Size is the segment size in bytes.
	Size int
	// Create creates the segment if it does not exist.
	Create bool
	// Meter, if set, receives the allocated byte count.
	Meter metric.Meter
}

// Object is one allocation inside a segment.
type Object struct {
	Ptr    unsafe.Pointer
	Offset int
	Width  int
}

// Segment is a mapped shared memory region with a bump allocator on top.
type Segment struct {
	region *internalshm.Region

	mu        sync.Mutex
	next      int
	allocs    int
	allocated metric.Int64UpDownCounter
}

// Open maps the segment named in opts.
func Open(ctx context.Context, opts Options) (*Segment, error) {
	region, err := internalshm.Map(ctx, internalshm.Options{
		Name:   opts.Name,
		Size:   opts.Size,
		Create: opts.Create,
	})
	if err != nil {
		return nil, err
	}
	s := &Segment{region: region}
	if opts.Meter != nil {
		s.allocated, err = opts.Meter.Int64UpDownCounter("patomic.shm.allocated_bytes",
			metric.WithDescription("Bytes handed out by shared memory segments."),
			metric.WithUnit("By"))
		if err != nil {
			_ = region.Close()
			return nil, err
		}
	}
	return s, nil
}

// Alloc reserves width bytes aligned to align.Recommended (or to 1 if that
// is zero) and checks the result against align's minimum.
func (s *Segment) Alloc(width int, align api.Align) (Object, error) {
	if width <= 0 {
		return Object{}, fmt.Errorf("%w: width %d", ErrInvalidSize, width)
	}
	boundary := int(align.Recommended)
	if boundary == 0 {
		boundary = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	off := (s.next + boundary - 1) &^ (boundary - 1)
	p, err := s.region.At(off, width, align)
	if err != nil {
		return Object{}, err
	}
	s.next = off + width
	s.allocs++
	if s.allocated != nil {
		s.allocated.Add(context.Background(), int64(width))
	}
	return Object{Ptr: p, Offset: off, Width: width}, nil
}

// At returns an object previously allocated at offset, possibly by another
// process.
func (s *Segment) At(offset, width int, align api.Align) (Object, error) {
	p, err := s.region.At(offset, width, align)
	if err != nil {
		return Object{}, err
	}
	return Object{Ptr: p, Offset: offset, Width: width}, nil
}

// Reset forgets every allocation. The memory is not cleared.
func (s *Segment) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.allocated != nil {
		s.allocated.Add(context.Background(), -int64(s.next))
	}
	s.next, s.allocs = 0, 0
}

// Stats reports the allocation count and the bytes used, padding included.
func (s *Segment) Stats() (allocs, used int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.allocs, s.next
}

func (s *Segment) Size() int    { return len(s.region.Mem) }
func (s *Segment) Path() string { return s.region.Path() }

// Close unmaps the segment.
func (s *Segment) Close() error {
	return s.region.Close()
}

// Unlink removes the segment's name. Mappings stay valid until closed.
func (s *Segment) Unlink() error {
	return s.region.Unlink()
}
