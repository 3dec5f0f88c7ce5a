//go:build linux

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
	"sync"
	"testing"
	"unsafe"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/pkg/patomic"
)

func openSegment(t *testing.T, name string, size int) *Segment {
	t.Helper()
	seg, err := Open(context.Background(), Options{
		Name:   name,
		Size:   size,
		Create: true,
		Meter:  noop.NewMeterProvider().Meter("test"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, seg.Unlink())
		assert.NoError(t, seg.Close())
	})
	return seg
}

func TestAllocAligns(t *testing.T) {
	seg := openSegment(t, "patomic-seg-"+uuid.NewString(), 256)

	a, err := seg.Alloc(1, api.Align{Recommended: 1, Minimum: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, a.Offset)

	b, err := seg.Alloc(8, api.Align{Recommended: 8, Minimum: 8})
	require.NoError(t, err)
	assert.Equal(t, 8, b.Offset)

	c, err := seg.Alloc(16, api.Align{Recommended: 16, Minimum: 1})
	require.NoError(t, err)
	assert.Equal(t, 16, c.Offset)
	assert.Zero(t, uintptr(c.Ptr)%16)

	allocs, used := seg.Stats()
	assert.Equal(t, 3, allocs)
	assert.Equal(t, 32, used)

	_, err = seg.Alloc(512, api.Align{})
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = seg.Alloc(0, api.Align{})
	assert.ErrorIs(t, err, ErrInvalidSize)

	seg.Reset()
	d, err := seg.Alloc(4, api.Align{Recommended: 4, Minimum: 4})
	require.NoError(t, err)
	assert.Equal(t, 0, d.Offset)
	assert.Equal(t, 256, seg.Size())
}

func TestSecondMappingSeesAtomics(t *testing.T) {
	name := "patomic-seg-" + uuid.NewString()
	seg := openSegment(t, name, 4096)
	ops := patomic.Create(8, api.SeqCst, api.OptionNone, api.KindAll, api.IDAll)
	require.NotNil(t, ops.Ops.Unsigned.Add)

	obj, err := seg.Alloc(8, ops.Align)
	require.NoError(t, err)

	other, err := Open(context.Background(), Options{Name: name, Size: 4096})
	require.NoError(t, err)
	defer other.Close()
	peer, err := other.At(obj.Offset, 8, ops.Align)
	require.NoError(t, err)

	var wg sync.WaitGroup
	one := uint64(1)
	for _, p := range []unsafe.Pointer{obj.Ptr, peer.Ptr} {
		wg.Add(1)
		go func(p unsafe.Pointer) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				ops.Ops.Unsigned.Add(p, unsafe.Pointer(&one))
			}
		}(p)
	}
	wg.Wait()

	var got uint64
	ops.Ops.Load(peer.Ptr, unsafe.Pointer(&got))
	assert.Equal(t, uint64(2000), got)
}
