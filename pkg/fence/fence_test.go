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

package fence

import (
	"context"
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/stripe"
)

type pair struct {
	a, b uint64
}

func TestPublishAndRead(t *testing.T) {
	var obj pair
	p, err := New(unsafe.Pointer(&obj), 16)
	require.NoError(t, err)

	ctx := context.Background()
	v := pair{3, 3}
	require.NoError(t, p.Publish(ctx, unsafe.Pointer(&v)))
	var out pair
	require.NoError(t, p.Read(ctx, unsafe.Pointer(&out)))
	assert.Equal(t, v, out)

	st := p.Stats()
	assert.Equal(t, uint64(1), st.Publishes)
	assert.Equal(t, uint64(1), st.Reads)
}

func TestReadersNeverSeeTornValues(t *testing.T) {
	var obj pair
	p, err := New(unsafe.Pointer(&obj), 16)
	require.NoError(t, err)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := uint64(1); i <= 300; i++ {
			v := pair{i, i}
			assert.NoError(t, p.Publish(ctx, unsafe.Pointer(&v)))
		}
	}()
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 300; i++ {
				var out pair
				if assert.NoError(t, p.Read(ctx, unsafe.Pointer(&out))) {
					assert.Equal(t, out.a, out.b)
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(300), p.Stats().Publishes)
}

func TestReadHonoursContext(t *testing.T) {
	var obj uint64
	p, err := New(unsafe.Pointer(&obj), 8, WithAttempts(1),
		WithBackOff(func() backoff.BackOff { return backoff.NewConstantBackOff(time.Millisecond) }))
	require.NoError(t, err)

	i := stripe.Index(unsafe.Pointer(&obj))
	stripe.Lock(i)
	defer stripe.Unlock(i)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	var out uint64
	err = p.Read(ctx, unsafe.Pointer(&out))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Positive(t, p.Stats().Retries)
}

func TestNewValidates(t *testing.T) {
	var obj uint64
	_, err := New(unsafe.Pointer(&obj), 0)
	assert.ErrorIs(t, err, ErrInvalidWidth)

	var tx api.Transaction
	tx.Ops.Raw.TBegin = func() api.TxStatus { return api.TxSuccess }
	_, err = New(unsafe.Pointer(&obj), 8, WithTransaction(tx))
	assert.ErrorIs(t, err, ErrNoTransaction)
}

func TestFlagToggledByPublish(t *testing.T) {
	var obj uint64
	p, err := New(unsafe.Pointer(&obj), 8)
	require.NoError(t, err)
	before := *p.Flag()
	v := uint64(1)
	require.NoError(t, p.Publish(context.Background(), unsafe.Pointer(&v)))
	assert.Equal(t, before+2, *p.Flag())
}
