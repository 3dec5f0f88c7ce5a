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

// Package stm emulates hardware transactions in software. It fills every
// slot of the transactional table.
//
// An attempt takes the stripe of each object it touches without waiting; a
// stripe held by anyone else aborts the attempt with a conflict. Results are
// computed into pooled scratch memory and only written back after the abort
// flag is seen unchanged. Fallback paths wait for their stripes instead.
//
// Generic bodies and raw transactions hold a global gate exclusively. An
// operation called by the holding goroutine reports TxAbortNested rather than
// waiting on its own hold.
//
// Stripes are shared with the lock provider, so transactional operations and
// lock-provider operations on the same object exclude each other.
package stm

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/valyala/bytebufferpool"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/stripe"
	"github.com/srediag/patomic/internal/txn"
	"github.com/srediag/patomic/internal/wide"
)

// Provider is the registry entry for this backend.
var Provider = api.Provider{
	ID:             api.IDSTM,
	Kind:           api.KindLib,
	Name:           "stm",
	Ops:            func(int, api.Order, api.Options) api.Implicit { return api.Implicit{} },
	OpsExplicit:    func(int, api.Options) api.Explicit { return api.Explicit{} },
	OpsTransaction: OpsTransaction,
}

// Align is the alignment of the transactional table. Objects sharing a
// 16 byte granule may share a stripe and conflict with each other.
var Align = api.Align{Recommended: 16, Minimum: 1}

var (
	// gate is held shared by every attempt and exclusively by generic
	// bodies and raw transactions.
	gate sync.RWMutex
	// owner is the goroutine holding gate exclusively, 0 when none.
	owner atomic.Int64
	// raw is set while the exclusive hold is a raw transaction.
	raw atomic.Bool
	// lastAbort holds the status of the last raw abort.
	lastAbort atomic.Uint32

	table api.OpsTransaction
)

func init() {
	table = build()
}

// OpsTransaction returns the transactional table. Options are ignored.
func OpsTransaction(_ api.Options) api.Transaction {
	return api.Transaction{Ops: table, Align: Align}
}

type mode int

const (
	try  mode = iota // give up on contention
	wait             // block for locks
)

// enterShared takes gate shared. The owner of the exclusive hold gets
// TxAbortNested instead of waiting on itself.
func enterShared(m mode) api.TxStatus {
	if gate.TryRLock() {
		return api.TxSuccess
	}
	if owner.Load() == goid() {
		return api.TxAbortNested
	}
	if m == try {
		return api.TxAbortConflict
	}
	gate.RLock()
	return api.TxSuccess
}

func enterExclusive(m mode) api.TxStatus {
	id := goid()
	if !gate.TryLock() {
		if owner.Load() == id {
			return api.TxAbortNested
		}
		if m == try {
			return api.TxAbortConflict
		}
		gate.Lock()
	}
	owner.Store(id)
	return api.TxSuccess
}

func leaveExclusive() {
	owner.Store(0)
	gate.Unlock()
}

func scratch(buf *bytebufferpool.ByteBuffer, n int) []byte {
	if cap(buf.B) < n {
		buf.B = make([]byte, n)
	}
	buf.B = buf.B[:n]
	return buf.B
}

// update runs one attempt on a single object of width bytes.
//
// compute reads cur and fills next, returning whether next is to be written
// back. publish, if not nil, runs after the flag check and before the write,
// while cur still holds the old value.
func update(obj unsafe.Pointer, width int, flag *api.TxFlag, m mode,
	compute func(cur, next []byte) bool, publish func(cur []byte)) api.TxStatus {
	snap := txn.Snapshot(flag)
	if st := enterShared(m); !st.Committed() {
		return st
	}
	defer gate.RUnlock()

	i := stripe.Index(obj)
	if m == wait {
		stripe.Lock(i)
	} else if !stripe.TryLock(i) {
		return api.TxAbortConflict
	}
	defer stripe.Unlock(i)

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	cur, next := wide.Bytes(obj, width), scratch(buf, width)

	write := compute(cur, next)
	if txn.Changed(flag, snap) {
		return api.TxAbortConflict
	}
	if publish != nil {
		publish(cur)
	}
	if write {
		copy(cur, next)
	}
	return api.TxSuccess
}

// cmpxchgN runs one all-or-nothing attempt over cxs. On mismatch every
// expected buffer receives the observed value.
func cmpxchgN(cxs []api.TxCmpxchg, flag *api.TxFlag, m mode, ok *bool) api.TxStatus {
	snap := txn.Snapshot(flag)
	if st := enterShared(m); !st.Committed() {
		return st
	}
	defer gate.RUnlock()

	var arr [8]int
	set := stripe.Set(arr[:0])
	for k := range cxs {
		set = set.Add(cxs[k].Obj)
	}
	set = set.Normalize()
	if m == wait {
		set.Lock()
	} else if !set.TryLock() {
		return api.TxAbortConflict
	}
	defer set.Unlock()

	match := true
	for k := range cxs {
		c := &cxs[k]
		if !wide.Equal(wide.Bytes(c.Obj, c.Width), wide.Bytes(c.Expected, c.Width)) {
			match = false
			break
		}
	}
	if txn.Changed(flag, snap) {
		return api.TxAbortConflict
	}
	for k := range cxs {
		c := &cxs[k]
		if match {
			copy(wide.Bytes(c.Obj, c.Width), wide.Bytes(c.Desired, c.Width))
		} else {
			copy(wide.Bytes(c.Expected, c.Width), wide.Bytes(c.Obj, c.Width))
		}
	}
	*ok = match
	return api.TxSuccess
}

// exclusive runs body alone under the gate.
func exclusive(flag *api.TxFlag, m mode, body func(ctx any), ctx any) api.TxStatus {
	snap := txn.Snapshot(flag)
	if st := enterExclusive(m); !st.Committed() {
		return st
	}
	defer leaveExclusive()
	if txn.Changed(flag, snap) {
		return api.TxAbortConflict
	}
	body(ctx)
	return api.TxSuccess
}
