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

// Package lock provides every implicit and explicit operation for any width
// by serialising access through the shared stripe table.
//
// Tables are built once per width on first use and reused afterwards.
// Result buffers must not overlap the object or the operand.
package lock

import (
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/impl"
	"github.com/srediag/patomic/internal/stripe"
	"github.com/srediag/patomic/internal/wide"
)

// MaxWidth is the widest object this provider serves.
const MaxWidth = 4096

// Provider is the registry entry for this backend.
var Provider = api.Provider{
	ID:             api.IDLock,
	Kind:           api.KindLib,
	Name:           "lock",
	Ops:            Ops,
	OpsExplicit:    OpsExplicit,
	OpsTransaction: func(api.Options) api.Transaction { return api.Transaction{} },
}

type tables struct {
	implicit api.Ops
	explicit api.OpsExplicit
}

var cache [MaxWidth + 1]atomic.Pointer[tables]

func get(width int) *tables {
	if width < 1 || width > MaxWidth {
		return nil
	}
	if t := cache[width].Load(); t != nil {
		return t
	}
	t := &tables{implicit: build(width)}
	t.explicit = impl.WithOrder(&t.implicit)
	// a racing builder produced an equivalent table
	if !cache[width].CompareAndSwap(nil, t) {
		return cache[width].Load()
	}
	return t
}

// Align returns the alignment for width: the largest power of two not above
// width, capped at 16, is recommended and no alignment is required.
func Align(width int) api.Align {
	if width < 1 {
		return api.Align{}
	}
	r := uintptr(1) << (bits.Len(uint(width)) - 1)
	if r > 16 {
		r = 16
	}
	return api.Align{Recommended: r, Minimum: 1}
}

func Ops(width int, order api.Order, _ api.Options) api.Implicit {
	t := get(width)
	if t == nil {
		return api.Implicit{}
	}
	return impl.ForOrder(t.implicit, order, Align(width))
}

func OpsExplicit(width int, _ api.Options) api.Explicit {
	t := get(width)
	if t == nil {
		return api.Explicit{}
	}
	return api.Explicit{Ops: t.explicit, Align: Align(width)}
}

func lock(obj unsafe.Pointer) int {
	i := stripe.Index(obj)
	stripe.Lock(i)
	return i
}

func build(w int) api.Ops {
	var o api.Ops
	b := func(p unsafe.Pointer) []byte { return wide.Bytes(p, w) }

	o.Store = func(obj, desired unsafe.Pointer) {
		i := lock(obj)
		copy(b(obj), b(desired))
		stripe.Unlock(i)
	}
	o.Load = func(obj, ret unsafe.Pointer) {
		i := lock(obj)
		copy(b(ret), b(obj))
		stripe.Unlock(i)
	}

	o.Xchg.Exchange = func(obj, desired, ret unsafe.Pointer) {
		i := lock(obj)
		copy(b(ret), b(obj))
		copy(b(obj), b(desired))
		stripe.Unlock(i)
	}
	cmpxchg := func(obj, expected, desired unsafe.Pointer) bool {
		i := lock(obj)
		defer stripe.Unlock(i)
		if wide.Equal(b(obj), b(expected)) {
			copy(b(obj), b(desired))
			return true
		}
		copy(b(expected), b(obj))
		return false
	}
	o.Xchg.CmpxchgWeak = cmpxchg
	o.Xchg.CmpxchgStrong = cmpxchg

	o.Bitwise.Test = func(obj unsafe.Pointer, offset int) bool {
		at, m, ok := wide.Bit(w, offset)
		if !ok {
			return false
		}
		i := lock(obj)
		set := b(obj)[at]&m != 0
		stripe.Unlock(i)
		return set
	}
	testModify := func(f func(v, m byte) byte) api.TestModifyFunc {
		return func(obj unsafe.Pointer, offset int) bool {
			at, m, ok := wide.Bit(w, offset)
			if !ok {
				return false
			}
			i := lock(obj)
			v := b(obj)
			old := v[at]&m != 0
			v[at] = f(v[at], m)
			stripe.Unlock(i)
			return old
		}
	}
	o.Bitwise.TestCompl = testModify(func(v, m byte) byte { return v ^ m })
	o.Bitwise.TestSet = testModify(func(v, m byte) byte { return v | m })
	o.Bitwise.TestReset = testModify(func(v, m byte) byte { return v &^ m })

	void := func(f func(dst, a, b []byte)) api.VoidFunc {
		return func(obj, arg unsafe.Pointer) {
			i := lock(obj)
			v := b(obj)
			f(v, v, b(arg))
			stripe.Unlock(i)
		}
	}
	fetch := func(f func(dst, a, b []byte)) api.FetchFunc {
		return func(obj, arg, ret unsafe.Pointer) {
			i := lock(obj)
			v := b(obj)
			copy(b(ret), v)
			f(v, v, b(arg))
			stripe.Unlock(i)
		}
	}
	voidNoarg := func(f func(dst, a []byte)) api.VoidNoargFunc {
		return func(obj unsafe.Pointer) {
			i := lock(obj)
			v := b(obj)
			f(v, v)
			stripe.Unlock(i)
		}
	}
	fetchNoarg := func(f func(dst, a []byte)) api.FetchNoargFunc {
		return func(obj, ret unsafe.Pointer) {
			i := lock(obj)
			v := b(obj)
			copy(b(ret), v)
			f(v, v)
			stripe.Unlock(i)
		}
	}

	o.Binary = api.BinaryOps{
		Or:       void(wide.Or),
		Xor:      void(wide.Xor),
		And:      void(wide.And),
		Not:      voidNoarg(wide.Not),
		FetchOr:  fetch(wide.Or),
		FetchXor: fetch(wide.Xor),
		FetchAnd: fetch(wide.And),
		FetchNot: fetchNoarg(wide.Not),
	}
	o.Signed = api.ArithmeticOps{
		Add:      void(wide.Add),
		Sub:      void(wide.Sub),
		Inc:      voidNoarg(wide.Inc),
		Dec:      voidNoarg(wide.Dec),
		Neg:      voidNoarg(wide.Neg),
		FetchAdd: fetch(wide.Add),
		FetchSub: fetch(wide.Sub),
		FetchInc: fetchNoarg(wide.Inc),
		FetchDec: fetchNoarg(wide.Dec),
		FetchNeg: fetchNoarg(wide.Neg),
	}
	o.Unsigned = o.Signed
	return o
}
