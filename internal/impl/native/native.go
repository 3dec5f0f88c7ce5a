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

// Package native provides the operations the Go runtime implements with
// hardware atomics: 4 and 8 byte words through sync/atomic.
//
// sync/atomic is sequentially consistent, which satisfies every memory order
// a caller may ask for. Orders only decide which slots are present.
package native

import (
	"unsafe"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/impl"
)

// Provider is the registry entry for this backend.
var Provider = api.Provider{
	ID:             api.IDNative,
	Kind:           api.KindBltn,
	Name:           "native",
	Ops:            Ops,
	OpsExplicit:    OpsExplicit,
	OpsTransaction: func(api.Options) api.Transaction { return api.Transaction{} },
}

var (
	implicit [2]api.Ops
	explicit [2]api.OpsExplicit
)

func init() {
	for i, p := range []*prim{&prim32, &prim64} {
		implicit[i] = build(p)
		explicit[i] = impl.WithOrder(&implicit[i])
	}
}

func index(width int) int {
	switch width {
	case 4:
		return 0
	case 8:
		return 1
	}
	return -1
}

func align(width int) api.Align {
	return api.Align{Recommended: uintptr(width), Minimum: uintptr(width)}
}

// Ops returns the implicit table for width and order. Store is present only
// for store orders and Load only for load orders.
func Ops(width int, order api.Order, _ api.Options) api.Implicit {
	i := index(width)
	if i < 0 {
		return api.Implicit{}
	}
	return impl.ForOrder(implicit[i], order, align(width))
}

// OpsExplicit returns the explicit table for width.
func OpsExplicit(width int, _ api.Options) api.Explicit {
	i := index(width)
	if i < 0 {
		return api.Explicit{}
	}
	return api.Explicit{Ops: explicit[i], Align: align(width)}
}

func build(p *prim) api.Ops {
	var o api.Ops

	o.Store = func(obj, desired unsafe.Pointer) { p.store(obj, p.get(desired)) }
	o.Load = func(obj, ret unsafe.Pointer) { p.put(ret, p.load(obj)) }

	o.Xchg.Exchange = func(obj, desired, ret unsafe.Pointer) {
		p.put(ret, p.swap(obj, p.get(desired)))
	}
	o.Xchg.CmpxchgWeak = func(obj, expected, desired unsafe.Pointer) bool {
		if p.cas(obj, p.get(expected), p.get(desired)) {
			return true
		}
		p.put(expected, p.load(obj))
		return false
	}
	o.Xchg.CmpxchgStrong = func(obj, expected, desired unsafe.Pointer) bool {
		exp, des := p.get(expected), p.get(desired)
		for {
			if p.cas(obj, exp, des) {
				return true
			}
			if cur := p.load(obj); cur != exp {
				p.put(expected, cur)
				return false
			}
		}
	}

	o.Bitwise.Test = func(obj unsafe.Pointer, offset int) bool {
		m, ok := p.bit(offset)
		return ok && p.load(obj)&m != 0
	}
	o.Bitwise.TestCompl = func(obj unsafe.Pointer, offset int) bool {
		m, ok := p.bit(offset)
		return ok && p.update(obj, func(v uint64) uint64 { return v ^ m })&m != 0
	}
	o.Bitwise.TestSet = func(obj unsafe.Pointer, offset int) bool {
		m, ok := p.bit(offset)
		return ok && p.or(obj, m)&m != 0
	}
	o.Bitwise.TestReset = func(obj unsafe.Pointer, offset int) bool {
		m, ok := p.bit(offset)
		return ok && p.and(obj, ^m)&m != 0
	}

	xor := func(obj unsafe.Pointer, v uint64) uint64 {
		return p.update(obj, func(old uint64) uint64 { return old ^ v })
	}
	not := func(obj unsafe.Pointer) uint64 {
		return p.update(obj, func(old uint64) uint64 { return ^old })
	}
	o.Binary.Or = func(obj, arg unsafe.Pointer) { p.or(obj, p.get(arg)) }
	o.Binary.Xor = func(obj, arg unsafe.Pointer) { xor(obj, p.get(arg)) }
	o.Binary.And = func(obj, arg unsafe.Pointer) { p.and(obj, p.get(arg)) }
	o.Binary.Not = func(obj unsafe.Pointer) { not(obj) }
	o.Binary.FetchOr = func(obj, arg, ret unsafe.Pointer) { p.put(ret, p.or(obj, p.get(arg))) }
	o.Binary.FetchXor = func(obj, arg, ret unsafe.Pointer) { p.put(ret, xor(obj, p.get(arg))) }
	o.Binary.FetchAnd = func(obj, arg, ret unsafe.Pointer) { p.put(ret, p.and(obj, p.get(arg))) }
	o.Binary.FetchNot = func(obj, ret unsafe.Pointer) { p.put(ret, not(obj)) }

	// Two's complement makes signed and unsigned arithmetic identical.
	neg := func(obj unsafe.Pointer) uint64 {
		return p.update(obj, func(old uint64) uint64 { return -old })
	}
	var a api.ArithmeticOps
	a.Add = func(obj, arg unsafe.Pointer) { p.add(obj, p.get(arg)) }
	a.Sub = func(obj, arg unsafe.Pointer) { p.add(obj, -p.get(arg)) }
	a.Inc = func(obj unsafe.Pointer) { p.add(obj, 1) }
	a.Dec = func(obj unsafe.Pointer) { p.add(obj, ^uint64(0)) }
	a.Neg = func(obj unsafe.Pointer) { neg(obj) }
	a.FetchAdd = func(obj, arg, ret unsafe.Pointer) {
		d := p.get(arg)
		p.put(ret, p.add(obj, d)-d)
	}
	a.FetchSub = func(obj, arg, ret unsafe.Pointer) {
		d := p.get(arg)
		p.put(ret, p.add(obj, -d)+d)
	}
	a.FetchInc = func(obj, ret unsafe.Pointer) { p.put(ret, p.add(obj, 1)-1) }
	a.FetchDec = func(obj, ret unsafe.Pointer) { p.put(ret, p.add(obj, ^uint64(0))+1) }
	a.FetchNeg = func(obj, ret unsafe.Pointer) { p.put(ret, neg(obj)) }
	o.Signed = a
	o.Unsigned = a

	return o
}
