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

// Package impl holds helpers shared by the providers.
package impl

import (
	"unsafe"

	"github.com/srediag/patomic/api"
)

// ForOrder wraps a full implicit table for order. Store is kept only for
// store orders and Load only for load orders; an invalid order yields an
// empty table.
func ForOrder(ops api.Ops, order api.Order, align api.Align) api.Implicit {
	if !api.IsValidOrder(order) {
		return api.Implicit{}
	}
	t := api.Implicit{Ops: ops, Align: align}
	if !api.IsValidStoreOrder(order) {
		t.Ops.Store = nil
	}
	if !api.IsValidLoadOrder(order) {
		t.Ops.Load = nil
	}
	return t
}

// WithOrder adapts an implicit table to the explicit signatures. The order
// argument is accepted and ignored.
func WithOrder(o *api.Ops) api.OpsExplicit {
	var e api.OpsExplicit

	e.Store = func(obj, desired unsafe.Pointer, _ api.Order) { o.Store(obj, desired) }
	e.Load = func(obj unsafe.Pointer, _ api.Order, ret unsafe.Pointer) { o.Load(obj, ret) }

	e.Xchg.Exchange = func(obj, desired unsafe.Pointer, _ api.Order, ret unsafe.Pointer) {
		o.Xchg.Exchange(obj, desired, ret)
	}
	e.Xchg.CmpxchgWeak = func(obj, expected, desired unsafe.Pointer, _, _ api.Order) bool {
		return o.Xchg.CmpxchgWeak(obj, expected, desired)
	}
	e.Xchg.CmpxchgStrong = func(obj, expected, desired unsafe.Pointer, _, _ api.Order) bool {
		return o.Xchg.CmpxchgStrong(obj, expected, desired)
	}

	e.Bitwise.Test = func(obj unsafe.Pointer, offset int, _ api.Order) bool { return o.Bitwise.Test(obj, offset) }
	e.Bitwise.TestCompl = func(obj unsafe.Pointer, offset int, _ api.Order) bool { return o.Bitwise.TestCompl(obj, offset) }
	e.Bitwise.TestSet = func(obj unsafe.Pointer, offset int, _ api.Order) bool { return o.Bitwise.TestSet(obj, offset) }
	e.Bitwise.TestReset = func(obj unsafe.Pointer, offset int, _ api.Order) bool { return o.Bitwise.TestReset(obj, offset) }

	e.Binary.Or = func(obj, arg unsafe.Pointer, _ api.Order) { o.Binary.Or(obj, arg) }
	e.Binary.Xor = func(obj, arg unsafe.Pointer, _ api.Order) { o.Binary.Xor(obj, arg) }
	e.Binary.And = func(obj, arg unsafe.Pointer, _ api.Order) { o.Binary.And(obj, arg) }
	e.Binary.Not = func(obj unsafe.Pointer, _ api.Order) { o.Binary.Not(obj) }
	e.Binary.FetchOr = func(obj, arg unsafe.Pointer, _ api.Order, ret unsafe.Pointer) { o.Binary.FetchOr(obj, arg, ret) }
	e.Binary.FetchXor = func(obj, arg unsafe.Pointer, _ api.Order, ret unsafe.Pointer) { o.Binary.FetchXor(obj, arg, ret) }
	e.Binary.FetchAnd = func(obj, arg unsafe.Pointer, _ api.Order, ret unsafe.Pointer) { o.Binary.FetchAnd(obj, arg, ret) }
	e.Binary.FetchNot = func(obj unsafe.Pointer, _ api.Order, ret unsafe.Pointer) { o.Binary.FetchNot(obj, ret) }

	e.Signed = arithmeticWithOrder(&o.Signed)
	e.Unsigned = arithmeticWithOrder(&o.Unsigned)
	return e
}

func arithmeticWithOrder(a *api.ArithmeticOps) api.ArithmeticOpsExplicit {
	return api.ArithmeticOpsExplicit{
		Add:      func(obj, arg unsafe.Pointer, _ api.Order) { a.Add(obj, arg) },
		Sub:      func(obj, arg unsafe.Pointer, _ api.Order) { a.Sub(obj, arg) },
		Inc:      func(obj unsafe.Pointer, _ api.Order) { a.Inc(obj) },
		Dec:      func(obj unsafe.Pointer, _ api.Order) { a.Dec(obj) },
		Neg:      func(obj unsafe.Pointer, _ api.Order) { a.Neg(obj) },
		FetchAdd: func(obj, arg unsafe.Pointer, _ api.Order, ret unsafe.Pointer) { a.FetchAdd(obj, arg, ret) },
		FetchSub: func(obj, arg unsafe.Pointer, _ api.Order, ret unsafe.Pointer) { a.FetchSub(obj, arg, ret) },
		FetchInc: func(obj unsafe.Pointer, _ api.Order, ret unsafe.Pointer) { a.FetchInc(obj, ret) },
		FetchDec: func(obj unsafe.Pointer, _ api.Order, ret unsafe.Pointer) { a.FetchDec(obj, ret) },
		FetchNeg: func(obj unsafe.Pointer, _ api.Order, ret unsafe.Pointer) { a.FetchNeg(obj, ret) },
	}
}
