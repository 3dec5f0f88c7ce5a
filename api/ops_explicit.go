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

package api

import "unsafe"

// Operation handles for tables whose memory order is chosen per call.
type (
	StoreExplicitFunc      func(obj, desired unsafe.Pointer, order Order)
	LoadExplicitFunc       func(obj unsafe.Pointer, order Order, ret unsafe.Pointer)
	ExchangeExplicitFunc   func(obj, desired unsafe.Pointer, order Order, ret unsafe.Pointer)
	CmpxchgExplicitFunc    func(obj, expected, desired unsafe.Pointer, succ, fail Order) bool
	TestExplicitFunc       func(obj unsafe.Pointer, offset int, order Order) bool
	TestModifyExplicitFunc func(obj unsafe.Pointer, offset int, order Order) bool
	VoidExplicitFunc       func(obj, arg unsafe.Pointer, order Order)
	FetchExplicitFunc      func(obj, arg unsafe.Pointer, order Order, ret unsafe.Pointer)
	VoidNoargExplicitFunc  func(obj unsafe.Pointer, order Order)
	FetchNoargExplicitFunc func(obj unsafe.Pointer, order Order, ret unsafe.Pointer)
)

type XchgOpsExplicit struct {
	Exchange      ExchangeExplicitFunc
	CmpxchgWeak   CmpxchgExplicitFunc
	CmpxchgStrong CmpxchgExplicitFunc
}

type BitwiseOpsExplicit struct {
	Test      TestExplicitFunc
	TestCompl TestModifyExplicitFunc
	TestSet   TestModifyExplicitFunc
	TestReset TestModifyExplicitFunc
}

type BinaryOpsExplicit struct {
	Or       VoidExplicitFunc
	Xor      VoidExplicitFunc
	And      VoidExplicitFunc
	Not      VoidNoargExplicitFunc
	FetchOr  FetchExplicitFunc
	FetchXor FetchExplicitFunc
	FetchAnd FetchExplicitFunc
	FetchNot FetchNoargExplicitFunc
}

type ArithmeticOpsExplicit struct {
	Add      VoidExplicitFunc
	Sub      VoidExplicitFunc
	Inc      VoidNoargExplicitFunc
	Dec      VoidNoargExplicitFunc
	Neg      VoidNoargExplicitFunc
	FetchAdd FetchExplicitFunc
	FetchSub FetchExplicitFunc
	FetchInc FetchNoargExplicitFunc
	FetchDec FetchNoargExplicitFunc
	FetchNeg FetchNoargExplicitFunc
}

// OpsExplicit is the explicit-order capability table. Callers must pass
// orders valid for the operation (see IsValidStoreOrder and friends).
type OpsExplicit struct {
	Store    StoreExplicitFunc
	Load     LoadExplicitFunc
	Xchg     XchgOpsExplicit
	Bitwise  BitwiseOpsExplicit
	Binary   BinaryOpsExplicit
	Signed   ArithmeticOpsExplicit
	Unsigned ArithmeticOpsExplicit
}

// Explicit is an explicit-order table together with its alignment.
type Explicit struct {
	Ops   OpsExplicit
	Align Align
}
