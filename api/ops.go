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

// Operation handles for tables whose memory order is fixed at creation.
//
// Every object and value argument points to width bytes holding an integer in
// host byte order. A nil handle means the operation is not supported.
type (
	StoreFunc      func(obj, desired unsafe.Pointer)
	LoadFunc       func(obj, ret unsafe.Pointer)
	ExchangeFunc   func(obj, desired, ret unsafe.Pointer)
	CmpxchgFunc    func(obj, expected, desired unsafe.Pointer) bool // writes the observed value to expected on failure
	TestFunc       func(obj unsafe.Pointer, offset int) bool
	TestModifyFunc func(obj unsafe.Pointer, offset int) bool // returns the bit's previous value
	VoidFunc       func(obj, arg unsafe.Pointer)
	FetchFunc      func(obj, arg, ret unsafe.Pointer)
	VoidNoargFunc  func(obj unsafe.Pointer)
	FetchNoargFunc func(obj, ret unsafe.Pointer)
)

// XchgOps holds the exchange category.
type XchgOps struct {
	Exchange      ExchangeFunc
	CmpxchgWeak   CmpxchgFunc
	CmpxchgStrong CmpxchgFunc
}

// BitwiseOps holds the bit category. Offsets count bits from the lowest
// addressed byte.
type BitwiseOps struct {
	Test      TestFunc
	TestCompl TestModifyFunc
	TestSet   TestModifyFunc
	TestReset TestModifyFunc
}

// BinaryOps holds the binary void and fetch categories.
type BinaryOps struct {
	Or       VoidFunc
	Xor      VoidFunc
	And      VoidFunc
	Not      VoidNoargFunc
	FetchOr  FetchFunc
	FetchXor FetchFunc
	FetchAnd FetchFunc
	FetchNot FetchNoargFunc
}

// ArithmeticOps holds one signedness of the arithmetic void and fetch
// categories. Overflow wraps.
type ArithmeticOps struct {
	Add      VoidFunc
	Sub      VoidFunc
	Inc      VoidNoargFunc
	Dec      VoidNoargFunc
	Neg      VoidNoargFunc
	FetchAdd FetchFunc
	FetchSub FetchFunc
	FetchInc FetchNoargFunc
	FetchDec FetchNoargFunc
	FetchNeg FetchNoargFunc
}

// Ops is the implicit-order capability table.
type Ops struct {
	Store    StoreFunc
	Load     LoadFunc
	Xchg     XchgOps
	Bitwise  BitwiseOps
	Binary   BinaryOps
	Signed   ArithmeticOps
	Unsigned ArithmeticOps
}

// Implicit is an implicit-order table together with its alignment.
type Implicit struct {
	Ops   Ops
	Align Align
}
