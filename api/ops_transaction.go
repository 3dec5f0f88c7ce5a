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

// Operation handles for transactional tables. The object width comes from
// the config, not from table creation.
type (
	TxStoreFunc         func(obj, desired unsafe.Pointer, cfg TxConfig) TxResult
	TxLoadFunc          func(obj, ret unsafe.Pointer, cfg TxConfig) TxResult
	TxExchangeFunc      func(obj, desired, ret unsafe.Pointer, cfg TxConfig) TxResult
	TxCmpxchgWeakFunc   func(obj, expected, desired unsafe.Pointer, cfg TxConfig) (bool, TxResult)
	TxCmpxchgFunc       func(obj, expected, desired unsafe.Pointer, cfg TxConfigWFB) (bool, TxResultWFB)
	TxTestFunc          func(obj unsafe.Pointer, offset int, cfg TxConfig) (bool, TxResult)
	TxTestModifyFunc    func(obj unsafe.Pointer, offset int, cfg TxConfig) (bool, TxResult)
	TxVoidFunc          func(obj, arg unsafe.Pointer, cfg TxConfig) TxResult
	TxFetchFunc         func(obj, arg, ret unsafe.Pointer, cfg TxConfig) TxResult
	TxVoidNoargFunc     func(obj unsafe.Pointer, cfg TxConfig) TxResult
	TxFetchNoargFunc    func(obj, ret unsafe.Pointer, cfg TxConfig) TxResult
	TxDoubleCmpxchgFunc func(a, b TxCmpxchg, cfg TxConfigWFB) (bool, TxResultWFB)
	TxMultiCmpxchgFunc  func(cxs []TxCmpxchg, cfg TxConfigWFB) (bool, TxResultWFB)
	TxGenericFunc       func(fn func(ctx any), ctx any, cfg TxConfig) TxResult
	TxGenericWFBFunc    func(fn func(ctx any), ctx any, fallback func(ctx any), fallbackCtx any, cfg TxConfigWFB) TxResultWFB
	TxFlagTestFunc      func(flag *TxFlag) bool
	TxFlagTestSetFunc   func(flag *TxFlag) bool
	TxFlagClearFunc     func(flag *TxFlag)
	TxBeginFunc         func() TxStatus
	TxAbortFunc         func(reason uint32) // reason is truncated to 8 bits
	TxCommitFunc        func()
	TxTestRawFunc       func() int // nesting depth, 0 outside a transaction
)

type XchgOpsTransaction struct {
	Exchange      TxExchangeFunc
	CmpxchgWeak   TxCmpxchgWeakFunc
	CmpxchgStrong TxCmpxchgFunc
}

type BitwiseOpsTransaction struct {
	Test      TxTestFunc
	TestCompl TxTestModifyFunc
	TestSet   TxTestModifyFunc
	TestReset TxTestModifyFunc
}

type BinaryOpsTransaction struct {
	Or       TxVoidFunc
	Xor      TxVoidFunc
	And      TxVoidFunc
	Not      TxVoidNoargFunc
	FetchOr  TxFetchFunc
	FetchXor TxFetchFunc
	FetchAnd TxFetchFunc
	FetchNot TxFetchNoargFunc
}

type ArithmeticOpsTransaction struct {
	Add      TxVoidFunc
	Sub      TxVoidFunc
	Inc      TxVoidNoargFunc
	Dec      TxVoidNoargFunc
	Neg      TxVoidNoargFunc
	FetchAdd TxFetchFunc
	FetchSub TxFetchFunc
	FetchInc TxFetchNoargFunc
	FetchDec TxFetchNoargFunc
	FetchNeg TxFetchNoargFunc
}

// SpecialOpsTransaction holds operations that only make sense inside a
// transaction. Generic ignores the config width.
type SpecialOpsTransaction struct {
	DoubleCmpxchg TxDoubleCmpxchgFunc
	MultiCmpxchg  TxMultiCmpxchgFunc
	Generic       TxGenericFunc
	GenericWFB    TxGenericWFBFunc
}

// FlagOpsTransaction manipulates abort flags.
type FlagOpsTransaction struct {
	Test    TxFlagTestFunc
	TestSet TxFlagTestSetFunc
	Clear   TxFlagClearFunc
}

// RawOpsTransaction exposes the transactional mechanism without retry or
// flag handling.
type RawOpsTransaction struct {
	TBegin  TxBeginFunc
	TAbort  TxAbortFunc
	TCommit TxCommitFunc
	TTest   TxTestRawFunc
}

// OpsTransaction is the transactional capability table.
type OpsTransaction struct {
	Store    TxStoreFunc
	Load     TxLoadFunc
	Xchg     XchgOpsTransaction
	Bitwise  BitwiseOpsTransaction
	Binary   BinaryOpsTransaction
	Signed   ArithmeticOpsTransaction
	Unsigned ArithmeticOpsTransaction
	Special  SpecialOpsTransaction
	Flag     FlagOpsTransaction
	Raw      RawOpsTransaction
}

// Transaction is a transactional table together with its alignment.
type Transaction struct {
	Ops   OpsTransaction
	Align Align
}
