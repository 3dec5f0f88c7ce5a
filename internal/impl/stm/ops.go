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

package stm

import (
	"unsafe"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/txn"
	"github.com/srediag/patomic/internal/wide"
)

type (
	binary func(dst, a, b []byte)
	unary  func(dst, a []byte)
)

func build() api.OpsTransaction {
	var o api.OpsTransaction

	o.Store = func(obj, desired unsafe.Pointer, cfg api.TxConfig) api.TxResult {
		return txn.Run(cfg.Attempts, func() api.TxStatus {
			return update(obj, cfg.Width, cfg.Flag, try, func(_, next []byte) bool {
				copy(next, wide.Bytes(desired, cfg.Width))
				return true
			}, nil)
		})
	}
	o.Load = func(obj, ret unsafe.Pointer, cfg api.TxConfig) api.TxResult {
		return txn.Run(cfg.Attempts, func() api.TxStatus {
			return update(obj, cfg.Width, cfg.Flag, try, func([]byte, []byte) bool {
				return false
			}, func(cur []byte) {
				copy(wide.Bytes(ret, cfg.Width), cur)
			})
		})
	}

	o.Xchg = api.XchgOpsTransaction{
		Exchange: func(obj, desired, ret unsafe.Pointer, cfg api.TxConfig) api.TxResult {
			return txn.Run(cfg.Attempts, func() api.TxStatus {
				return update(obj, cfg.Width, cfg.Flag, try, func(_, next []byte) bool {
					copy(next, wide.Bytes(desired, cfg.Width))
					return true
				}, func(cur []byte) {
					copy(wide.Bytes(ret, cfg.Width), cur)
				})
			})
		},
		CmpxchgWeak: func(obj, expected, desired unsafe.Pointer, cfg api.TxConfig) (bool, api.TxResult) {
			var ok bool
			res := txn.Run(cfg.Attempts, func() api.TxStatus {
				return cmpxchg(obj, expected, desired, cfg.Width, cfg.Flag, try, &ok)
			})
			return ok && res.Status.Committed(), res
		},
		CmpxchgStrong: func(obj, expected, desired unsafe.Pointer, cfg api.TxConfigWFB) (bool, api.TxResultWFB) {
			var ok bool
			res := txn.RunWFB(cfg, func() api.TxStatus {
				return cmpxchg(obj, expected, desired, cfg.Width, cfg.Flag, try, &ok)
			}, func() api.TxStatus {
				return cmpxchg(obj, expected, desired, cfg.Width, cfg.FallbackFlag, wait, &ok)
			})
			return ok && res.Committed(), res
		},
	}

	o.Bitwise = api.BitwiseOpsTransaction{
		Test: func(obj unsafe.Pointer, offset int, cfg api.TxConfig) (bool, api.TxResult) {
			var set bool
			res := txn.Run(cfg.Attempts, func() api.TxStatus {
				return update(obj, cfg.Width, cfg.Flag, try, func(cur, _ []byte) bool {
					at, m, ok := wide.Bit(cfg.Width, offset)
					set = ok && cur[at]&m != 0
					return false
				}, nil)
			})
			return set && res.Status.Committed(), res
		},
		TestCompl: testModify(func(v, m byte) byte { return v ^ m }),
		TestSet:   testModify(func(v, m byte) byte { return v | m }),
		TestReset: testModify(func(v, m byte) byte { return v &^ m }),
	}

	o.Binary = api.BinaryOpsTransaction{
		Or:       void(wide.Or),
		Xor:      void(wide.Xor),
		And:      void(wide.And),
		Not:      voidNoarg(wide.Not),
		FetchOr:  fetch(wide.Or),
		FetchXor: fetch(wide.Xor),
		FetchAnd: fetch(wide.And),
		FetchNot: fetchNoarg(wide.Not),
	}
	o.Signed = api.ArithmeticOpsTransaction{
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

	o.Special = api.SpecialOpsTransaction{
		DoubleCmpxchg: doubleCmpxchg,
		MultiCmpxchg:  multiCmpxchg,
		Generic:       generic,
		GenericWFB:    genericWFB,
	}
	o.Flag = api.FlagOpsTransaction{
		Test:    txn.FlagTest,
		TestSet: txn.FlagTestSet,
		Clear:   txn.FlagClear,
	}
	o.Raw = api.RawOpsTransaction{
		TBegin:  TBegin,
		TAbort:  TAbort,
		TCommit: TCommit,
		TTest:   TTest,
	}
	return o
}

func cmpxchg(obj, expected, desired unsafe.Pointer, width int, flag *api.TxFlag, m mode, ok *bool) api.TxStatus {
	return update(obj, width, flag, m, func(cur, next []byte) bool {
		*ok = wide.Equal(cur, wide.Bytes(expected, width))
		copy(next, wide.Bytes(desired, width))
		return *ok
	}, func(cur []byte) {
		if !*ok {
			copy(wide.Bytes(expected, width), cur)
		}
	})
}

func testModify(f func(v, m byte) byte) api.TxTestModifyFunc {
	return func(obj unsafe.Pointer, offset int, cfg api.TxConfig) (bool, api.TxResult) {
		var old bool
		res := txn.Run(cfg.Attempts, func() api.TxStatus {
			return update(obj, cfg.Width, cfg.Flag, try, func(cur, next []byte) bool {
				at, m, ok := wide.Bit(cfg.Width, offset)
				if !ok {
					old = false
					return false
				}
				copy(next, cur)
				old = cur[at]&m != 0
				next[at] = f(cur[at], m)
				return true
			}, nil)
		})
		return old && res.Status.Committed(), res
	}
}

func void(f binary) api.TxVoidFunc {
	return func(obj, arg unsafe.Pointer, cfg api.TxConfig) api.TxResult {
		return txn.Run(cfg.Attempts, func() api.TxStatus {
			return update(obj, cfg.Width, cfg.Flag, try, func(cur, next []byte) bool {
				f(next, cur, wide.Bytes(arg, cfg.Width))
				return true
			}, nil)
		})
	}
}

func fetch(f binary) api.TxFetchFunc {
	return func(obj, arg, ret unsafe.Pointer, cfg api.TxConfig) api.TxResult {
		return txn.Run(cfg.Attempts, func() api.TxStatus {
			return update(obj, cfg.Width, cfg.Flag, try, func(cur, next []byte) bool {
				f(next, cur, wide.Bytes(arg, cfg.Width))
				return true
			}, func(cur []byte) {
				copy(wide.Bytes(ret, cfg.Width), cur)
			})
		})
	}
}

func voidNoarg(f unary) api.TxVoidNoargFunc {
	return func(obj unsafe.Pointer, cfg api.TxConfig) api.TxResult {
		return txn.Run(cfg.Attempts, func() api.TxStatus {
			return update(obj, cfg.Width, cfg.Flag, try, func(cur, next []byte) bool {
				f(next, cur)
				return true
			}, nil)
		})
	}
}

func fetchNoarg(f unary) api.TxFetchNoargFunc {
	return func(obj, ret unsafe.Pointer, cfg api.TxConfig) api.TxResult {
		return txn.Run(cfg.Attempts, func() api.TxStatus {
			return update(obj, cfg.Width, cfg.Flag, try, func(cur, next []byte) bool {
				f(next, cur)
				return true
			}, func(cur []byte) {
				copy(wide.Bytes(ret, cfg.Width), cur)
			})
		})
	}
}
