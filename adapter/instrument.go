// Package adapter connects transactional tables to monitoring systems.
package adapter

import (
	"unsafe"

	"github.com/srediag/patomic/api"
)

// Path tells the primary and fallback halves of an operation apart.
type Path string

const (
	PathPrimary  Path = "primary"
	PathFallback Path = "fallback"
)

// Recorder receives one call per finished transaction path.
type Recorder interface {
	Record(op string, path Path, status api.TxStatus, attempts int)
}

// Instrument returns a copy of tx whose present slots report to rec. Absent
// slots stay absent and flag operations are left alone.
func Instrument(tx api.Transaction, rec Recorder) api.Transaction {
	o := &tx.Ops
	o.Store = store(o.Store, rec)
	o.Load = load(o.Load, rec)
	o.Xchg.Exchange = exchange(o.Xchg.Exchange, rec)
	o.Xchg.CmpxchgWeak = cmpxchgWeak(o.Xchg.CmpxchgWeak, rec)
	o.Xchg.CmpxchgStrong = cmpxchgStrong(o.Xchg.CmpxchgStrong, rec)

	o.Bitwise.Test = test("test", o.Bitwise.Test, rec)
	o.Bitwise.TestCompl = testModify("test_compl", o.Bitwise.TestCompl, rec)
	o.Bitwise.TestSet = testModify("test_set", o.Bitwise.TestSet, rec)
	o.Bitwise.TestReset = testModify("test_reset", o.Bitwise.TestReset, rec)

	b := &o.Binary
	b.Or, b.Xor, b.And = void("or", b.Or, rec), void("xor", b.Xor, rec), void("and", b.And, rec)
	b.Not = voidNoarg("not", b.Not, rec)
	b.FetchOr, b.FetchXor, b.FetchAnd = fetch("fetch_or", b.FetchOr, rec), fetch("fetch_xor", b.FetchXor, rec), fetch("fetch_and", b.FetchAnd, rec)
	b.FetchNot = fetchNoarg("fetch_not", b.FetchNot, rec)

	arithmetic("signed_", &o.Signed, rec)
	arithmetic("unsigned_", &o.Unsigned, rec)

	sp := &o.Special
	if f := sp.DoubleCmpxchg; f != nil {
		sp.DoubleCmpxchg = func(a, b api.TxCmpxchg, cfg api.TxConfigWFB) (bool, api.TxResultWFB) {
			ok, r := f(a, b, cfg)
			recordWFB(rec, "double_cmpxchg", r)
			return ok, r
		}
	}
	if f := sp.MultiCmpxchg; f != nil {
		sp.MultiCmpxchg = func(cxs []api.TxCmpxchg, cfg api.TxConfigWFB) (bool, api.TxResultWFB) {
			ok, r := f(cxs, cfg)
			recordWFB(rec, "multi_cmpxchg", r)
			return ok, r
		}
	}
	if f := sp.Generic; f != nil {
		sp.Generic = func(fn func(any), ctx any, cfg api.TxConfig) api.TxResult {
			r := f(fn, ctx, cfg)
			rec.Record("generic", PathPrimary, r.Status, r.AttemptsMade)
			return r
		}
	}
	if f := sp.GenericWFB; f != nil {
		sp.GenericWFB = func(fn func(any), ctx any, fb func(any), fbCtx any, cfg api.TxConfigWFB) api.TxResultWFB {
			r := f(fn, ctx, fb, fbCtx, cfg)
			recordWFB(rec, "generic_wfb", r)
			return r
		}
	}
	if f := o.Raw.TBegin; f != nil {
		o.Raw.TBegin = func() api.TxStatus {
			st := f()
			rec.Record("tbegin", PathPrimary, st, 1)
			return st
		}
	}
	return tx
}

func recordWFB(rec Recorder, op string, r api.TxResultWFB) {
	rec.Record(op, PathPrimary, r.Status, r.AttemptsMade)
	if !r.Status.Committed() {
		rec.Record(op, PathFallback, r.FallbackStatus, r.FallbackAttemptsMade)
	}
}

func store(f api.TxStoreFunc, rec Recorder) api.TxStoreFunc {
	if f == nil {
		return nil
	}
	return func(obj, desired unsafe.Pointer, cfg api.TxConfig) api.TxResult {
		r := f(obj, desired, cfg)
		rec.Record("store", PathPrimary, r.Status, r.AttemptsMade)
		return r
	}
}

func load(f api.TxLoadFunc, rec Recorder) api.TxLoadFunc {
	if f == nil {
		return nil
	}
	return func(obj, ret unsafe.Pointer, cfg api.TxConfig) api.TxResult {
		r := f(obj, ret, cfg)
		rec.Record("load", PathPrimary, r.Status, r.AttemptsMade)
		return r
	}
}

func exchange(f api.TxExchangeFunc, rec Recorder) api.TxExchangeFunc {
	if f == nil {
		return nil
	}
	return func(obj, desired, ret unsafe.Pointer, cfg api.TxConfig) api.TxResult {
		r := f(obj, desired, ret, cfg)
		rec.Record("exchange", PathPrimary, r.Status, r.AttemptsMade)
		return r
	}
}

func cmpxchgWeak(f api.TxCmpxchgWeakFunc, rec Recorder) api.TxCmpxchgWeakFunc {
	if f == nil {
		return nil
	}
	return func(obj, expected, desired unsafe.Pointer, cfg api.TxConfig) (bool, api.TxResult) {
		ok, r := f(obj, expected, desired, cfg)
		rec.Record("cmpxchg_weak", PathPrimary, r.Status, r.AttemptsMade)
		return ok, r
	}
}

func cmpxchgStrong(f api.TxCmpxchgFunc, rec Recorder) api.TxCmpxchgFunc {
	if f == nil {
		return nil
	}
	return func(obj, expected, desired unsafe.Pointer, cfg api.TxConfigWFB) (bool, api.TxResultWFB) {
		ok, r := f(obj, expected, desired, cfg)
		recordWFB(rec, "cmpxchg_strong", r)
		return ok, r
	}
}

func test(op string, f api.TxTestFunc, rec Recorder) api.TxTestFunc {
	if f == nil {
		return nil
	}
	return func(obj unsafe.Pointer, offset int, cfg api.TxConfig) (bool, api.TxResult) {
		v, r := f(obj, offset, cfg)
		rec.Record(op, PathPrimary, r.Status, r.AttemptsMade)
		return v, r
	}
}

func testModify(op string, f api.TxTestModifyFunc, rec Recorder) api.TxTestModifyFunc {
	if f == nil {
		return nil
	}
	return func(obj unsafe.Pointer, offset int, cfg api.TxConfig) (bool, api.TxResult) {
		v, r := f(obj, offset, cfg)
		rec.Record(op, PathPrimary, r.Status, r.AttemptsMade)
		return v, r
	}
}

func void(op string, f api.TxVoidFunc, rec Recorder) api.TxVoidFunc {
	if f == nil {
		return nil
	}
	return func(obj, arg unsafe.Pointer, cfg api.TxConfig) api.TxResult {
		r := f(obj, arg, cfg)
		rec.Record(op, PathPrimary, r.Status, r.AttemptsMade)
		return r
	}
}

func fetch(op string, f api.TxFetchFunc, rec Recorder) api.TxFetchFunc {
	if f == nil {
		return nil
	}
	return func(obj, arg, ret unsafe.Pointer, cfg api.TxConfig) api.TxResult {
		r := f(obj, arg, ret, cfg)
		rec.Record(op, PathPrimary, r.Status, r.AttemptsMade)
		return r
	}
}

func voidNoarg(op string, f api.TxVoidNoargFunc, rec Recorder) api.TxVoidNoargFunc {
	if f == nil {
		return nil
	}
	return func(obj unsafe.Pointer, cfg api.TxConfig) api.TxResult {
		r := f(obj, cfg)
		rec.Record(op, PathPrimary, r.Status, r.AttemptsMade)
		return r
	}
}

func fetchNoarg(op string, f api.TxFetchNoargFunc, rec Recorder) api.TxFetchNoargFunc {
	if f == nil {
		return nil
	}
	return func(obj, ret unsafe.Pointer, cfg api.TxConfig) api.TxResult {
		r := f(obj, ret, cfg)
		rec.Record(op, PathPrimary, r.Status, r.AttemptsMade)
		return r
	}
}

func arithmetic(prefix string, a *api.ArithmeticOpsTransaction, rec Recorder) {
	a.Add = void(prefix+"add", a.Add, rec)
	a.Sub = void(prefix+"sub", a.Sub, rec)
	a.Inc = voidNoarg(prefix+"inc", a.Inc, rec)
	a.Dec = voidNoarg(prefix+"dec", a.Dec, rec)
	a.Neg = voidNoarg(prefix+"neg", a.Neg, rec)
	a.FetchAdd = fetch(prefix+"fetch_add", a.FetchAdd, rec)
	a.FetchSub = fetch(prefix+"fetch_sub", a.FetchSub, rec)
	a.FetchInc = fetchNoarg(prefix+"fetch_inc", a.FetchInc, rec)
	a.FetchDec = fetchNoarg(prefix+"fetch_dec", a.FetchDec, rec)
	a.FetchNeg = fetchNoarg(prefix+"fetch_neg", a.FetchNeg, rec)
}
