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
	"sync"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/slots"
	"github.com/srediag/patomic/internal/stripe"
	"github.com/srediag/patomic/internal/txn"
	"github.com/srediag/patomic/pkg/feature"
)

type STMTestSuite struct {
	suite.Suite
	ops api.OpsTransaction
}

func (s *STMTestSuite) SetupTest() {
	s.ops = OpsTransaction(api.OptionNone).Ops
}

func up(v *uint64) unsafe.Pointer { return unsafe.Pointer(v) }

func cfg(attempts int) api.TxConfig {
	return api.TxConfig{Width: 8, Attempts: attempts}
}

func (s *STMTestSuite) TestTableIsComplete() {
	t := OpsTransaction(api.OptionNone)
	s.Equal(api.OpcatNone, feature.CheckAllTransaction(&t.Ops, api.OpcatTransaction))
	s.Equal(Align, t.Align)

	i := Provider.Ops(8, api.SeqCst, api.OptionNone)
	s.Equal(api.OpcatImplicit, feature.CheckAny(&i.Ops, api.OpcatImplicit))
}

func (s *STMTestSuite) TestZeroAttempts() {
	var obj, arg, ret uint64 = 5, 1, 0
	o, a, r := up(&obj), up(&arg), up(&ret)
	c := cfg(0)
	wfb := api.TxConfigWFB{Width: 8}
	one := func(res api.TxResult) api.TxResultWFB {
		return api.TxResultWFB{Status: res.Status, AttemptsMade: res.AttemptsMade, FallbackStatus: api.TxExplicit(0)}
	}
	pair := func(_ bool, res api.TxResult) api.TxResultWFB { return one(res) }
	pairWFB := func(_ bool, res api.TxResultWFB) api.TxResultWFB { return res }
	cx := api.TxCmpxchg{Obj: o, Expected: a, Desired: r, Width: 8}
	ran := false
	body := func(any) { ran = true }

	arith := func(prefix string, ar api.ArithmeticOpsTransaction) map[string]func() api.TxResultWFB {
		return map[string]func() api.TxResultWFB{
			prefix + "add":       func() api.TxResultWFB { return one(ar.Add(o, a, c)) },
			prefix + "sub":       func() api.TxResultWFB { return one(ar.Sub(o, a, c)) },
			prefix + "inc":       func() api.TxResultWFB { return one(ar.Inc(o, c)) },
			prefix + "dec":       func() api.TxResultWFB { return one(ar.Dec(o, c)) },
			prefix + "neg":       func() api.TxResultWFB { return one(ar.Neg(o, c)) },
			prefix + "fetch_add": func() api.TxResultWFB { return one(ar.FetchAdd(o, a, r, c)) },
			prefix + "fetch_sub": func() api.TxResultWFB { return one(ar.FetchSub(o, a, r, c)) },
			prefix + "fetch_inc": func() api.TxResultWFB { return one(ar.FetchInc(o, r, c)) },
			prefix + "fetch_dec": func() api.TxResultWFB { return one(ar.FetchDec(o, r, c)) },
			prefix + "fetch_neg": func() api.TxResultWFB { return one(ar.FetchNeg(o, r, c)) },
		}
	}
	ops := map[string]func() api.TxResultWFB{
		"store":          func() api.TxResultWFB { return one(s.ops.Store(o, a, c)) },
		"load":           func() api.TxResultWFB { return one(s.ops.Load(o, r, c)) },
		"exchange":       func() api.TxResultWFB { return one(s.ops.Xchg.Exchange(o, a, r, c)) },
		"cmpxchg_weak":   func() api.TxResultWFB { return pair(s.ops.Xchg.CmpxchgWeak(o, a, r, c)) },
		"cmpxchg_strong": func() api.TxResultWFB { return pairWFB(s.ops.Xchg.CmpxchgStrong(o, a, r, wfb)) },
		"test":           func() api.TxResultWFB { return pair(s.ops.Bitwise.Test(o, 0, c)) },
		"test_compl":     func() api.TxResultWFB { return pair(s.ops.Bitwise.TestCompl(o, 0, c)) },
		"test_set":       func() api.TxResultWFB { return pair(s.ops.Bitwise.TestSet(o, 1, c)) },
		"test_reset":     func() api.TxResultWFB { return pair(s.ops.Bitwise.TestReset(o, 0, c)) },
		"or":             func() api.TxResultWFB { return one(s.ops.Binary.Or(o, a, c)) },
		"xor":            func() api.TxResultWFB { return one(s.ops.Binary.Xor(o, a, c)) },
		"and":            func() api.TxResultWFB { return one(s.ops.Binary.And(o, a, c)) },
		"not":            func() api.TxResultWFB { return one(s.ops.Binary.Not(o, c)) },
		"fetch_or":       func() api.TxResultWFB { return one(s.ops.Binary.FetchOr(o, a, r, c)) },
		"fetch_xor":      func() api.TxResultWFB { return one(s.ops.Binary.FetchXor(o, a, r, c)) },
		"fetch_and":      func() api.TxResultWFB { return one(s.ops.Binary.FetchAnd(o, a, r, c)) },
		"fetch_not":      func() api.TxResultWFB { return one(s.ops.Binary.FetchNot(o, r, c)) },
		"double_cmpxchg": func() api.TxResultWFB { return pairWFB(s.ops.Special.DoubleCmpxchg(cx, cx, wfb)) },
		"multi_cmpxchg":  func() api.TxResultWFB { return pairWFB(s.ops.Special.MultiCmpxchg([]api.TxCmpxchg{cx}, wfb)) },
		"generic":        func() api.TxResultWFB { return one(s.ops.Special.Generic(body, nil, c)) },
		"generic_wfb":    func() api.TxResultWFB { return s.ops.Special.GenericWFB(body, nil, body, nil, wfb) },
	}
	for name, fn := range arith("signed_", s.ops.Signed) {
		ops[name] = fn
	}
	for name, fn := range arith("unsigned_", s.ops.Unsigned) {
		ops[name] = fn
	}

	attempted := 0
	for _, sl := range slots.Transaction {
		if sl.Cat&(api.OpcatTflag|api.OpcatTraw) == 0 {
			attempted++
		}
	}
	s.Require().Len(ops, attempted, "every attempt-driven slot is exercised")

	want := api.TxResultWFB{Status: api.TxExplicit(0), FallbackStatus: api.TxExplicit(0)}
	for name, fn := range ops {
		s.Equal(want, fn(), name)
	}
	s.Equal(uint64(5), obj)
	s.Equal(uint64(1), arg)
	s.Zero(ret)
	s.False(ran)
}

func (s *STMTestSuite) TestFallbackOnlyBudget() {
	obj, exp, des := uint64(3), uint64(3), uint64(4)
	ok, r := s.ops.Xchg.CmpxchgStrong(up(&obj), up(&exp), up(&des),
		api.TxConfigWFB{Width: 8, Attempts: 0, FallbackAttempts: 5})
	s.True(ok)
	s.Equal(api.TxExplicit(0), r.Status)
	s.Equal(0, r.AttemptsMade)
	s.Equal(api.TxSuccess, r.FallbackStatus)
	s.Equal(1, r.FallbackAttemptsMade)
	s.Equal(uint64(4), obj)
}

func (s *STMTestSuite) TestDataOps() {
	var obj, arg, ret uint64 = 0, 40, 0
	s.True(s.ops.Store(up(&obj), up(&arg), cfg(1)).Status.Committed())
	s.Equal(uint64(40), obj)

	arg = 2
	r := s.ops.Unsigned.FetchAdd(up(&obj), up(&arg), up(&ret), cfg(1))
	s.Equal(api.TxResult{Status: api.TxSuccess, AttemptsMade: 1}, r)
	s.Equal(uint64(40), ret)
	s.Equal(uint64(42), obj)

	s.ops.Load(up(&obj), up(&ret), cfg(1))
	s.Equal(uint64(42), ret)

	exp, des := uint64(1), uint64(9)
	ok, r := s.ops.Xchg.CmpxchgWeak(up(&obj), up(&exp), up(&des), cfg(1))
	s.True(r.Status.Committed())
	s.False(ok)
	s.Equal(uint64(42), exp)
	ok, _ = s.ops.Xchg.CmpxchgWeak(up(&obj), up(&exp), up(&des), cfg(1))
	s.True(ok)
	s.Equal(uint64(9), obj)

	set, _ := s.ops.Bitwise.TestSet(up(&obj), 1, cfg(1))
	s.False(set)
	set, _ = s.ops.Bitwise.Test(up(&obj), 1, cfg(1))
	s.True(set)
	set, _ = s.ops.Bitwise.TestReset(up(&obj), 3, cfg(1))
	s.True(set)
	s.Equal(uint64(3), obj)

	s.ops.Signed.Neg(up(&obj), cfg(1))
	s.Equal(^uint64(3)+1, obj)
	s.ops.Binary.Not(up(&obj), cfg(1))
	s.Equal(uint64(2), obj)
}

func (s *STMTestSuite) TestZeroWidth() {
	var obj, ret uint64 = 7, 0
	r := s.ops.Load(up(&obj), up(&ret), api.TxConfig{Attempts: 1})
	s.Equal(api.TxSuccess, r.Status)
	s.Zero(ret)
}

func (s *STMTestSuite) TestConflictExhaustsBudget() {
	var obj, arg uint64 = 1, 2
	i := stripe.Index(up(&obj))
	stripe.Lock(i)
	r := s.ops.Store(up(&obj), up(&arg), cfg(3))
	stripe.Unlock(i)
	s.Equal(api.TxAbortConflict, r.Status)
	s.Equal(3, r.AttemptsMade)
	s.Equal(uint64(1), obj)
}

func (s *STMTestSuite) TestFallbackWaitsForStripe() {
	obj, exp, des := uint64(1), uint64(1), uint64(2)
	i := stripe.Index(up(&obj))
	stripe.Lock(i)
	go func() {
		time.Sleep(10 * time.Millisecond)
		stripe.Unlock(i)
	}()
	ok, r := s.ops.Xchg.CmpxchgStrong(up(&obj), up(&exp), up(&des),
		api.TxConfigWFB{Width: 8, Attempts: 2, FallbackAttempts: 1})
	s.True(ok)
	s.Equal(api.TxAbortConflict, r.Status)
	s.Equal(2, r.AttemptsMade)
	s.Equal(api.TxSuccess, r.FallbackStatus)
	s.Equal(uint64(2), obj)
}

func (s *STMTestSuite) TestFlagChangeAbortsAttempt() {
	var flag api.TxFlag
	obj := uint64(1)
	st := update(up(&obj), 8, &flag, try, func(_, next []byte) bool {
		next[0] = 0xee
		txn.Bump(&flag)
		return true
	}, nil)
	s.Equal(api.TxAbortConflict, st)
	s.Equal(uint64(1), obj)

	st = update(up(&obj), 8, &flag, try, func(_, next []byte) bool {
		copy(next, make([]byte, 8))
		return true
	}, nil)
	s.Equal(api.TxSuccess, st)
	s.Zero(obj)
}

func (s *STMTestSuite) TestDoubleAndMultiCmpxchg() {
	var a, b, c uint64 = 1, 2, 3
	ea, eb, ec := uint64(1), uint64(2), uint64(30)
	da, db, dc := uint64(10), uint64(20), uint64(30)
	wfb := api.TxConfigWFB{Attempts: 1}

	ok, r := s.ops.Special.DoubleCmpxchg(
		api.TxCmpxchg{Obj: up(&a), Expected: up(&ea), Desired: up(&da), Width: 8},
		api.TxCmpxchg{Obj: up(&b), Expected: up(&eb), Desired: up(&db), Width: 8}, wfb)
	s.True(ok)
	s.True(r.Committed())
	s.Equal([]uint64{10, 20}, []uint64{a, b})

	cxs := []api.TxCmpxchg{
		{Obj: up(&a), Expected: up(&da), Desired: up(&ea), Width: 8},
		{Obj: up(&c), Expected: up(&ec), Desired: up(&dc), Width: 8},
	}
	ok, r = s.ops.Special.MultiCmpxchg(cxs, wfb)
	s.False(ok)
	s.True(r.Committed())
	s.Equal(uint64(10), a, "all or nothing")
	s.Equal(uint64(3), ec)

	ok, _ = s.ops.Special.MultiCmpxchg(cxs, wfb)
	s.True(ok)
	s.Equal([]uint64{1, 30}, []uint64{a, c})
}

func (s *STMTestSuite) TestGeneric() {
	n := 0
	r := s.ops.Special.Generic(func(ctx any) { n += ctx.(int) }, 5, cfg(1))
	s.Equal(api.TxSuccess, r.Status)
	s.Equal(5, n)

	w := s.ops.Special.GenericWFB(func(any) { n++ }, nil, func(any) { n = -1 }, nil,
		api.TxConfigWFB{Attempts: 0, FallbackAttempts: 1})
	s.Equal(api.TxSuccess, w.FallbackStatus)
	s.Equal(-1, n)

	w = s.ops.Special.GenericWFB(func(any) {}, nil, nil, nil,
		api.TxConfigWFB{Attempts: 0, FallbackAttempts: 3})
	s.Equal(api.TxExplicit(0), w.FallbackStatus)
	s.Zero(w.FallbackAttemptsMade)
}

func (s *STMTestSuite) TestRawTransaction() {
	s.Equal(0, s.ops.Raw.TTest())
	s.Require().Equal(api.TxSuccess, s.ops.Raw.TBegin())
	s.Equal(1, s.ops.Raw.TTest())
	s.Equal(api.TxAbortNested, s.ops.Raw.TBegin())

	var obj, arg uint64 = 0, 1
	r := s.ops.Store(up(&obj), up(&arg), cfg(2))
	s.Equal(api.TxAbortNested, r.Status)
	s.Equal(2, r.AttemptsMade)

	w := s.ops.Special.GenericWFB(func(any) {}, nil, func(any) {}, nil,
		api.TxConfigWFB{Attempts: 1, FallbackAttempts: 1})
	s.Equal(api.TxAbortNested, w.Status)
	s.Equal(api.TxAbortNested, w.FallbackStatus)

	s.ops.Raw.TAbort(0x1ff)
	s.Equal(0, s.ops.Raw.TTest())
	s.Equal(uint8(0xff), LastAbort().Reason())

	s.ops.Raw.TCommit()
	s.Require().Equal(api.TxSuccess, s.ops.Raw.TBegin())
	s.ops.Raw.TCommit()
	s.True(s.ops.Store(up(&obj), up(&arg), cfg(1)).Status.Committed())
}

func (s *STMTestSuite) TestFallbackInsideGenericBody() {
	var obj, exp, des uint64 = 1, 1, 2
	var ok bool
	var inner api.TxResultWFB
	done := make(chan api.TxResult, 1)
	go func() {
		done <- s.ops.Special.Generic(func(any) {
			ok, inner = s.ops.Xchg.CmpxchgStrong(up(&obj), up(&exp), up(&des),
				api.TxConfigWFB{Width: 8, Attempts: 1, FallbackAttempts: 1})
		}, nil, cfg(1))
	}()

	select {
	case r := <-done:
		s.Equal(api.TxSuccess, r.Status)
	case <-time.After(2 * time.Second):
		s.FailNow("generic body blocked on its own gate")
	}
	s.False(ok)
	s.Equal(api.TxAbortNested, inner.Status)
	s.Equal(api.TxAbortNested, inner.FallbackStatus)
	s.Equal(uint64(1), obj)

	s.Require().Equal(api.TxSuccess, s.ops.Raw.TBegin(), "gate released after the body")
	s.ops.Raw.TCommit()
}

func (s *STMTestSuite) TestRawTransactionIsPerGoroutine() {
	s.Require().Equal(api.TxSuccess, s.ops.Raw.TBegin())

	var obj, exp, des uint64 = 1, 1, 2
	seen := make(chan int, 1)
	done := make(chan api.TxResultWFB, 1)
	go func() {
		seen <- s.ops.Raw.TTest()
		s.ops.Raw.TCommit()
		s.ops.Raw.TAbort(7)
		s.Equal(api.TxAbortConflict, s.ops.Raw.TBegin())
		_, r := s.ops.Xchg.CmpxchgStrong(up(&obj), up(&exp), up(&des),
			api.TxConfigWFB{Width: 8, Attempts: 0, FallbackAttempts: 5})
		done <- r
	}()

	s.Equal(0, <-seen)
	select {
	case <-done:
		s.Fail("fallback ran while another goroutine held the transaction")
	case <-time.After(20 * time.Millisecond):
	}
	s.Equal(1, s.ops.Raw.TTest(), "other goroutines cannot end the transaction")
	s.ops.Raw.TCommit()
	s.Equal(0, s.ops.Raw.TTest())

	select {
	case r := <-done:
		s.Equal(api.TxSuccess, r.FallbackStatus)
		s.Equal(1, r.FallbackAttemptsMade)
	case <-time.After(2 * time.Second):
		s.FailNow("fallback never resumed")
	}
	s.Equal(uint64(2), obj)
}

func (s *STMTestSuite) TestFlags() {
	var f api.TxFlag
	s.False(s.ops.Flag.TestSet(&f))
	s.True(s.ops.Flag.Test(&f))
	s.ops.Flag.Clear(&f)
	s.False(s.ops.Flag.Test(&f))
}

func TestSTMTestSuite(t *testing.T) {
	suite.Run(t, new(STMTestSuite))
}

func TestConcurrentIncrements(t *testing.T) {
	ops := OpsTransaction(api.OptionNone).Ops
	require.NotNil(t, ops.Unsigned.Inc)
	var obj uint64
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				for !ops.Unsigned.Inc(unsafe.Pointer(&obj), api.TxConfig{Width: 8, Attempts: 16}).Status.Committed() {
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(4000), obj)
}
