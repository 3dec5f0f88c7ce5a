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

package native

import (
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/pkg/feature"
)

type NativeTestSuite struct {
	suite.Suite
	ops32 api.Ops
	ops64 api.Ops
}

func (s *NativeTestSuite) SetupTest() {
	s.ops32 = Ops(4, api.SeqCst, api.OptionNone).Ops
	s.ops64 = Ops(8, api.SeqCst, api.OptionNone).Ops
}

func p[T any](v *T) unsafe.Pointer { return unsafe.Pointer(v) }

func (s *NativeTestSuite) TestUnsupportedWidthIsEmpty() {
	for _, w := range []int{0, 1, 2, 3, 16} {
		t := Ops(w, api.SeqCst, api.OptionNone)
		s.Equal(api.OpcatImplicit, feature.CheckAny(&t.Ops, api.OpcatImplicit), "width %d", w)
		s.Equal(api.Align{}, t.Align)
		e := OpsExplicit(w, api.OptionNone)
		s.Equal(api.OpcatExplicit, feature.CheckAnyExplicit(&e.Ops, api.OpcatExplicit), "width %d", w)
	}
	t := Ops(8, api.Order(42), api.OptionNone)
	s.Equal(api.OpcatImplicit, feature.CheckAny(&t.Ops, api.OpcatImplicit))
}

func (s *NativeTestSuite) TestOrderSelectsLoadStore() {
	t := Ops(8, api.Acquire, api.OptionNone)
	s.Equal(api.OpkindStore, feature.CheckLeaf(&t.Ops, api.OpcatLdst, api.OpkindLdst))
	t = Ops(8, api.Release, api.OptionNone)
	s.Equal(api.OpkindLoad, feature.CheckLeaf(&t.Ops, api.OpcatLdst, api.OpkindLdst))
	t = Ops(8, api.AcqRel, api.OptionNone)
	s.Equal(api.OpkindLdst, feature.CheckLeaf(&t.Ops, api.OpcatLdst, api.OpkindLdst))
	s.Equal(api.OpcatLdst, feature.CheckAll(&t.Ops, api.OpcatImplicit))

	t = Ops(4, api.SeqCst, api.OptionNone)
	s.Equal(api.OpcatNone, feature.CheckAll(&t.Ops, api.OpcatImplicit))
	s.Equal(api.Align{Recommended: 4, Minimum: 4}, t.Align)

	e := OpsExplicit(8, api.OptionNone)
	s.Equal(api.OpcatNone, feature.CheckAllExplicit(&e.Ops, api.OpcatExplicit))
}

func (s *NativeTestSuite) TestLoadStoreExchange() {
	var obj, v, ret uint64
	v = 0xdeadbeefcafe
	s.ops64.Store(p(&obj), p(&v))
	s.ops64.Load(p(&obj), p(&ret))
	s.Equal(v, ret)

	v = 7
	s.ops64.Xchg.Exchange(p(&obj), p(&v), p(&ret))
	s.Equal(uint64(0xdeadbeefcafe), ret)
	s.Equal(uint64(7), obj)
}

func (s *NativeTestSuite) TestCmpxchg() {
	obj, exp, des := uint32(5), uint32(4), uint32(9)
	s.False(s.ops32.Xchg.CmpxchgStrong(p(&obj), p(&exp), p(&des)))
	s.Equal(uint32(5), exp)
	s.True(s.ops32.Xchg.CmpxchgStrong(p(&obj), p(&exp), p(&des)))
	s.Equal(uint32(9), obj)

	exp = 9
	des = 1
	for !s.ops32.Xchg.CmpxchgWeak(p(&obj), p(&exp), p(&des)) {
	}
	s.Equal(uint32(1), obj)
}

func (s *NativeTestSuite) TestBitwise() {
	var obj uint64
	s.False(s.ops64.Bitwise.TestSet(p(&obj), 63))
	s.True(s.ops64.Bitwise.Test(p(&obj), 63))
	s.True(s.ops64.Bitwise.TestSet(p(&obj), 63))
	s.True(s.ops64.Bitwise.TestCompl(p(&obj), 63))
	s.False(s.ops64.Bitwise.Test(p(&obj), 63))
	s.False(s.ops64.Bitwise.TestCompl(p(&obj), 0))
	s.True(s.ops64.Bitwise.TestReset(p(&obj), 0))
	s.Zero(obj)
	s.False(s.ops64.Bitwise.TestSet(p(&obj), 64))
	s.Zero(obj)
}

func (s *NativeTestSuite) TestBinary() {
	obj, arg, ret := uint32(0b1100), uint32(0b1010), uint32(0)
	s.ops32.Binary.FetchOr(p(&obj), p(&arg), p(&ret))
	s.Equal(uint32(0b1100), ret)
	s.Equal(uint32(0b1110), obj)
	s.ops32.Binary.FetchXor(p(&obj), p(&arg), p(&ret))
	s.Equal(uint32(0b0100), obj)
	s.ops32.Binary.And(p(&obj), p(&arg))
	s.Zero(obj)
	s.ops32.Binary.FetchNot(p(&obj), p(&ret))
	s.Zero(ret)
	s.Equal(^uint32(0), obj)
}

func (s *NativeTestSuite) TestArithmetic() {
	for _, a := range []api.ArithmeticOps{s.ops32.Signed, s.ops32.Unsigned} {
		obj, arg, ret := uint32(10), uint32(3), uint32(0)
		a.FetchAdd(p(&obj), p(&arg), p(&ret))
		s.Equal(uint32(10), ret)
		a.FetchSub(p(&obj), p(&arg), p(&ret))
		s.Equal(uint32(13), ret)
		a.FetchInc(p(&obj), p(&ret))
		s.Equal(uint32(10), ret)
		a.FetchDec(p(&obj), p(&ret))
		s.Equal(uint32(11), ret)
		a.FetchNeg(p(&obj), p(&ret))
		s.Equal(uint32(10), ret)
		s.Equal(int32(-10), int32(obj))
		a.Neg(p(&obj))
		a.Dec(p(&obj))
		s.Equal(uint32(9), obj)
	}

	obj := uint64(0)
	s.ops64.Unsigned.Dec(p(&obj))
	s.Equal(^uint64(0), obj)
	s.ops64.Unsigned.Inc(p(&obj))
	s.Zero(obj)
}

func (s *NativeTestSuite) TestUnalignedArguments() {
	var buf [16]byte
	var obj uint64
	arg := unsafe.Pointer(&buf[3])
	*(*[8]byte)(arg) = *(*[8]byte)(unsafe.Pointer(&[]uint64{42}[0]))
	s.ops64.Store(p(&obj), arg)
	s.Equal(uint64(42), obj)
}

func (s *NativeTestSuite) TestExplicitIgnoresOrder() {
	e := OpsExplicit(8, api.OptionNone).Ops
	var obj, arg, ret uint64 = 1, 2, 0
	e.Unsigned.FetchAdd(p(&obj), p(&arg), api.Relaxed, p(&ret))
	s.Equal(uint64(1), ret)
	e.Load(p(&obj), api.Acquire, p(&ret))
	s.Equal(uint64(3), ret)
	exp, des := uint64(3), uint64(8)
	s.True(e.Xchg.CmpxchgStrong(p(&obj), p(&exp), p(&des), api.AcqRel, api.Acquire))
	s.True(e.Bitwise.Test(p(&obj), 3, api.SeqCst))
}

func TestNativeTestSuite(t *testing.T) {
	suite.Run(t, new(NativeTestSuite))
}

func TestConcurrentFetchAdd(t *testing.T) {
	ops := Ops(8, api.SeqCst, api.OptionNone).Ops
	require.NotNil(t, ops.Unsigned.FetchAdd)
	var obj uint64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			one := uint64(1)
			for j := 0; j < 1000; j++ {
				ops.Unsigned.Add(unsafe.Pointer(&obj), unsafe.Pointer(&one))
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, uint64(8000), obj)
}

func TestProviderDescriptor(t *testing.T) {
	assert.Equal(t, api.IDNative, Provider.ID)
	assert.Equal(t, api.KindBltn, Provider.Kind)
	tx := Provider.OpsTransaction(api.OptionNone)
	assert.Nil(t, tx.Ops.Raw.TBegin)
}
