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

package patomic

import (
	"fmt"
	"runtime"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/invariant"
	"github.com/srediag/patomic/internal/slots"
	"github.com/srediag/patomic/internal/testutil"
	"github.com/srediag/patomic/pkg/feature"
)

type RegistryTestSuite struct {
	suite.Suite
}

func (s *RegistryTestSuite) TestProvidersOrder() {
	ps := Providers()
	s.Require().Len(ps, 3)
	s.Equal([]string{"native", "stm", "lock"}, []string{ps[0].Name, ps[1].Name, ps[2].Name})

	ps[0].Name = "changed"
	s.Equal("native", Providers()[0].Name)
}

func (s *RegistryTestSuite) TestIDsAreDistinctSingleBits() {
	var seen api.ID
	for _, p := range Providers() {
		s.True(p.ID.IsSingle(), p.Name)
		s.Zero(seen&p.ID, p.Name)
		seen |= p.ID
	}
}

func (s *RegistryTestSuite) TestGetIDs() {
	s.Equal(api.IDNative|api.IDSTM|api.IDLock, GetIDs(api.KindAll))
	s.Equal(api.IDNative, GetIDs(api.KindBltn))
	s.Equal(api.IDSTM|api.IDLock, GetIDs(api.KindLib))
	s.Equal(api.IDNull, GetIDs(api.KindUnkn))
	s.Equal(api.IDNull, GetIDs(api.KindAsm|api.KindOS))

	kinds := []api.Kind{api.KindUnkn, api.KindDyn, api.KindOS, api.KindLib, api.KindBltn, api.KindAsm, api.KindAll, 1 << 20}
	for _, a := range kinds {
		for _, b := range kinds {
			s.Equal(GetIDs(a|b), GetIDs(a)|GetIDs(b), "%s %s", a, b)
		}
	}
}

func (s *RegistryTestSuite) TestGetKind() {
	s.Equal(api.KindBltn, GetKind(api.IDNative))
	s.Equal(api.KindLib, GetKind(api.IDSTM))
	s.Equal(api.KindLib, GetKind(api.IDLock))
	s.Equal(api.KindUnkn, GetKind(1<<30))

	for _, id := range []api.ID{api.IDNull, api.IDAll, api.IDNative | api.IDLock} {
		msg := fmt.Sprintf("patomic: provider id %#x must have exactly one bit set", uint32(id))
		s.PanicsWithValue(&invariant.Violation{Msg: msg}, func() { GetKind(id) })
	}
}

func (s *RegistryTestSuite) TestCreateMergesProviders() {
	t := Create(8, api.SeqCst, api.OptionNone, api.KindAll, api.IDAll)
	s.Equal(api.OpcatNone, feature.CheckAll(&t.Ops, api.OpcatImplicit))
	s.Equal(api.Align{Recommended: 8, Minimum: 8}, t.Align)

	// no provider stores with acquire ordering
	t = Create(8, api.Acquire, api.OptionNone, api.KindAll, api.IDAll)
	s.Equal(api.OpkindStore, feature.CheckLeaf(&t.Ops, api.OpcatLdst, api.OpkindLdst))

	t = Create(8, api.Acquire, api.OptionNone, api.KindBltn, api.IDAll)
	s.Equal(api.OpkindStore, feature.CheckLeaf(&t.Ops, api.OpcatLdst, api.OpkindLdst))

	t = Create(3, api.SeqCst, api.OptionNone, api.KindAll, api.IDAll)
	s.Equal(api.OpcatNone, feature.CheckAll(&t.Ops, api.OpcatImplicit))
	s.Equal(api.Align{Recommended: 2, Minimum: 1}, t.Align)

	t = Create(3, api.SeqCst, api.OptionNone, api.KindAll, api.IDNative)
	s.Equal(api.OpcatImplicit, feature.CheckAny(&t.Ops, api.OpcatImplicit))
	s.Equal(api.Align{}, t.Align)

	t = Create(8, api.SeqCst, api.OptionNone, api.KindBltn, api.IDLock)
	s.Equal(api.OpcatImplicit, feature.CheckAny(&t.Ops, api.OpcatImplicit))
}

func (s *RegistryTestSuite) TestCreatedOpsWork() {
	t := Create(16, api.SeqCst, api.OptionNone, api.KindAll, api.IDAll)
	s.Require().NotNil(t.Ops.Unsigned.FetchAdd)
	obj := make([]byte, 16)
	one := make([]byte, 16)
	t.Ops.Unsigned.Inc(unsafe.Pointer(&one[0]))
	ret := make([]byte, 16)
	t.Ops.Unsigned.FetchAdd(unsafe.Pointer(&obj[0]), unsafe.Pointer(&one[0]), unsafe.Pointer(&ret[0]))
	s.Equal(make([]byte, 16), ret)
	s.Equal(one, obj)
}

func (s *RegistryTestSuite) TestCreateExplicit() {
	t := CreateExplicit(4, api.OptionNone, api.KindAll, api.IDAll)
	s.Equal(api.OpcatNone, feature.CheckAllExplicit(&t.Ops, api.OpcatExplicit))
	s.Equal(api.Align{Recommended: 4, Minimum: 4}, t.Align)

	t = CreateExplicit(0, api.OptionNone, api.KindAll, api.IDAll)
	s.Equal(api.OpcatExplicit, feature.CheckAnyExplicit(&t.Ops, api.OpcatExplicit))
}

func (s *RegistryTestSuite) TestCreateTransaction() {
	t := CreateTransaction(api.OptionNone, api.KindAll, api.IDAll)
	s.NotNil(t.Ops.Raw.TBegin)
	s.Equal(api.OpcatNone, feature.CheckAllTransaction(&t.Ops, api.OpcatTransaction))

	t = CreateTransaction(api.OptionNone, api.KindBltn, api.IDAll)
	s.Equal(api.OpcatTransaction, feature.CheckAnyTransaction(&t.Ops, api.OpcatTransaction))
	s.Equal(api.Align{}, t.Align)

	t = CreateTransaction(api.OptionNone, api.KindAll, api.IDLock|api.IDNative)
	s.Nil(t.Ops.Raw.TBegin)
}

func (s *RegistryTestSuite) TestCreateDoesNotAllocate() {
	allocs := testing.AllocsPerRun(50, func() {
		_ = Create(8, api.SeqCst, api.OptionNone, api.KindAll, api.IDAll)
		_ = CreateTransaction(api.OptionNone, api.KindAll, api.IDAll)
		_ = GetIDs(api.KindLib)
		_ = GetKind(api.IDSTM)
	})
	s.Zero(allocs)
}

// The lock provider builds its tables for a width on the first request for
// that width; every later request is allocation-free.
func (s *RegistryTestSuite) TestCreateColdWidthWarmsOnce() {
	const width = 1237
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	first := Create(width, api.SeqCst, api.OptionNone, api.KindAll, api.IDLock)
	runtime.ReadMemStats(&after)
	s.Greater(after.Mallocs, before.Mallocs)
	s.Equal(api.OpcatNone, feature.CheckAll(&first.Ops, api.OpcatImplicit))

	allocs := testing.AllocsPerRun(50, func() {
		_ = Create(width, api.SeqCst, api.OptionNone, api.KindAll, api.IDAll)
		_ = CreateExplicit(width, api.OptionNone, api.KindAll, api.IDAll)
	})
	s.Zero(allocs)
}

func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

type CombineTestSuite struct {
	suite.Suite
	full api.Ops
}

func (s *CombineTestSuite) SetupSuite() {
	s.full = testutil.Full[api.Ops]()
}

func (s *CombineTestSuite) TestBorrowsOnlyMissingSlots() {
	p := api.Implicit{Ops: testutil.WithKinds(slots.Implicit[:], &s.full, api.OpcatLdst, api.OpkindLoad)}
	o := api.Implicit{Ops: testutil.WithKinds(slots.Implicit[:], &s.full, api.OpcatLdst, api.OpkindStore)}
	xchg := testutil.WithKinds(slots.Implicit[:], &s.full, api.OpcatXchg, api.OpkindExchange)
	o.Ops.Xchg.Exchange = xchg.Xchg.Exchange
	before := o

	n := Combine(&p, &o)
	s.Equal(2, n)
	s.Equal(api.OpkindNone, feature.CheckLeaf(&p.Ops, api.OpcatLdst, api.OpkindLdst))
	s.Equal(api.OpkindCmpxchgWeak|api.OpkindCmpxchgStrong, feature.CheckLeaf(&p.Ops, api.OpcatXchg, api.OpkindXchg))
	s.Equal(3, slots.Count(slots.Implicit[:], &p.Ops))
	s.Equal(slots.Count(slots.Implicit[:], &before.Ops), slots.Count(slots.Implicit[:], &o.Ops))
	s.Equal(api.OpkindLoad, feature.CheckLeaf(&o.Ops, api.OpcatLdst, api.OpkindLdst))
}

func (s *CombineTestSuite) TestPriorityWins() {
	var calls []string
	p := api.Implicit{}
	p.Ops.Load = func(_, _ unsafe.Pointer) { calls = append(calls, "priority") }
	o := api.Implicit{}
	o.Ops.Load = func(_, _ unsafe.Pointer) { calls = append(calls, "other") }
	s.Zero(Combine(&p, &o))
	p.Ops.Load(nil, nil)
	s.Equal([]string{"priority"}, calls)
}

func (s *CombineTestSuite) TestAlignmentUnchangedWhenNothingCopied() {
	p := api.Implicit{Ops: testutil.With(slots.Implicit[:], &s.full, api.OpcatAri), Align: api.Align{Recommended: 1, Minimum: 1, SizeWithin: 64}}
	o := api.Implicit{Align: api.Align{Recommended: 8, Minimum: 8, SizeWithin: 32}}
	s.Zero(Combine(&p, &o))
	s.Equal(api.Align{Recommended: 1, Minimum: 1, SizeWithin: 64}, p.Align)

	// other has the same slots: still nothing to copy
	o.Ops = p.Ops
	s.Zero(Combine(&p, &o))
	s.Equal(api.Align{Recommended: 1, Minimum: 1, SizeWithin: 64}, p.Align)
}

func al(r, m, sw uintptr) api.Align {
	return api.Align{Recommended: r, Minimum: m, SizeWithin: sw}
}

func (s *CombineTestSuite) TestAlignmentReconciled() {
	cases := []struct {
		p, o, want api.Align
	}{
		{al(1, 1, 64), al(8, 8, 32), al(8, 8, 32)},
		{al(16, 4, 0), al(8, 8, 32), al(16, 8, 32)},
		{al(16, 4, 16), al(8, 8, 0), al(16, 8, 16)},
		{al(0, 0, 0), al(4, 2, 0), al(4, 2, 0)},
	}
	for _, c := range cases {
		p := api.Implicit{Align: c.p}
		o := api.Implicit{Ops: testutil.With(slots.Implicit[:], &s.full, api.OpcatBit), Align: c.o}
		s.Equal(4, Combine(&p, &o))
		s.Equal(c.want, p.Align)
	}
}

func (s *CombineTestSuite) TestIdempotentAndMonotonic() {
	tables := []api.Ops{
		{},
		s.full,
		testutil.With(slots.Implicit[:], &s.full, api.OpcatBin|api.OpcatLdst),
		testutil.WithKinds(slots.Implicit[:], &s.full, api.OpcatUariF, api.OpkindAdd|api.OpkindNeg),
	}
	for i, pt := range tables {
		for j, ot := range tables {
			p := api.Implicit{Ops: pt, Align: api.Align{Recommended: 4, Minimum: 2, SizeWithin: 64}}
			o := api.Implicit{Ops: ot, Align: api.Align{Recommended: 8, Minimum: 1, SizeWithin: 16}}
			had := slots.Count(slots.Implicit[:], &p.Ops)

			Combine(&p, &o)
			once := p
			s.Zero(Combine(&p, &o), "%d %d", i, j)
			s.Equal(once.Align, p.Align)
			s.Equal(slots.Count(slots.Implicit[:], &once.Ops), slots.Count(slots.Implicit[:], &p.Ops))

			s.GreaterOrEqual(slots.Count(slots.Implicit[:], &p.Ops), had)
			for _, c := range api.Leaves {
				before := pt
				present, _ := slots.Kinds(slots.Implicit[:], &before, c)
				s.Equal(api.OpkindNone, feature.CheckLeaf(&p.Ops, c, present), "slot removed: %s", c)
			}
		}
	}
}

func (s *CombineTestSuite) TestCombineExplicit() {
	full := testutil.Full[api.OpsExplicit]()
	p := api.Explicit{Ops: testutil.With(slots.Explicit[:], &full, api.OpcatLdst), Align: api.Align{Recommended: 4, Minimum: 4}}
	o := api.Explicit{Ops: full, Align: api.Align{Recommended: 1, Minimum: 1, SizeWithin: 8}}
	s.Equal(35, CombineExplicit(&p, &o))
	s.Equal(api.OpcatNone, feature.CheckAllExplicit(&p.Ops, api.OpcatExplicit))
	s.Equal(api.Align{Recommended: 4, Minimum: 4, SizeWithin: 8}, p.Align)
}

func TestCombineTestSuite(t *testing.T) {
	suite.Run(t, new(CombineTestSuite))
}

func TestCache(t *testing.T) {
	c := NewCache()
	a := c.Create(8, api.SeqCst, api.OptionNone, api.KindAll, api.IDAll)
	b := c.Create(8, api.SeqCst, api.OptionNone, api.KindAll, api.IDAll)
	assert.Equal(t, a.Align, b.Align)
	assert.Equal(t, 1, c.Len())

	c.Create(8, api.Relaxed, api.OptionNone, api.KindAll, api.IDAll)
	e := c.CreateExplicit(8, api.OptionNone, api.KindAll, api.IDAll)
	assert.NotNil(t, e.Ops.Load)
	tx := c.CreateTransaction(api.OptionNone, api.KindAll, api.IDAll)
	assert.NotNil(t, tx.Ops.Raw.TBegin)
	assert.Equal(t, 4, c.Len())
	assert.Len(t, c.Keys(), 4)

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestCacheConcurrentUse(t *testing.T) {
	c := NewCache()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for w := 1; w <= 16; w++ {
				tbl := c.Create(w, api.SeqCst, api.OptionNone, api.KindAll, api.IDAll)
				assert.NotNil(t, tbl.Ops.Load)
			}
		}(g)
	}
	wg.Wait()
	assert.Equal(t, 16, c.Len())
}
