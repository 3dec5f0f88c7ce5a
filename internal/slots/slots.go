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

// Package slots enumerates the operation slots of each capability table.
//
// Each descriptor ties a slot to its (category, kind) pair and knows how to
// test and copy it. The feature engine and the combination engine both walk
// these arrays, so neither needs per-field code of its own.
package slots

import "github.com/srediag/patomic/api"

// Slot describes one operation slot of a table of type T.
type Slot[T any] struct {
	Cat  api.Opcat
	Kind api.Opkind
	Has  func(*T) bool
	Copy func(dst, src *T)
}

// Categories that have at least one slot in each domain.
const (
	ImplicitCats    = api.OpcatImplicit
	ExplicitCats    = api.OpcatExplicit
	TransactionCats = api.OpcatTransaction
)

// Kinds returns, for the leaf category cat, the kinds that have a slot in
// table (defined) and the subset whose slot is present in ops (present).
// Both are zero if cat has no slot in the table.
func Kinds[T any](table []Slot[T], ops *T, cat api.Opcat) (present, defined api.Opkind) {
	for i := range table {
		s := &table[i]
		if s.Cat != cat {
			continue
		}
		defined |= s.Kind
		if s.Has(ops) {
			present |= s.Kind
		}
	}
	return present, defined
}

// Fill copies every slot absent in dst but present in src and returns how
// many were copied. Slots already present in dst are left alone.
func Fill[T any](table []Slot[T], dst, src *T) int {
	n := 0
	for i := range table {
		s := &table[i]
		if !s.Has(dst) && s.Has(src) {
			s.Copy(dst, src)
			n++
		}
	}
	return n
}

// Count returns the number of present slots in ops.
func Count[T any](table []Slot[T], ops *T) int {
	n := 0
	for i := range table {
		if table[i].Has(ops) {
			n++
		}
	}
	return n
}

var Implicit = [...]Slot[api.Ops]{
	{api.OpcatLdst, api.OpkindLoad, func(o *api.Ops) bool { return o.Load != nil }, func(d, s *api.Ops) { d.Load = s.Load }},
	{api.OpcatLdst, api.OpkindStore, func(o *api.Ops) bool { return o.Store != nil }, func(d, s *api.Ops) { d.Store = s.Store }},
	{api.OpcatXchg, api.OpkindExchange, func(o *api.Ops) bool { return o.Xchg.Exchange != nil }, func(d, s *api.Ops) { d.Xchg.Exchange = s.Xchg.Exchange }},
	{api.OpcatXchg, api.OpkindCmpxchgWeak, func(o *api.Ops) bool { return o.Xchg.CmpxchgWeak != nil }, func(d, s *api.Ops) { d.Xchg.CmpxchgWeak = s.Xchg.CmpxchgWeak }},
	{api.OpcatXchg, api.OpkindCmpxchgStrong, func(o *api.Ops) bool { return o.Xchg.CmpxchgStrong != nil }, func(d, s *api.Ops) { d.Xchg.CmpxchgStrong = s.Xchg.CmpxchgStrong }},
	{api.OpcatBit, api.OpkindTest, func(o *api.Ops) bool { return o.Bitwise.Test != nil }, func(d, s *api.Ops) { d.Bitwise.Test = s.Bitwise.Test }},
	{api.OpcatBit, api.OpkindTestCompl, func(o *api.Ops) bool { return o.Bitwise.TestCompl != nil }, func(d, s *api.Ops) { d.Bitwise.TestCompl = s.Bitwise.TestCompl }},
	{api.OpcatBit, api.OpkindTestSet, func(o *api.Ops) bool { return o.Bitwise.TestSet != nil }, func(d, s *api.Ops) { d.Bitwise.TestSet = s.Bitwise.TestSet }},
	{api.OpcatBit, api.OpkindTestReset, func(o *api.Ops) bool { return o.Bitwise.TestReset != nil }, func(d, s *api.Ops) { d.Bitwise.TestReset = s.Bitwise.TestReset }},
	{api.OpcatBinV, api.OpkindOr, func(o *api.Ops) bool { return o.Binary.Or != nil }, func(d, s *api.Ops) { d.Binary.Or = s.Binary.Or }},
	{api.OpcatBinV, api.OpkindXor, func(o *api.Ops) bool { return o.Binary.Xor != nil }, func(d, s *api.Ops) { d.Binary.Xor = s.Binary.Xor }},
	{api.OpcatBinV, api.OpkindAnd, func(o *api.Ops) bool { return o.Binary.And != nil }, func(d, s *api.Ops) { d.Binary.And = s.Binary.And }},
	{api.OpcatBinV, api.OpkindNot, func(o *api.Ops) bool { return o.Binary.Not != nil }, func(d, s *api.Ops) { d.Binary.Not = s.Binary.Not }},
	{api.OpcatBinF, api.OpkindOr, func(o *api.Ops) bool { return o.Binary.FetchOr != nil }, func(d, s *api.Ops) { d.Binary.FetchOr = s.Binary.FetchOr }},
	{api.OpcatBinF, api.OpkindXor, func(o *api.Ops) bool { return o.Binary.FetchXor != nil }, func(d, s *api.Ops) { d.Binary.FetchXor = s.Binary.FetchXor }},
	{api.OpcatBinF, api.OpkindAnd, func(o *api.Ops) bool { return o.Binary.FetchAnd != nil }, func(d, s *api.Ops) { d.Binary.FetchAnd = s.Binary.FetchAnd }},
	{api.OpcatBinF, api.OpkindNot, func(o *api.Ops) bool { return o.Binary.FetchNot != nil }, func(d, s *api.Ops) { d.Binary.FetchNot = s.Binary.FetchNot }},
	{api.OpcatSariV, api.OpkindAdd, func(o *api.Ops) bool { return o.Signed.Add != nil }, func(d, s *api.Ops) { d.Signed.Add = s.Signed.Add }},
	{api.OpcatSariV, api.OpkindSub, func(o *api.Ops) bool { return o.Signed.Sub != nil }, func(d, s *api.Ops) { d.Signed.Sub = s.Signed.Sub }},
	{api.OpcatSariV, api.OpkindInc, func(o *api.Ops) bool { return o.Signed.Inc != nil }, func(d, s *api.Ops) { d.Signed.Inc = s.Signed.Inc }},
	{api.OpcatSariV, api.OpkindDec, func(o *api.Ops) bool { return o.Signed.Dec != nil }, func(d, s *api.Ops) { d.Signed.Dec = s.Signed.Dec }},
	{api.OpcatSariV, api.OpkindNeg, func(o *api.Ops) bool { return o.Signed.Neg != nil }, func(d, s *api.Ops) { d.Signed.Neg = s.Signed.Neg }},
	{api.OpcatSariF, api.OpkindAdd, func(o *api.Ops) bool { return o.Signed.FetchAdd != nil }, func(d, s *api.Ops) { d.Signed.FetchAdd = s.Signed.FetchAdd }},
	{api.OpcatSariF, api.OpkindSub, func(o *api.Ops) bool { return o.Signed.FetchSub != nil }, func(d, s *api.Ops) { d.Signed.FetchSub = s.Signed.FetchSub }},
	{api.OpcatSariF, api.OpkindInc, func(o *api.Ops) bool { return o.Signed.FetchInc != nil }, func(d, s *api.Ops) { d.Signed.FetchInc = s.Signed.FetchInc }},
	{api.OpcatSariF, api.OpkindDec, func(o *api.Ops) bool { return o.Signed.FetchDec != nil }, func(d, s *api.Ops) { d.Signed.FetchDec = s.Signed.FetchDec }},
	{api.OpcatSariF, api.OpkindNeg, func(o *api.Ops) bool { return o.Signed.FetchNeg != nil }, func(d, s *api.Ops) { d.Signed.FetchNeg = s.Signed.FetchNeg }},
	{api.OpcatUariV, api.OpkindAdd, func(o *api.Ops) bool { return o.Unsigned.Add != nil }, func(d, s *api.Ops) { d.Unsigned.Add = s.Unsigned.Add }},
	{api.OpcatUariV, api.OpkindSub, func(o *api.Ops) bool { return o.Unsigned.Sub != nil }, func(d, s *api.Ops) { d.Unsigned.Sub = s.Unsigned.Sub }},
	{api.OpcatUariV, api.OpkindInc, func(o *api.Ops) bool { return o.Unsigned.Inc != nil }, func(d, s *api.Ops) { d.Unsigned.Inc = s.Unsigned.Inc }},
	{api.OpcatUariV, api.OpkindDec, func(o *api.Ops) bool { return o.Unsigned.Dec != nil }, func(d, s *api.Ops) { d.Unsigned.Dec = s.Unsigned.Dec }},
	{api.OpcatUariV, api.OpkindNeg, func(o *api.Ops) bool { return o.Unsigned.Neg != nil }, func(d, s *api.Ops) { d.Unsigned.Neg = s.Unsigned.Neg }},
	{api.OpcatUariF, api.OpkindAdd, func(o *api.Ops) bool { return o.Unsigned.FetchAdd != nil }, func(d, s *api.Ops) { d.Unsigned.FetchAdd = s.Unsigned.FetchAdd }},
	{api.OpcatUariF, api.OpkindSub, func(o *api.Ops) bool { return o.Unsigned.FetchSub != nil }, func(d, s *api.Ops) { d.Unsigned.FetchSub = s.Unsigned.FetchSub }},
	{api.OpcatUariF, api.OpkindInc, func(o *api.Ops) bool { return o.Unsigned.FetchInc != nil }, func(d, s *api.Ops) { d.Unsigned.FetchInc = s.Unsigned.FetchInc }},
	{api.OpcatUariF, api.OpkindDec, func(o *api.Ops) bool { return o.Unsigned.FetchDec != nil }, func(d, s *api.Ops) { d.Unsigned.FetchDec = s.Unsigned.FetchDec }},
	{api.OpcatUariF, api.OpkindNeg, func(o *api.Ops) bool { return o.Unsigned.FetchNeg != nil }, func(d, s *api.Ops) { d.Unsigned.FetchNeg = s.Unsigned.FetchNeg }},
}

var Explicit = [...]Slot[api.OpsExplicit]{
	{api.OpcatLdst, api.OpkindLoad, func(o *api.OpsExplicit) bool { return o.Load != nil }, func(d, s *api.OpsExplicit) { d.Load = s.Load }},
	{api.OpcatLdst, api.OpkindStore, func(o *api.OpsExplicit) bool { return o.Store != nil }, func(d, s *api.OpsExplicit) { d.Store = s.Store }},
	{api.OpcatXchg, api.OpkindExchange, func(o *api.OpsExplicit) bool { return o.Xchg.Exchange != nil }, func(d, s *api.OpsExplicit) { d.Xchg.Exchange = s.Xchg.Exchange }},
	{api.OpcatXchg, api.OpkindCmpxchgWeak, func(o *api.OpsExplicit) bool { return o.Xchg.CmpxchgWeak != nil }, func(d, s *api.OpsExplicit) { d.Xchg.CmpxchgWeak = s.Xchg.CmpxchgWeak }},
	{api.OpcatXchg, api.OpkindCmpxchgStrong, func(o *api.OpsExplicit) bool { return o.Xchg.CmpxchgStrong != nil }, func(d, s *api.OpsExplicit) { d.Xchg.CmpxchgStrong = s.Xchg.CmpxchgStrong }},
	{api.OpcatBit, api.OpkindTest, func(o *api.OpsExplicit) bool { return o.Bitwise.Test != nil }, func(d, s *api.OpsExplicit) { d.Bitwise.Test = s.Bitwise.Test }},
	{api.OpcatBit, api.OpkindTestCompl, func(o *api.OpsExplicit) bool { return o.Bitwise.TestCompl != nil }, func(d, s *api.OpsExplicit) { d.Bitwise.TestCompl = s.Bitwise.TestCompl }},
	{api.OpcatBit, api.OpkindTestSet, func(o *api.OpsExplicit) bool { return o.Bitwise.TestSet != nil }, func(d, s *api.OpsExplicit) { d.Bitwise.TestSet = s.Bitwise.TestSet }},
	{api.OpcatBit, api.OpkindTestReset, func(o *api.OpsExplicit) bool { return o.Bitwise.TestReset != nil }, func(d, s *api.OpsExplicit) { d.Bitwise.TestReset = s.Bitwise.TestReset }},
	{api.OpcatBinV, api.OpkindOr, func(o *api.OpsExplicit) bool { return o.Binary.Or != nil }, func(d, s *api.OpsExplicit) { d.Binary.Or = s.Binary.Or }},
	{api.OpcatBinV, api.OpkindXor, func(o *api.OpsExplicit) bool { return o.Binary.Xor != nil }, func(d, s *api.OpsExplicit) { d.Binary.Xor = s.Binary.Xor }},
	{api.OpcatBinV, api.OpkindAnd, func(o *api.OpsExplicit) bool { return o.Binary.And != nil }, func(d, s *api.OpsExplicit) { d.Binary.And = s.Binary.And }},
	{api.OpcatBinV, api.OpkindNot, func(o *api.OpsExplicit) bool { return o.Binary.Not != nil }, func(d, s *api.OpsExplicit) { d.Binary.Not = s.Binary.Not }},
	{api.OpcatBinF, api.OpkindOr, func(o *api.OpsExplicit) bool { return o.Binary.FetchOr != nil }, func(d, s *api.OpsExplicit) { d.Binary.FetchOr = s.Binary.FetchOr }},
	{api.OpcatBinF, api.OpkindXor, func(o *api.OpsExplicit) bool { return o.Binary.FetchXor != nil }, func(d, s *api.OpsExplicit) { d.Binary.FetchXor = s.Binary.FetchXor }},
	{api.OpcatBinF, api.OpkindAnd, func(o *api.OpsExplicit) bool { return o.Binary.FetchAnd != nil }, func(d, s *api.OpsExplicit) { d.Binary.FetchAnd = s.Binary.FetchAnd }},
	{api.OpcatBinF, api.OpkindNot, func(o *api.OpsExplicit) bool { return o.Binary.FetchNot != nil }, func(d, s *api.OpsExplicit) { d.Binary.FetchNot = s.Binary.FetchNot }},
	{api.OpcatSariV, api.OpkindAdd, func(o *api.OpsExplicit) bool { return o.Signed.Add != nil }, func(d, s *api.OpsExplicit) { d.Signed.Add = s.Signed.Add }},
	{api.OpcatSariV, api.OpkindSub, func(o *api.OpsExplicit) bool { return o.Signed.Sub != nil }, func(d, s *api.OpsExplicit) { d.Signed.Sub = s.Signed.Sub }},
	{api.OpcatSariV, api.OpkindInc, func(o *api.OpsExplicit) bool { return o.Signed.Inc != nil }, func(d, s *api.OpsExplicit) { d.Signed.Inc = s.Signed.Inc }},
	{api.OpcatSariV, api.OpkindDec, func(o *api.OpsExplicit) bool { return o.Signed.Dec != nil }, func(d, s *api.OpsExplicit) { d.Signed.Dec = s.Signed.Dec }},
	{api.OpcatSariV, api.OpkindNeg, func(o *api.OpsExplicit) bool { return o.Signed.Neg != nil }, func(d, s *api.OpsExplicit) { d.Signed.Neg = s.Signed.Neg }},
	{api.OpcatSariF, api.OpkindAdd, func(o *api.OpsExplicit) bool { return o.Signed.FetchAdd != nil }, func(d, s *api.OpsExplicit) { d.Signed.FetchAdd = s.Signed.FetchAdd }},
	{api.OpcatSariF, api.OpkindSub, func(o *api.OpsExplicit) bool { return o.Signed.FetchSub != nil }, func(d, s *api.OpsExplicit) { d.Signed.FetchSub = s.Signed.FetchSub }},
	{api.OpcatSariF, api.OpkindInc, func(o *api.OpsExplicit) bool { return o.Signed.FetchInc != nil }, func(d, s *api.OpsExplicit) { d.Signed.FetchInc = s.Signed.FetchInc }},
	{api.OpcatSariF, api.OpkindDec, func(o *api.OpsExplicit) bool { return o.Signed.FetchDec != nil }, func(d, s *api.OpsExplicit) { d.Signed.FetchDec = s.Signed.FetchDec }},
	{api.OpcatSariF, api.OpkindNeg, func(o *api.OpsExplicit) bool { return o.Signed.FetchNeg != nil }, func(d, s *api.OpsExplicit) { d.Signed.FetchNeg = s.Signed.FetchNeg }},
	{api.OpcatUariV, api.OpkindAdd, func(o *api.OpsExplicit) bool { return o.Unsigned.Add != nil }, func(d, s *api.OpsExplicit) { d.Unsigned.Add = s.Unsigned.Add }},
	{api.OpcatUariV, api.OpkindSub, func(o *api.OpsExplicit) bool { return o.Unsigned.Sub != nil }, func(d, s *api.OpsExplicit) { d.Unsigned.Sub = s.Unsigned.Sub }},
	{api.OpcatUariV, api.OpkindInc, func(o *api.OpsExplicit) bool { return o.Unsigned.Inc != nil }, func(d, s *api.OpsExplicit) { d.Unsigned.Inc = s.Unsigned.Inc }},
	{api.OpcatUariV, api.OpkindDec, func(o *api.OpsExplicit) bool { return o.Unsigned.Dec != nil }, func(d, s *api.OpsExplicit) { d.Unsigned.Dec = s.Unsigned.Dec }},
	{api.OpcatUariV, api.OpkindNeg, func(o *api.OpsExplicit) bool { return o.Unsigned.Neg != nil }, func(d, s *api.OpsExplicit) { d.Unsigned.Neg = s.Unsigned.Neg }},
	{api.OpcatUariF, api.OpkindAdd, func(o *api.OpsExplicit) bool { return o.Unsigned.FetchAdd != nil }, func(d, s *api.OpsExplicit) { d.Unsigned.FetchAdd = s.Unsigned.FetchAdd }},
	{api.OpcatUariF, api.OpkindSub, func(o *api.OpsExplicit) bool { return o.Unsigned.FetchSub != nil }, func(d, s *api.OpsExplicit) { d.Unsigned.FetchSub = s.Unsigned.FetchSub }},
	{api.OpcatUariF, api.OpkindInc, func(o *api.OpsExplicit) bool { return o.Unsigned.FetchInc != nil }, func(d, s *api.OpsExplicit) { d.Unsigned.FetchInc = s.Unsigned.FetchInc }},
	{api.OpcatUariF, api.OpkindDec, func(o *api.OpsExplicit) bool { return o.Unsigned.FetchDec != nil }, func(d, s *api.OpsExplicit) { d.Unsigned.FetchDec = s.Unsigned.FetchDec }},
	{api.OpcatUariF, api.OpkindNeg, func(o *api.OpsExplicit) bool { return o.Unsigned.FetchNeg != nil }, func(d, s *api.OpsExplicit) { d.Unsigned.FetchNeg = s.Unsigned.FetchNeg }},
}

var Transaction = [...]Slot[api.OpsTransaction]{
	{api.OpcatLdst, api.OpkindLoad, func(o *api.OpsTransaction) bool { return o.Load != nil }, func(d, s *api.OpsTransaction) { d.Load = s.Load }},
	{api.OpcatLdst, api.OpkindStore, func(o *api.OpsTransaction) bool { return o.Store != nil }, func(d, s *api.OpsTransaction) { d.Store = s.Store }},
	{api.OpcatXchg, api.OpkindExchange, func(o *api.OpsTransaction) bool { return o.Xchg.Exchange != nil }, func(d, s *api.OpsTransaction) { d.Xchg.Exchange = s.Xchg.Exchange }},
	{api.OpcatXchg, api.OpkindCmpxchgWeak, func(o *api.OpsTransaction) bool { return o.Xchg.CmpxchgWeak != nil }, func(d, s *api.OpsTransaction) { d.Xchg.CmpxchgWeak = s.Xchg.CmpxchgWeak }},
	{api.OpcatXchg, api.OpkindCmpxchgStrong, func(o *api.OpsTransaction) bool { return o.Xchg.CmpxchgStrong != nil }, func(d, s *api.OpsTransaction) { d.Xchg.CmpxchgStrong = s.Xchg.CmpxchgStrong }},
	{api.OpcatBit, api.OpkindTest, func(o *api.OpsTransaction) bool { return o.Bitwise.Test != nil }, func(d, s *api.OpsTransaction) { d.Bitwise.Test = s.Bitwise.Test }},
	{api.OpcatBit, api.OpkindTestCompl, func(o *api.OpsTransaction) bool { return o.Bitwise.TestCompl != nil }, func(d, s *api.OpsTransaction) { d.Bitwise.TestCompl = s.Bitwise.TestCompl }},
	{api.OpcatBit, api.OpkindTestSet, func(o *api.OpsTransaction) bool { return o.Bitwise.TestSet != nil }, func(d, s *api.OpsTransaction) { d.Bitwise.TestSet = s.Bitwise.TestSet }},
	{api.OpcatBit, api.OpkindTestReset, func(o *api.OpsTransaction) bool { return o.Bitwise.TestReset != nil }, func(d, s *api.OpsTransaction) { d.Bitwise.TestReset = s.Bitwise.TestReset }},
	{api.OpcatBinV, api.OpkindOr, func(o *api.OpsTransaction) bool { return o.Binary.Or != nil }, func(d, s *api.OpsTransaction) { d.Binary.Or = s.Binary.Or }},
	{api.OpcatBinV, api.OpkindXor, func(o *api.OpsTransaction) bool { return o.Binary.Xor != nil }, func(d, s *api.OpsTransaction) { d.Binary.Xor = s.Binary.Xor }},
	{api.OpcatBinV, api.OpkindAnd, func(o *api.OpsTransaction) bool { return o.Binary.And != nil }, func(d, s *api.OpsTransaction) { d.Binary.And = s.Binary.And }},
	{api.OpcatBinV, api.OpkindNot, func(o *api.OpsTransaction) bool { return o.Binary.Not != nil }, func(d, s *api.OpsTransaction) { d.Binary.Not = s.Binary.Not }},
	{api.OpcatBinF, api.OpkindOr, func(o *api.OpsTransaction) bool { return o.Binary.FetchOr != nil }, func(d, s *api.OpsTransaction) { d.Binary.FetchOr = s.Binary.FetchOr }},
	{api.OpcatBinF, api.OpkindXor, func(o *api.OpsTransaction) bool { return o.Binary.FetchXor != nil }, func(d, s *api.OpsTransaction) { d.Binary.FetchXor = s.Binary.FetchXor }},
	{api.OpcatBinF, api.OpkindAnd, func(o *api.OpsTransaction) bool { return o.Binary.FetchAnd != nil }, func(d, s *api.OpsTransaction) { d.Binary.FetchAnd = s.Binary.FetchAnd }},
	{api.OpcatBinF, api.OpkindNot, func(o *api.OpsTransaction) bool { return o.Binary.FetchNot != nil }, func(d, s *api.OpsTransaction) { d.Binary.FetchNot = s.Binary.FetchNot }},
	{api.OpcatSariV, api.OpkindAdd, func(o *api.OpsTransaction) bool { return o.Signed.Add != nil }, func(d, s *api.OpsTransaction) { d.Signed.Add = s.Signed.Add }},
	{api.OpcatSariV, api.OpkindSub, func(o *api.OpsTransaction) bool { return o.Signed.Sub != nil }, func(d, s *api.OpsTransaction) { d.Signed.Sub = s.Signed.Sub }},
	{api.OpcatSariV, api.OpkindInc, func(o *api.OpsTransaction) bool { return o.Signed.Inc != nil }, func(d, s *api.OpsTransaction) { d.Signed.Inc = s.Signed.Inc }},
	{api.OpcatSariV, api.OpkindDec, func(o *api.OpsTransaction) bool { return o.Signed.Dec != nil }, func(d, s *api.OpsTransaction) { d.Signed.Dec = s.Signed.Dec }},
	{api.OpcatSariV, api.OpkindNeg, func(o *api.OpsTransaction) bool { return o.Signed.Neg != nil }, func(d, s *api.OpsTransaction) { d.Signed.Neg = s.Signed.Neg }},
	{api.OpcatSariF, api.OpkindAdd, func(o *api.OpsTransaction) bool { return o.Signed.FetchAdd != nil }, func(d, s *api.OpsTransaction) { d.Signed.FetchAdd = s.Signed.FetchAdd }},
	{api.OpcatSariF, api.OpkindSub, func(o *api.OpsTransaction) bool { return o.Signed.FetchSub != nil }, func(d, s *api.OpsTransaction) { d.Signed.FetchSub = s.Signed.FetchSub }},
	{api.OpcatSariF, api.OpkindInc, func(o *api.OpsTransaction) bool { return o.Signed.FetchInc != nil }, func(d, s *api.OpsTransaction) { d.Signed.FetchInc = s.Signed.FetchInc }},
	{api.OpcatSariF, api.OpkindDec, func(o *api.OpsTransaction) bool { return o.Signed.FetchDec != nil }, func(d, s *api.OpsTransaction) { d.Signed.FetchDec = s.Signed.FetchDec }},
	{api.OpcatSariF, api.OpkindNeg, func(o *api.OpsTransaction) bool { return o.Signed.FetchNeg != nil }, func(d, s *api.OpsTransaction) { d.Signed.FetchNeg = s.Signed.FetchNeg }},
	{api.OpcatUariV, api.OpkindAdd, func(o *api.OpsTransaction) bool { return o.Unsigned.Add != nil }, func(d, s *api.OpsTransaction) { d.Unsigned.Add = s.Unsigned.Add }},
	{api.OpcatUariV, api.OpkindSub, func(o *api.OpsTransaction) bool { return o.Unsigned.Sub != nil }, func(d, s *api.OpsTransaction) { d.Unsigned.Sub = s.Unsigned.Sub }},
	{api.OpcatUariV, api.OpkindInc, func(o *api.OpsTransaction) bool { return o.Unsigned.Inc != nil }, func(d, s *api.OpsTransaction) { d.Unsigned.Inc = s.Unsigned.Inc }},
	{api.OpcatUariV, api.OpkindDec, func(o *api.OpsTransaction) bool { return o.Unsigned.Dec != nil }, func(d, s *api.OpsTransaction) { d.Unsigned.Dec = s.Unsigned.Dec }},
	{api.OpcatUariV, api.OpkindNeg, func(o *api.OpsTransaction) bool { return o.Unsigned.Neg != nil }, func(d, s *api.OpsTransaction) { d.Unsigned.Neg = s.Unsigned.Neg }},
	{api.OpcatUariF, api.OpkindAdd, func(o *api.OpsTransaction) bool { return o.Unsigned.FetchAdd != nil }, func(d, s *api.OpsTransaction) { d.Unsigned.FetchAdd = s.Unsigned.FetchAdd }},
	{api.OpcatUariF, api.OpkindSub, func(o *api.OpsTransaction) bool { return o.Unsigned.FetchSub != nil }, func(d, s *api.OpsTransaction) { d.Unsigned.FetchSub = s.Unsigned.FetchSub }},
	{api.OpcatUariF, api.OpkindInc, func(o *api.OpsTransaction) bool { return o.Unsigned.FetchInc != nil }, func(d, s *api.OpsTransaction) { d.Unsigned.FetchInc = s.Unsigned.FetchInc }},
	{api.OpcatUariF, api.OpkindDec, func(o *api.OpsTransaction) bool { return o.Unsigned.FetchDec != nil }, func(d, s *api.OpsTransaction) { d.Unsigned.FetchDec = s.Unsigned.FetchDec }},
	{api.OpcatUariF, api.OpkindNeg, func(o *api.OpsTransaction) bool { return o.Unsigned.FetchNeg != nil }, func(d, s *api.OpsTransaction) { d.Unsigned.FetchNeg = s.Unsigned.FetchNeg }},
	{api.OpcatTspec, api.OpkindDoubleCmpxchg, func(o *api.OpsTransaction) bool { return o.Special.DoubleCmpxchg != nil }, func(d, s *api.OpsTransaction) { d.Special.DoubleCmpxchg = s.Special.DoubleCmpxchg }},
	{api.OpcatTspec, api.OpkindMultiCmpxchg, func(o *api.OpsTransaction) bool { return o.Special.MultiCmpxchg != nil }, func(d, s *api.OpsTransaction) { d.Special.MultiCmpxchg = s.Special.MultiCmpxchg }},
	{api.OpcatTspec, api.OpkindGeneric, func(o *api.OpsTransaction) bool { return o.Special.Generic != nil }, func(d, s *api.OpsTransaction) { d.Special.Generic = s.Special.Generic }},
	{api.OpcatTspec, api.OpkindGenericWFB, func(o *api.OpsTransaction) bool { return o.Special.GenericWFB != nil }, func(d, s *api.OpsTransaction) { d.Special.GenericWFB = s.Special.GenericWFB }},
	{api.OpcatTflag, api.OpkindFlagTest, func(o *api.OpsTransaction) bool { return o.Flag.Test != nil }, func(d, s *api.OpsTransaction) { d.Flag.Test = s.Flag.Test }},
	{api.OpcatTflag, api.OpkindFlagTestSet, func(o *api.OpsTransaction) bool { return o.Flag.TestSet != nil }, func(d, s *api.OpsTransaction) { d.Flag.TestSet = s.Flag.TestSet }},
	{api.OpcatTflag, api.OpkindFlagClear, func(o *api.OpsTransaction) bool { return o.Flag.Clear != nil }, func(d, s *api.OpsTransaction) { d.Flag.Clear = s.Flag.Clear }},
	{api.OpcatTraw, api.OpkindTBegin, func(o *api.OpsTransaction) bool { return o.Raw.TBegin != nil }, func(d, s *api.OpsTransaction) { d.Raw.TBegin = s.Raw.TBegin }},
	{api.OpcatTraw, api.OpkindTAbort, func(o *api.OpsTransaction) bool { return o.Raw.TAbort != nil }, func(d, s *api.OpsTransaction) { d.Raw.TAbort = s.Raw.TAbort }},
	{api.OpcatTraw, api.OpkindTCommit, func(o *api.OpsTransaction) bool { return o.Raw.TCommit != nil }, func(d, s *api.OpsTransaction) { d.Raw.TCommit = s.Raw.TCommit }},
	{api.OpcatTraw, api.OpkindTTest, func(o *api.OpsTransaction) bool { return o.Raw.TTest != nil }, func(d, s *api.OpsTransaction) { d.Raw.TTest = s.Raw.TTest }},
}
