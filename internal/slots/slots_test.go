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

package slots

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/srediag/patomic/api"
)

func TestSlotCounts(t *testing.T) {
	assert.Len(t, Implicit, 37)
	assert.Len(t, Explicit, 37)
	assert.Len(t, Transaction, 48)
}

func TestSlotPairsUnique(t *testing.T) {
	type pair struct {
		c api.Opcat
		k api.Opkind
	}
	seen := map[pair]bool{}
	for _, s := range Transaction {
		p := pair{s.Cat, s.Kind}
		assert.False(t, seen[p], "duplicate slot %s/%s", s.Cat, s.Kind.Format(s.Cat))
		seen[p] = true
		assert.True(t, s.Cat.IsLeaf())
		assert.Equal(t, 1, popcount(uint32(s.Kind)))
	}
}

func TestDefinedKindsMatchTaxonomy(t *testing.T) {
	var ops api.Ops
	for _, c := range api.Leaves {
		_, defined := Kinds(Implicit[:], &ops, c)
		if c&ImplicitCats == 0 {
			assert.Zero(t, defined, c.String())
			continue
		}
		assert.Equal(t, api.KindsOf(c), defined, c.String())
	}
	var tx api.OpsTransaction
	for _, c := range api.Leaves {
		_, defined := Kinds(Transaction[:], &tx, c)
		assert.Equal(t, api.KindsOf(c), defined, c.String())
	}
}

func TestFillCopiesOnlyAbsent(t *testing.T) {
	var calledDst, calledSrc bool
	dst := api.Ops{Load: func(obj, ret unsafe.Pointer) { calledDst = true }}
	src := api.Ops{
		Load:  func(obj, ret unsafe.Pointer) { calledSrc = true },
		Store: func(obj, desired unsafe.Pointer) {},
	}
	n := Fill(Implicit[:], &dst, &src)
	assert.Equal(t, 1, n)
	assert.NotNil(t, dst.Store)
	dst.Load(nil, nil)
	assert.True(t, calledDst)
	assert.False(t, calledSrc)
	assert.Equal(t, 2, Count(Implicit[:], &dst))
}

func popcount(v uint32) int {
	n := 0
	for ; v != 0; v &= v - 1 {
		n++
	}
	return n
}
