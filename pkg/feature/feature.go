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

// Package feature answers which operations a finished capability table
// supports.
//
// Every query returns the input mask with the satisfied bits cleared, so a
// zero result means "everything asked for is available". Bits the query does
// not understand are returned untouched. The queries are pure and do not
// allocate.
package feature

import (
	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/invariant"
	"github.com/srediag/patomic/internal/slots"
)

// CheckAll clears each category bit in opcats whose every operation is
// present in ops.
func CheckAll(ops *api.Ops, opcats api.Opcat) api.Opcat {
	return checkAll(slots.Implicit[:], ops, opcats, slots.ImplicitCats)
}

// CheckAllExplicit is CheckAll for explicit-order tables.
func CheckAllExplicit(ops *api.OpsExplicit, opcats api.Opcat) api.Opcat {
	return checkAll(slots.Explicit[:], ops, opcats, slots.ExplicitCats)
}

// CheckAllTransaction is CheckAll for transactional tables.
func CheckAllTransaction(ops *api.OpsTransaction, opcats api.Opcat) api.Opcat {
	return checkAll(slots.Transaction[:], ops, opcats, slots.TransactionCats)
}

// CheckAny clears each category bit in opcats for which at least one
// operation is present in ops.
func CheckAny(ops *api.Ops, opcats api.Opcat) api.Opcat {
	return checkAny(slots.Implicit[:], ops, opcats, slots.ImplicitCats)
}

// CheckAnyExplicit is CheckAny for explicit-order tables.
func CheckAnyExplicit(ops *api.OpsExplicit, opcats api.Opcat) api.Opcat {
	return checkAny(slots.Explicit[:], ops, opcats, slots.ExplicitCats)
}

// CheckAnyTransaction is CheckAny for transactional tables.
func CheckAnyTransaction(ops *api.OpsTransaction, opcats api.Opcat) api.Opcat {
	return checkAny(slots.Transaction[:], ops, opcats, slots.TransactionCats)
}

// CheckLeaf clears each kind bit in opkinds whose operation in category
// opcat is present in ops.
//
// opcat must have exactly one bit set; anything else panics regardless of
// build configuration. A category with no slots in this table leaves opkinds
// unchanged.
func CheckLeaf(ops *api.Ops, opcat api.Opcat, opkinds api.Opkind) api.Opkind {
	return checkLeaf(slots.Implicit[:], ops, opcat, opkinds, slots.ImplicitCats)
}

// CheckLeafExplicit is CheckLeaf for explicit-order tables.
func CheckLeafExplicit(ops *api.OpsExplicit, opcat api.Opcat, opkinds api.Opkind) api.Opkind {
	return checkLeaf(slots.Explicit[:], ops, opcat, opkinds, slots.ExplicitCats)
}

// CheckLeafTransaction is CheckLeaf for transactional tables.
func CheckLeafTransaction(ops *api.OpsTransaction, opcat api.Opcat, opkinds api.Opkind) api.Opkind {
	return checkLeaf(slots.Transaction[:], ops, opcat, opkinds, slots.TransactionCats)
}

func checkAll[T any](table []slots.Slot[T], ops *T, opcats, domain api.Opcat) api.Opcat {
	if opcats == api.OpcatNone {
		return opcats
	}
	for _, c := range api.Leaves {
		if opcats&c == 0 || domain&c == 0 {
			continue
		}
		if present, defined := slots.Kinds(table, ops, c); present == defined {
			opcats &^= c
		}
	}
	return opcats
}

func checkAny[T any](table []slots.Slot[T], ops *T, opcats, domain api.Opcat) api.Opcat {
	if opcats == api.OpcatNone {
		return opcats
	}
	for _, c := range api.Leaves {
		if opcats&c == 0 || domain&c == 0 {
			continue
		}
		if present, _ := slots.Kinds(table, ops, c); present != 0 {
			opcats &^= c
		}
	}
	return opcats
}

func checkLeaf[T any](table []slots.Slot[T], ops *T, opcat api.Opcat, opkinds api.Opkind, domain api.Opcat) api.Opkind {
	if !opcat.IsLeaf() {
		invariant.Failf("feature: leaf query category %#x must have exactly one bit set", uint32(opcat))
	}
	if domain&opcat == 0 || opkinds == api.OpkindNone {
		return opkinds
	}
	present, _ := slots.Kinds(table, ops, opcat)
	return opkinds &^ present
}
