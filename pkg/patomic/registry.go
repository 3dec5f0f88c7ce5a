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

// Package patomic negotiates atomic operation tables for arbitrary widths
// and memory orders from the registered providers.
//
// The registry is fixed at build time. Its order is the merge priority:
// earlier providers are combined first and are never displaced, so faster
// and more specialised providers come first.
//
// Unsupported widths, orders or filters are not errors. They produce tables
// with absent slots; use package feature to check presence before calling a
// slot.
package patomic

import (
	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/impl/lock"
	"github.com/srediag/patomic/internal/impl/native"
	"github.com/srediag/patomic/internal/impl/stm"
	"github.com/srediag/patomic/internal/invariant"
	"github.com/srediag/patomic/internal/logging"
)

var registry = [...]api.Provider{
	native.Provider,
	stm.Provider,
	lock.Provider,
}

// Providers returns a copy of the registry in priority order.
func Providers() []api.Provider {
	out := make([]api.Provider, len(registry))
	copy(out, registry[:])
	return out
}

// GetIDs returns the union of the ids of every provider whose kind
// intersects kinds.
func GetIDs(kinds api.Kind) api.ID {
	ids := api.IDNull
	for i := range registry {
		if registry[i].Kind&kinds != 0 {
			ids |= registry[i].ID
		}
	}
	return ids
}

// GetKind returns the kind of the provider registered under id, or KindUnkn
// if there is none. id must have exactly one bit set.
func GetKind(id api.ID) api.Kind {
	if !id.IsSingle() {
		invariant.Failf("patomic: provider id %#x must have exactly one bit set", uint32(id))
	}
	for i := range registry {
		if registry[i].ID == id {
			return registry[i].Kind
		}
	}
	return api.KindUnkn
}

type matches struct {
	buf [len(registry)]*api.Provider
	n   int
}

func (m *matches) list() []*api.Provider { return m.buf[:m.n] }

func match(m *matches, kinds api.Kind, ids api.ID) {
	for i := range registry {
		p := &registry[i]
		if p.Kind&kinds != 0 && p.ID&ids != 0 {
			m.buf[m.n] = p
			m.n++
		}
	}
}

// Create builds the implicit table for width and order by combining every
// matching provider in registry order.
func Create(width int, order api.Order, opts api.Options, kinds api.Kind, ids api.ID) api.Implicit {
	var m matches
	match(&m, kinds, ids)

	var acc api.Implicit
	for _, p := range m.list() {
		t := p.Ops(width, order, opts)
		n := Combine(&acc, &t)
		if logging.Enabled(logging.LevelTrace) {
			logging.Internal.Tracef("create width=%d order=%s: %s contributed %d slots", width, order, p.Name, n)
		}
	}
	return acc
}

// CreateExplicit is Create for the explicit domain, where the memory order
// is given on every call instead.
func CreateExplicit(width int, opts api.Options, kinds api.Kind, ids api.ID) api.Explicit {
	var m matches
	match(&m, kinds, ids)

	var acc api.Explicit
	for _, p := range m.list() {
		t := p.OpsExplicit(width, opts)
		n := CombineExplicit(&acc, &t)
		if logging.Enabled(logging.LevelTrace) {
			logging.Internal.Tracef("create explicit width=%d: %s contributed %d slots", width, p.Name, n)
		}
	}
	return acc
}

// CreateTransaction returns the transactional table of the first matching
// provider that can begin a transaction. Transactional tables are never
// combined: a transaction cannot mix two providers' mechanisms.
func CreateTransaction(opts api.Options, kinds api.Kind, ids api.ID) api.Transaction {
	var m matches
	match(&m, kinds, ids)

	for _, p := range m.list() {
		if t := p.OpsTransaction(opts); t.Ops.Raw.TBegin != nil {
			if logging.Enabled(logging.LevelTrace) {
				logging.Internal.Tracef("create transaction: using %s", p.Name)
			}
			return t
		}
	}
	return api.Transaction{}
}
