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

	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/srediag/patomic/api"
)

type domain uint8

const (
	domainImplicit domain = iota
	domainExplicit
	domainTransaction
)

type key struct {
	domain domain
	width  int
	order  api.Order
	opts   api.Options
	kinds  api.Kind
	ids    api.ID
}

func (k key) String() string {
	return fmt.Sprintf("%d/%d/%s/%d/%s/%#x", k.domain, k.width, k.order, k.opts, k.kinds, uint32(k.ids))
}

// shard mixes the key fields without formatting them.
func shard(k key) uint32 {
	h := uint32(2166136261)
	for _, v := range [...]uint32{uint32(k.domain), uint32(k.width), uint32(k.order), uint32(k.opts), uint32(k.kinds), uint32(k.ids)} {
		h ^= v
		h *= 16777619
	}
	return h
}

// Cache memoizes Create, CreateExplicit and CreateTransaction. It is safe
// for concurrent use.
type Cache struct {
	implicit    cmap.ConcurrentMap[key, api.Implicit]
	explicit    cmap.ConcurrentMap[key, api.Explicit]
	transaction cmap.ConcurrentMap[key, api.Transaction]
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{
		implicit:    cmap.NewWithCustomShardingFunction[key, api.Implicit](shard),
		explicit:    cmap.NewWithCustomShardingFunction[key, api.Explicit](shard),
		transaction: cmap.NewWithCustomShardingFunction[key, api.Transaction](shard),
	}
}

func (c *Cache) Create(width int, order api.Order, opts api.Options, kinds api.Kind, ids api.ID) api.Implicit {
	k := key{domainImplicit, width, order, opts, kinds, ids}
	if t, ok := c.implicit.Get(k); ok {
		return t
	}
	t := Create(width, order, opts, kinds, ids)
	c.implicit.SetIfAbsent(k, t)
	return t
}

func (c *Cache) CreateExplicit(width int, opts api.Options, kinds api.Kind, ids api.ID) api.Explicit {
	k := key{domainExplicit, width, 0, opts, kinds, ids}
	if t, ok := c.explicit.Get(k); ok {
		return t
	}
	t := CreateExplicit(width, opts, kinds, ids)
	c.explicit.SetIfAbsent(k, t)
	return t
}

func (c *Cache) CreateTransaction(opts api.Options, kinds api.Kind, ids api.ID) api.Transaction {
	k := key{domainTransaction, 0, 0, opts, kinds, ids}
	if t, ok := c.transaction.Get(k); ok {
		return t
	}
	t := CreateTransaction(opts, kinds, ids)
	c.transaction.SetIfAbsent(k, t)
	return t
}

// Len returns the number of cached tables.
func (c *Cache) Len() int {
	return c.implicit.Count() + c.explicit.Count() + c.transaction.Count()
}

// Keys lists the cached configurations, formatted for display.
func (c *Cache) Keys() []string {
	var out []string
	for _, m := range []func() []key{c.implicit.Keys, c.explicit.Keys, c.transaction.Keys} {
		for _, k := range m() {
			out = append(out, k.String())
		}
	}
	return out
}

// Clear drops every cached table.
func (c *Cache) Clear() {
	c.implicit.Clear()
	c.explicit.Clear()
	c.transaction.Clear()
}
