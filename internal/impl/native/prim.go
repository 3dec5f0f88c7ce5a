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
	"sync/atomic"
	"unsafe"
)

// prim is the set of hardware primitives for one word width. Values travel
// as uint64 regardless of width.
type prim struct {
	width int
	bits  int

	load  func(obj unsafe.Pointer) uint64
	store func(obj unsafe.Pointer, v uint64)
	swap  func(obj unsafe.Pointer, v uint64) uint64
	cas   func(obj unsafe.Pointer, old, next uint64) bool
	add   func(obj unsafe.Pointer, d uint64) uint64 // returns the new value
	or    func(obj unsafe.Pointer, v uint64) uint64 // returns the old value
	and   func(obj unsafe.Pointer, v uint64) uint64 // returns the old value

	// get and put move a value through caller buffers that may be unaligned.
	get func(p unsafe.Pointer) uint64
	put func(p unsafe.Pointer, v uint64)
}

var prim32 = prim{
	width: 4,
	bits:  32,
	load:  func(o unsafe.Pointer) uint64 { return uint64(atomic.LoadUint32((*uint32)(o))) },
	store: func(o unsafe.Pointer, v uint64) { atomic.StoreUint32((*uint32)(o), uint32(v)) },
	swap:  func(o unsafe.Pointer, v uint64) uint64 { return uint64(atomic.SwapUint32((*uint32)(o), uint32(v))) },
	cas: func(o unsafe.Pointer, old, next uint64) bool {
		return atomic.CompareAndSwapUint32((*uint32)(o), uint32(old), uint32(next))
	},
	add: func(o unsafe.Pointer, d uint64) uint64 { return uint64(atomic.AddUint32((*uint32)(o), uint32(d))) },
	or:  func(o unsafe.Pointer, v uint64) uint64 { return uint64(atomic.OrUint32((*uint32)(o), uint32(v))) },
	and: func(o unsafe.Pointer, v uint64) uint64 { return uint64(atomic.AndUint32((*uint32)(o), uint32(v))) },
	get: func(p unsafe.Pointer) uint64 {
		var x uint32
		*(*[4]byte)(unsafe.Pointer(&x)) = *(*[4]byte)(p)
		return uint64(x)
	},
	put: func(p unsafe.Pointer, v uint64) {
		x := uint32(v)
		*(*[4]byte)(p) = *(*[4]byte)(unsafe.Pointer(&x))
	},
}

var prim64 = prim{
	width: 8,
	bits:  64,
	load:  func(o unsafe.Pointer) uint64 { return atomic.LoadUint64((*uint64)(o)) },
	store: func(o unsafe.Pointer, v uint64) { atomic.StoreUint64((*uint64)(o), v) },
	swap:  func(o unsafe.Pointer, v uint64) uint64 { return atomic.SwapUint64((*uint64)(o), v) },
	cas: func(o unsafe.Pointer, old, next uint64) bool {
		return atomic.CompareAndSwapUint64((*uint64)(o), old, next)
	},
	add: func(o unsafe.Pointer, d uint64) uint64 { return atomic.AddUint64((*uint64)(o), d) },
	or:  func(o unsafe.Pointer, v uint64) uint64 { return atomic.OrUint64((*uint64)(o), v) },
	and: func(o unsafe.Pointer, v uint64) uint64 { return atomic.AndUint64((*uint64)(o), v) },
	get: func(p unsafe.Pointer) uint64 {
		var x uint64
		*(*[8]byte)(unsafe.Pointer(&x)) = *(*[8]byte)(p)
		return x
	},
	put: func(p unsafe.Pointer, v uint64) {
		*(*[8]byte)(p) = *(*[8]byte)(unsafe.Pointer(&v))
	},
}

// update applies f in a compare-and-swap loop and returns the old value.
func (p *prim) update(obj unsafe.Pointer, f func(uint64) uint64) uint64 {
	for {
		old := p.load(obj)
		if p.cas(obj, old, f(old)) {
			return old
		}
	}
}

func (p *prim) bit(offset int) (uint64, bool) {
	if offset < 0 || offset >= p.bits {
		return 0, false
	}
	return 1 << uint(offset), true
}
