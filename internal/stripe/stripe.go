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

// Package stripe is the process-wide table of striped locks shared by the
// library providers. An object is guarded by the stripe its start address
// hashes to, so every access to one object must use the same address.
package stripe

import (
	"sort"
	"sync"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Count is the number of stripes. It is a power of two.
const Count = 256

type lock struct {
	mu sync.Mutex
	_  cpu.CacheLinePad
}

var table [Count]lock

// Index returns the stripe guarding p.
func Index(p unsafe.Pointer) int {
	a := uintptr(p)
	return int((a>>4 ^ a>>12) & (Count - 1))
}

func Lock(i int)         { table[i].mu.Lock() }
func Unlock(i int)       { table[i].mu.Unlock() }
func TryLock(i int) bool { return table[i].mu.TryLock() }

// Set is a sorted, duplicate-free list of stripes. Locking a Set in order
// cannot deadlock against another Set.
type Set []int

// Of returns the stripes guarding ptrs, appended to buf.
func Of(buf Set, ptrs ...unsafe.Pointer) Set {
	s := buf[:0]
	for _, p := range ptrs {
		s = append(s, Index(p))
	}
	return s.normalize()
}

// Add appends the stripe guarding p. Call Normalize before locking.
func (s Set) Add(p unsafe.Pointer) Set {
	return append(s, Index(p))
}

func (s Set) normalize() Set {
	if len(s) < 2 {
		return s
	}
	sort.Ints(s)
	j := 1
	for i := 1; i < len(s); i++ {
		if s[i] != s[j-1] {
			s[j] = s[i]
			j++
		}
	}
	return s[:j]
}

// Normalize sorts s and drops duplicates.
func (s Set) Normalize() Set { return s.normalize() }

func (s Set) Lock() {
	for _, i := range s {
		Lock(i)
	}
}

// TryLock takes every stripe in s or none of them.
func (s Set) TryLock() bool {
	for n, i := range s {
		if !TryLock(i) {
			for _, j := range s[:n] {
				Unlock(j)
			}
			return false
		}
	}
	return true
}

func (s Set) Unlock() {
	for k := len(s) - 1; k >= 0; k-- {
		Unlock(s[k])
	}
}
