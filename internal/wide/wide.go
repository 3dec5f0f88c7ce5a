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

// Package wide implements integer and bit arithmetic on byte strings of any
// width, in host byte order and two's complement.
//
// All slices passed to one call must have the same length. dst may alias
// any operand.
package wide

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// Bytes views width bytes at p.
func Bytes(p unsafe.Pointer, width int) []byte {
	if width <= 0 || p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(p), width)
}

// idx returns the position of the i-th least significant byte.
func idx(i, n int) int {
	if cpu.IsBigEndian {
		return n - 1 - i
	}
	return i
}

func Add(dst, a, b []byte) {
	n := len(dst)
	carry := uint(0)
	for i := 0; i < n; i++ {
		j := idx(i, n)
		s := uint(a[j]) + uint(b[j]) + carry
		dst[j] = byte(s)
		carry = s >> 8
	}
}

func Sub(dst, a, b []byte) {
	n := len(dst)
	borrow := 0
	for i := 0; i < n; i++ {
		j := idx(i, n)
		d := int(a[j]) - int(b[j]) - borrow
		borrow = 0
		if d < 0 {
			d += 256
			borrow = 1
		}
		dst[j] = byte(d)
	}
}

// Inc adds one to a.
func Inc(dst, a []byte) {
	n := len(dst)
	carry := true
	for i := 0; i < n; i++ {
		j := idx(i, n)
		v := a[j]
		if carry {
			v++
			carry = v == 0
		}
		dst[j] = v
	}
}

// Dec subtracts one from a.
func Dec(dst, a []byte) {
	n := len(dst)
	borrow := true
	for i := 0; i < n; i++ {
		j := idx(i, n)
		v := a[j]
		if borrow {
			borrow = v == 0
			v--
		}
		dst[j] = v
	}
}

// Neg computes the two's complement negation of a.
func Neg(dst, a []byte) {
	Not(dst, a)
	Inc(dst, dst)
}

func Or(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] | b[i]
	}
}

func Xor(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

func And(dst, a, b []byte) {
	for i := range dst {
		dst[i] = a[i] & b[i]
	}
}

func Not(dst, a []byte) {
	for i := range dst {
		dst[i] = ^a[i]
	}
}

// Equal compares two values of the same width.
func Equal(a, b []byte) bool {
	return string(a) == string(b)
}

// Bit locates bit offset of a value n bytes wide, counting from the least
// significant bit. ok is false when offset is out of range.
func Bit(n, offset int) (index int, mask byte, ok bool) {
	if offset < 0 || offset >= n*8 {
		return 0, 0, false
	}
	return idx(offset/8, n), 1 << (offset % 8), true
}

// PutUint64 writes v into b, truncating or zero-extending to len(b).
func PutUint64(b []byte, v uint64) {
	n := len(b)
	for i := 0; i < n; i++ {
		if i < 8 {
			b[idx(i, n)] = byte(v >> (8 * i))
		} else {
			b[idx(i, n)] = 0
		}
	}
}

// Uint64 reads the low 64 bits of b.
func Uint64(b []byte) uint64 {
	var v uint64
	n := len(b)
	for i := 0; i < n && i < 8; i++ {
		v |= uint64(b[idx(i, n)]) << (8 * i)
	}
	return v
}
