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

package api

import "unsafe"

// Align describes the pointer alignment an operation table needs.
//
// Recommended is the preferred alignment and Minimum the required one. When
// SizeWithin is nonzero, Minimum alignment only guarantees correctness if the
// object does not cross a SizeWithin boundary; zero means unbounded. When both
// are nonzero, Recommended >= Minimum.
type Align struct {
	Recommended uintptr `json:"recommended" yaml:"recommended"`
	Minimum     uintptr `json:"minimum" yaml:"minimum"`
	SizeWithin  uintptr `json:"size_within" yaml:"size_within"`
}

// MeetsRecommended reports whether ptr satisfies the recommended alignment.
func (a Align) MeetsRecommended(ptr unsafe.Pointer) bool {
	return aligned(uintptr(ptr), a.Recommended)
}

// MeetsMinimum reports whether an object of width bytes at ptr satisfies the
// minimum alignment, including the SizeWithin span.
func (a Align) MeetsMinimum(ptr unsafe.Pointer, width int) bool {
	addr := uintptr(ptr)
	if !aligned(addr, a.Minimum) {
		return false
	}
	if a.SizeWithin == 0 || width == 0 {
		return true
	}
	w := uintptr(width)
	if w > a.SizeWithin {
		return false
	}
	// first and last byte must fall inside the same SizeWithin window
	return addr/a.SizeWithin == (addr+w-1)/a.SizeWithin
}

func aligned(addr, to uintptr) bool {
	if to <= 1 {
		return true
	}
	return addr%to == 0
}
