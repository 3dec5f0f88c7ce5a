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
	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/slots"
)

// Combine copies into priority every slot it lacks and other has. Slots
// already present in priority are kept. It returns the number of slots
// copied; alignment is reconciled only if that number is not zero.
func Combine(priority, other *api.Implicit) int {
	n := slots.Fill(slots.Implicit[:], &priority.Ops, &other.Ops)
	if n > 0 {
		priority.Align = combineAlign(priority.Align, other.Align)
	}
	return n
}

// CombineExplicit is Combine for explicit tables.
func CombineExplicit(priority, other *api.Explicit) int {
	n := slots.Fill(slots.Explicit[:], &priority.Ops, &other.Ops)
	if n > 0 {
		priority.Align = combineAlign(priority.Align, other.Align)
	}
	return n
}

func combineAlign(p, o api.Align) api.Align {
	return api.Align{
		Recommended: max(p.Recommended, o.Recommended),
		Minimum:     max(p.Minimum, o.Minimum),
		SizeWithin:  minBound(p.SizeWithin, o.SizeWithin),
	}
}

// minBound returns the smaller bound, where 0 means unbounded.
func minBound(a, b uintptr) uintptr {
	switch {
	case a == 0:
		return b
	case b == 0:
		return a
	}
	return min(a, b)
}
