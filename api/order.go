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

// Order is a memory ordering discipline for an atomic operation.
type Order int

const (
	Relaxed Order = iota
	Consume
	Acquire
	Release
	AcqRel
	SeqCst
)

var orderNames = [...]string{"relaxed", "consume", "acquire", "release", "acq_rel", "seq_cst"}

func (o Order) String() string {
	if IsValidOrder(o) {
		return orderNames[o]
	}
	return "invalid"
}

// ParseOrder maps a name such as "seq_cst" back to an Order.
func ParseOrder(name string) (Order, bool) {
	for i, n := range orderNames {
		if n == name {
			return Order(i), true
		}
	}
	return 0, false
}

// IsValidOrder reports whether o is one of the defined orders.
func IsValidOrder(o Order) bool {
	return o >= Relaxed && o <= SeqCst
}

// IsValidStoreOrder reports whether o may be used for a store.
func IsValidStoreOrder(o Order) bool {
	return o == Relaxed || o == Release || o == SeqCst
}

// IsValidLoadOrder reports whether o may be used for a load.
func IsValidLoadOrder(o Order) bool {
	return o == Relaxed || o == Consume || o == Acquire || o == SeqCst
}

// IsValidFailOrder reports whether fail may be used as the failure order of a
// compare-exchange whose success order is succ.
func IsValidFailOrder(succ, fail Order) bool {
	if !IsValidOrder(succ) || !IsValidLoadOrder(fail) {
		return false
	}
	return fail <= CmpxchgFailOrder(succ)
}

// CmpxchgFailOrder returns the strongest failure order permitted for succ.
func CmpxchgFailOrder(succ Order) Order {
	switch succ {
	case Release:
		return Relaxed
	case AcqRel:
		return Acquire
	}
	return succ
}
