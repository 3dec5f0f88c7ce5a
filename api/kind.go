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

import (
	"math/bits"
	"strings"
)

// Kind classifies how a provider implements its operations. It is a bit-flag
// so that callers can filter for several kinds at once.
type Kind uint32

const (
	KindUnkn Kind = 0
	KindDyn  Kind = 1 << 0 // chosen at runtime
	KindOS   Kind = 1 << 1 // operating system call
	KindLib  Kind = 1 << 2 // library code
	KindBltn Kind = 1 << 3 // compiler builtin
	KindAsm  Kind = 1 << 4 // inline assembly
	KindAll  Kind = 0xffffffff
)

var kindNames = [...]string{"DYN", "OS", "LIB", "BLTN", "ASM"}

func (k Kind) String() string {
	switch k {
	case KindUnkn:
		return "UNKN"
	case KindAll:
		return "ALL"
	}
	var parts []string
	for i, name := range kindNames {
		if k&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if k>>len(kindNames) != 0 {
		parts = append(parts, "0x"+hex(uint32(k>>len(kindNames)<<len(kindNames))))
	}
	return strings.Join(parts, "|")
}

// ParseKind maps a kind name (case-insensitive) to its bit.
func ParseKind(name string) (Kind, bool) {
	switch strings.ToUpper(name) {
	case "UNKN":
		return KindUnkn, true
	case "ALL":
		return KindAll, true
	}
	for i, n := range kindNames {
		if strings.EqualFold(n, name) {
			return 1 << i, true
		}
	}
	return 0, false
}

// ID identifies a provider. Every registered provider owns exactly one bit.
type ID uint32

const (
	IDNull   ID = 0
	IDNative ID = 1 << 0
	IDSTM    ID = 1 << 1
	IDLock   ID = 1 << 2
	IDAll    ID = 0xffffffff
)

// IsSingle reports whether id has exactly one bit set.
func (id ID) IsSingle() bool {
	return bits.OnesCount32(uint32(id)) == 1
}

// Options is a bit-flag set of provider hints. No option is defined yet;
// providers must ignore bits they do not understand.
type Options uint32

const OptionNone Options = 0
