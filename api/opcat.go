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

// Package api defines public API contracts for patomic.
package api

import (
	"math/bits"
	"strings"
)

// Opcat is a bit-flag grouping of related atomic operations.
//
// Values used as a leaf in a query must have exactly one bit set. Aggregate
// values have two or more bits set, and zero means no category.
type Opcat uint32

const (
	OpcatNone Opcat = 0

	OpcatLdst  Opcat = 1 << 0  // load, store
	OpcatXchg  Opcat = 1 << 1  // exchange, compare-exchange
	OpcatBit   Opcat = 1 << 2  // bit test and test-modify
	OpcatBinV  Opcat = 1 << 3  // binary, void
	OpcatBinF  Opcat = 1 << 4  // binary, fetch
	OpcatSariV Opcat = 1 << 5  // signed arithmetic, void
	OpcatSariF Opcat = 1 << 6  // signed arithmetic, fetch
	OpcatUariV Opcat = 1 << 7  // unsigned arithmetic, void
	OpcatUariF Opcat = 1 << 8  // unsigned arithmetic, fetch
	OpcatTspec Opcat = 1 << 9  // transaction special
	OpcatTflag Opcat = 1 << 10 // transaction flag
	OpcatTraw  Opcat = 1 << 11 // transaction raw

	OpcatBin  = OpcatBinV | OpcatBinF
	OpcatSari = OpcatSariV | OpcatSariF
	OpcatUari = OpcatUariV | OpcatUariF
	OpcatAri  = OpcatSari | OpcatUari
	OpcatTxn  = OpcatTspec | OpcatTflag | OpcatTraw

	OpcatImplicit    = OpcatLdst | OpcatXchg | OpcatBit | OpcatBin | OpcatAri
	OpcatExplicit    = OpcatImplicit
	OpcatTransaction = OpcatImplicit | OpcatTxn
)

var opcatNames = [...]string{
	"LDST", "XCHG", "BIT", "BIN_V", "BIN_F", "SARI_V", "SARI_F",
	"UARI_V", "UARI_F", "TSPEC", "TFLAG", "TRAW",
}

// Leaves lists every leaf category in bit order.
var Leaves = [...]Opcat{
	OpcatLdst, OpcatXchg, OpcatBit, OpcatBinV, OpcatBinF, OpcatSariV,
	OpcatSariF, OpcatUariV, OpcatUariF, OpcatTspec, OpcatTflag, OpcatTraw,
}

// IsLeaf reports whether c has exactly one bit set.
func (c Opcat) IsLeaf() bool {
	return bits.OnesCount32(uint32(c)) == 1
}

func (c Opcat) String() string {
	if c == OpcatNone {
		return "NONE"
	}
	var parts []string
	rest := c
	for i, name := range opcatNames {
		bit := Opcat(1) << i
		if c&bit != 0 {
			parts = append(parts, name)
			rest &^= bit
		}
	}
	if rest != 0 {
		parts = append(parts, "0x"+hex(uint32(rest)))
	}
	return strings.Join(parts, "|")
}

func hex(v uint32) string {
	const digits = "0123456789abcdef"
	if v == 0 {
		return "0"
	}
	var buf [8]byte
	i := len(buf)
	for v != 0 {
		i--
		buf[i] = digits[v&0xf]
		v >>= 4
	}
	return string(buf[i:])
}
