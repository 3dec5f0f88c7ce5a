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

import "strings"

// Opkind identifies concrete operations inside a category. Bit values are
// reused across categories, so a kind only has meaning next to its Opcat.
type Opkind uint32

const (
	OpkindNone Opkind = 0

	// OpcatLdst
	OpkindLoad  Opkind = 1 << 0
	OpkindStore Opkind = 1 << 1

	// OpcatXchg
	OpkindExchange      Opkind = 1 << 0
	OpkindCmpxchgWeak   Opkind = 1 << 1
	OpkindCmpxchgStrong Opkind = 1 << 2

	// OpcatBit
	OpkindTest      Opkind = 1 << 0
	OpkindTestCompl Opkind = 1 << 1
	OpkindTestSet   Opkind = 1 << 2
	OpkindTestReset Opkind = 1 << 3

	// OpcatBinV, OpcatBinF
	OpkindOr  Opkind = 1 << 0
	OpkindXor Opkind = 1 << 1
	OpkindAnd Opkind = 1 << 2
	OpkindNot Opkind = 1 << 3

	// OpcatSariV, OpcatSariF, OpcatUariV, OpcatUariF
	OpkindAdd Opkind = 1 << 0
	OpkindSub Opkind = 1 << 1
	OpkindInc Opkind = 1 << 2
	OpkindDec Opkind = 1 << 3
	OpkindNeg Opkind = 1 << 4

	// OpcatTspec
	OpkindDoubleCmpxchg Opkind = 1 << 0
	OpkindMultiCmpxchg  Opkind = 1 << 1
	OpkindGeneric       Opkind = 1 << 2
	OpkindGenericWFB    Opkind = 1 << 3

	// OpcatTflag
	OpkindFlagTest    Opkind = 1 << 0
	OpkindFlagTestSet Opkind = 1 << 1
	OpkindFlagClear   Opkind = 1 << 2

	// OpcatTraw
	OpkindTBegin  Opkind = 1 << 0
	OpkindTAbort  Opkind = 1 << 1
	OpkindTCommit Opkind = 1 << 2
	OpkindTTest   Opkind = 1 << 3

	OpkindLdst  = OpkindLoad | OpkindStore
	OpkindXchg  = OpkindExchange | OpkindCmpxchgWeak | OpkindCmpxchgStrong
	OpkindBit   = OpkindTest | OpkindTestCompl | OpkindTestSet | OpkindTestReset
	OpkindBin   = OpkindOr | OpkindXor | OpkindAnd | OpkindNot
	OpkindAri   = OpkindAdd | OpkindSub | OpkindInc | OpkindDec | OpkindNeg
	OpkindTspec = OpkindDoubleCmpxchg | OpkindMultiCmpxchg | OpkindGeneric | OpkindGenericWFB
	OpkindTflag = OpkindFlagTest | OpkindFlagTestSet | OpkindFlagClear
	OpkindTraw  = OpkindTBegin | OpkindTAbort | OpkindTCommit | OpkindTTest

	OpkindAll Opkind = 0xffff
)

var opkindNames = map[Opcat][]string{
	OpcatLdst:  {"LOAD", "STORE"},
	OpcatXchg:  {"EXCHANGE", "CMPXCHG_WEAK", "CMPXCHG_STRONG"},
	OpcatBit:   {"TEST", "TEST_COMPL", "TEST_SET", "TEST_RESET"},
	OpcatBinV:  {"OR", "XOR", "AND", "NOT"},
	OpcatBinF:  {"OR", "XOR", "AND", "NOT"},
	OpcatSariV: {"ADD", "SUB", "INC", "DEC", "NEG"},
	OpcatSariF: {"ADD", "SUB", "INC", "DEC", "NEG"},
	OpcatUariV: {"ADD", "SUB", "INC", "DEC", "NEG"},
	OpcatUariF: {"ADD", "SUB", "INC", "DEC", "NEG"},
	OpcatTspec: {"DOUBLE_CMPXCHG", "MULTI_CMPXCHG", "GENERIC", "GENERIC_WFB"},
	OpcatTflag: {"TEST", "TEST_SET", "CLEAR"},
	OpcatTraw:  {"TBEGIN", "TABORT", "TCOMMIT", "TTEST"},
}

// KindsOf returns every kind defined for the leaf category c, or OpkindNone
// if c is not a known leaf.
func KindsOf(c Opcat) Opkind {
	switch c {
	case OpcatLdst:
		return OpkindLdst
	case OpcatXchg:
		return OpkindXchg
	case OpcatBit:
		return OpkindBit
	case OpcatBinV, OpcatBinF:
		return OpkindBin
	case OpcatSariV, OpcatSariF, OpcatUariV, OpcatUariF:
		return OpkindAri
	case OpcatTspec:
		return OpkindTspec
	case OpcatTflag:
		return OpkindTflag
	case OpcatTraw:
		return OpkindTraw
	}
	return OpkindNone
}

// Format renders k using the kind names of category c.
func (k Opkind) Format(c Opcat) string {
	if k == OpkindNone {
		return "NONE"
	}
	names := opkindNames[c]
	var parts []string
	rest := k
	for i, name := range names {
		bit := Opkind(1) << i
		if k&bit != 0 {
			parts = append(parts, name)
			rest &^= bit
		}
	}
	if rest != 0 {
		parts = append(parts, "0x"+hex(uint32(rest)))
	}
	return strings.Join(parts, "|")
}
