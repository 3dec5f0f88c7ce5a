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
	"fmt"
	"unsafe"
)

// TxStatus is the outcome of a transaction attempt. The low byte holds the
// exit code; for explicit aborts bits 8-15 hold the abort reason.
type TxStatus uint32

const (
	TxSuccess TxStatus = iota
	TxAbortUnknown
	TxAbortExplicit
	TxAbortConflict
	TxAbortCapacity
	TxAbortDebug
	TxAbortNested
	TxAbortInterrupt
)

var txStatusNames = [...]string{
	"success", "unknown", "explicit", "conflict", "capacity", "debug", "nested", "interrupt",
}

// TxExplicit builds an explicit abort status carrying reason.
func TxExplicit(reason uint8) TxStatus {
	return TxAbortExplicit | TxStatus(reason)<<8
}

// Code strips the abort reason.
func (s TxStatus) Code() TxStatus {
	return s & 0xff
}

// Reason returns the explicit abort reason, or 0 if s is not an explicit abort.
func (s TxStatus) Reason() uint8 {
	if s.Code() != TxAbortExplicit {
		return 0
	}
	return uint8(s >> 8)
}

// Committed reports whether s is TxSuccess.
func (s TxStatus) Committed() bool {
	return s.Code() == TxSuccess
}

func (s TxStatus) String() string {
	c := s.Code()
	if int(c) >= len(txStatusNames) {
		return fmt.Sprintf("status(%d)", uint32(s))
	}
	if c == TxAbortExplicit {
		return fmt.Sprintf("explicit(%d)", s.Reason())
	}
	return txStatusNames[c]
}

// TxFlag is an abort flag owned by the caller. Any change of its value while
// an attempt is in flight aborts that attempt. It is a full word because Go
// offers no byte-sized atomics.
type TxFlag uint32

// TxConfig controls a transactional operation.
//
// Width is the object size in bytes; zero is not special-cased. Attempts is
// the attempt budget; zero means the operation is never attempted. Flag is
// optional.
type TxConfig struct {
	Width    int
	Attempts int
	Flag     *TxFlag
}

// TxConfigWFB is TxConfig with a fallback path. The fallback only runs after
// the primary budget is exhausted without a commit.
type TxConfigWFB struct {
	Width            int
	Attempts         int
	FallbackAttempts int
	Flag             *TxFlag
	FallbackFlag     *TxFlag
}

// Primary returns the primary half of c.
func (c TxConfigWFB) Primary() TxConfig {
	return TxConfig{Width: c.Width, Attempts: c.Attempts, Flag: c.Flag}
}

// Fallback returns the fallback half of c.
func (c TxConfigWFB) Fallback() TxConfig {
	return TxConfig{Width: c.Width, Attempts: c.FallbackAttempts, Flag: c.FallbackFlag}
}

// TxResult reports the last attempt's status and how many attempts ran.
type TxResult struct {
	Status       TxStatus
	AttemptsMade int
}

// TxResultWFB is TxResult with the fallback path's outcome.
type TxResultWFB struct {
	Status               TxStatus
	FallbackStatus       TxStatus
	AttemptsMade         int
	FallbackAttemptsMade int
}

// Committed reports whether either path committed.
func (r TxResultWFB) Committed() bool {
	return r.Status.Committed() || r.FallbackStatus.Committed()
}

// TxCmpxchg is one location of a multi-location compare-exchange.
type TxCmpxchg struct {
	Obj      unsafe.Pointer
	Expected unsafe.Pointer
	Desired  unsafe.Pointer
	Width    int
}
