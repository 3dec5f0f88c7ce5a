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

package stm

import "github.com/srediag/patomic/api"

// TBegin opens a raw transaction owned by the calling goroutine. It takes
// the gate exclusively, so no other transactional operation of this provider
// runs until the owner calls TCommit or TAbort.
//
// Raw transactions are irrevocable: writes made between TBegin and TAbort
// are not rolled back. Transactional operations called by the owner from
// inside one report TxAbortNested.
func TBegin() api.TxStatus {
	st := enterExclusive(try)
	if st.Committed() {
		raw.Store(true)
	}
	return st
}

// TAbort ends the caller's raw transaction. Only the low 8 bits of reason
// are kept; the reason is reported by LastAbort. It does nothing on a
// goroutine that does not own one.
func TAbort(reason uint32) {
	if !ownsRaw() {
		return
	}
	lastAbort.Store(uint32(api.TxExplicit(uint8(reason))))
	raw.Store(false)
	leaveExclusive()
}

// TCommit ends the caller's raw transaction.
func TCommit() {
	if !ownsRaw() {
		return
	}
	raw.Store(false)
	leaveExclusive()
}

// TTest returns 1 while the caller owns a raw transaction, else 0.
func TTest() int {
	if ownsRaw() {
		return 1
	}
	return 0
}

// LastAbort returns the status recorded by the most recent TAbort.
func LastAbort() api.TxStatus {
	return api.TxStatus(lastAbort.Load())
}

func ownsRaw() bool {
	return raw.Load() && owner.Load() == goid()
}
