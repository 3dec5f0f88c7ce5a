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

// Package txn drives transaction attempt loops.
//
// An attempt is any function returning a status. Run retries it within the
// configured budget; RunWFB adds the fallback path. Neither blocks nor
// sleeps: retries happen immediately on the calling goroutine.
package txn

import (
	"sync/atomic"

	"github.com/srediag/patomic/api"
)

// Attempt performs one transaction attempt.
type Attempt func() api.TxStatus

// Run calls attempt until it commits or the budget is spent.
//
// A budget of zero never calls attempt and reports an explicit abort with
// reason 0. When every attempt aborts the last status is reported.
func Run(attempts int, attempt Attempt) api.TxResult {
	res := api.TxResult{Status: api.TxExplicit(0)}
	for res.AttemptsMade < attempts {
		res.AttemptsMade++
		if res.Status = attempt(); res.Status.Committed() {
			break
		}
	}
	return res
}

// RunWFB runs primary within cfg.Attempts and, only if it never commits,
// fallback within cfg.FallbackAttempts.
func RunWFB(cfg api.TxConfigWFB, primary, fallback Attempt) api.TxResultWFB {
	p := Run(cfg.Attempts, primary)
	res := api.TxResultWFB{
		Status:         p.Status,
		AttemptsMade:   p.AttemptsMade,
		FallbackStatus: api.TxExplicit(0),
	}
	if p.Status.Committed() {
		return res
	}
	f := Run(cfg.FallbackAttempts, fallback)
	res.FallbackStatus = f.Status
	res.FallbackAttemptsMade = f.AttemptsMade
	return res
}

// Snapshot reads the flag at the start of an attempt. A nil flag reads as 0.
func Snapshot(flag *api.TxFlag) uint32 {
	if flag == nil {
		return 0
	}
	return atomic.LoadUint32((*uint32)(flag))
}

// Changed reports whether flag no longer holds snap.
func Changed(flag *api.TxFlag, snap uint32) bool {
	return flag != nil && atomic.LoadUint32((*uint32)(flag)) != snap
}

// FlagTest reports whether the flag is set.
func FlagTest(flag *api.TxFlag) bool {
	return atomic.LoadUint32((*uint32)(flag)) != 0
}

// FlagTestSet sets the flag and reports whether it was already set.
func FlagTestSet(flag *api.TxFlag) bool {
	return atomic.SwapUint32((*uint32)(flag), 1) != 0
}

// FlagClear clears the flag.
func FlagClear(flag *api.TxFlag) {
	atomic.StoreUint32((*uint32)(flag), 0)
}

// Bump changes the flag's value so that every attempt that snapshotted it
// aborts at commit. It returns the new value.
func Bump(flag *api.TxFlag) uint32 {
	return atomic.AddUint32((*uint32)(flag), 1)
}
