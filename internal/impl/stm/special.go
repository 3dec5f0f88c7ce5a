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

import (
	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/txn"
)

func doubleCmpxchg(a, b api.TxCmpxchg, cfg api.TxConfigWFB) (bool, api.TxResultWFB) {
	cxs := [2]api.TxCmpxchg{a, b}
	return multiCmpxchg(cxs[:], cfg)
}

func multiCmpxchg(cxs []api.TxCmpxchg, cfg api.TxConfigWFB) (bool, api.TxResultWFB) {
	var ok bool
	res := txn.RunWFB(cfg, func() api.TxStatus {
		return cmpxchgN(cxs, cfg.Flag, try, &ok)
	}, func() api.TxStatus {
		return cmpxchgN(cxs, cfg.FallbackFlag, wait, &ok)
	})
	return ok && res.Committed(), res
}

// generic runs fn as a transaction body. Once fn starts it runs to
// completion; the flag is only consulted before that.
func generic(fn func(ctx any), ctx any, cfg api.TxConfig) api.TxResult {
	return txn.Run(cfg.Attempts, func() api.TxStatus {
		return exclusive(cfg.Flag, try, fn, ctx)
	})
}

// genericWFB is generic with fallback run under the fallback budget. A nil
// fallback skips the fallback path.
func genericWFB(fn func(ctx any), ctx any, fallback func(ctx any), fallbackCtx any, cfg api.TxConfigWFB) api.TxResultWFB {
	if fallback == nil {
		cfg.FallbackAttempts = 0
	}
	return txn.RunWFB(cfg, func() api.TxStatus {
		return exclusive(cfg.Flag, try, fn, ctx)
	}, func() api.TxStatus {
		return exclusive(cfg.FallbackFlag, wait, fallback, fallbackCtx)
	})
}
