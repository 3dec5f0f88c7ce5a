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

// Provider describes a backend that can fill capability tables.
//
// The three factories are total: an unsupported width, order or option must
// yield a table with every slot absent, never a failure.
type Provider struct {
	ID   ID
	Kind Kind
	Name string

	Ops            func(width int, order Order, opts Options) Implicit
	OpsExplicit    func(width int, opts Options) Explicit
	OpsTransaction func(opts Options) Transaction
}
