//go:build !linux

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

package shm

import "context"

// Map is not available on this platform.
func Map(_ context.Context, opts Options) (*Region, error) {
	if opts.Size <= 0 {
		return nil, ErrInvalidSize
	}
	return nil, ErrUnsupported
}

func (r *Region) Close() error { return nil }

func (r *Region) Unlink() error { return ErrUnsupported }
