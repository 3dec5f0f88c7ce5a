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

// Package shm places atomic objects in named shared memory so that several
// processes can operate on them through the same capability tables.
//
// A Segment hands out objects with a bump allocator. Offsets depend only on
// the sequence of Alloc calls, so cooperating processes that allocate in the
// same order agree on where every object lives.
//
// Example usage:
//
//	seg, err := shm.Open(ctx, shm.Options{Name: "counters", Size: 4096, Create: true})
//	// ...
//	ops := patomic.Create(8, api.SeqCst, api.OptionNone, api.KindAll, api.IDAll)
//	obj, err := seg.Alloc(8, ops.Align)
//	ops.Ops.Unsigned.FetchAdd(obj.Ptr, unsafe.Pointer(&one), unsafe.Pointer(&old))
//
// Only Linux is supported; elsewhere Open returns ErrUnsupported.
package shm
