//go:build linux

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

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/srediag/patomic/internal/logging"
)

// Map maps or creates a shared memory region.
func Map(ctx context.Context, opts Options) (*Region, error) {
	if opts.Size <= 0 {
		return nil, ErrInvalidSize
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	flags := unix.O_RDWR
	if opts.Create {
		flags |= unix.O_CREAT
	}
	path := filepath.Join("/dev/shm", filepath.Base(opts.Name))
	fd, err := unix.Open(path, flags, 0600)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	if opts.Create {
		if err := unix.Ftruncate(fd, int64(opts.Size)); err != nil {
			_ = unix.Close(fd)
			return nil, fmt.Errorf("ftruncate: %w", err)
		}
	}
	mem, err := unix.Mmap(fd, 0, opts.Size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, fmt.Errorf("mmap: %w", err)
	}
	logging.Internal.Debugf("shm: mapped %s (%d bytes)", path, opts.Size)
	return &Region{Mem: mem, path: path, fd: fd}, nil
}

// Close unmaps the region and closes its file. The file itself stays.
func (r *Region) Close() error {
	if r == nil || r.Mem == nil {
		return nil
	}
	if err := unix.Munmap(r.Mem); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	r.Mem = nil
	if err := unix.Close(r.fd); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}

// Unlink removes the backing file. Existing mappings stay valid.
func (r *Region) Unlink() error {
	if err := unix.Unlink(r.path); err != nil {
		return fmt.Errorf("unlink %s: %w", r.path, err)
	}
	return nil
}
