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

package cli

import (
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestStressSharedMemory(t *testing.T) {
	name := "patomic-stress-" + uuid.NewString()
	t.Cleanup(func() { _ = os.Remove("/dev/shm/" + name) })

	r := stressReport(t, "--shm", name, "--workers", "2", "--iterations", "300")
	assert.True(t, r.OK)
	assert.Equal(t, name, r.SHM)
	assert.Equal(t, uint64(600), r.Final)
}
