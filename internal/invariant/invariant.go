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

// Package invariant holds precondition checks that stay active in every build.
//
// A failed check means a caller asked an ill-formed question of the library.
// Continuing would let ordering-sensitive code run on a wrong answer, so the
// check logs and panics; no build tag or setting turns it off.
package invariant

import (
	"fmt"
	"os"

	"github.com/srediag/patomic/internal/logging"
)

// logger reports violations on stderr, away from program output.
var logger = logging.New("invariant", os.Stderr)

// Violation is the panic value raised by a failed check.
type Violation struct {
	Msg string
}

func (v *Violation) Error() string {
	return "patomic: invariant violated: " + v.Msg
}

// Check panics with a *Violation carrying msg if cond is false.
func Check(cond bool, msg string) {
	if !cond {
		fail(msg)
	}
}

// Failf panics with a formatted *Violation. Callers test the condition
// themselves so that the passing path does not box arguments.
func Failf(format string, a ...interface{}) {
	fail(fmt.Sprintf(format, a...))
}

func fail(msg string) {
	v := &Violation{Msg: msg}
	logger.Errorf("%s", v.Error())
	panic(v)
}
