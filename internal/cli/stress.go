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
	"context"
	"fmt"
	"io"
	"sync"
	"time"
	"unsafe"

	"github.com/Workiva/go-datastructures/queue"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/logging"
	"github.com/srediag/patomic/internal/wide"
	"github.com/srediag/patomic/pkg/config"
	"github.com/srediag/patomic/pkg/patomic"
	"github.com/srediag/patomic/pkg/shm"
)

// StressReport is the outcome of one stress run.
type StressReport struct {
	RunID      string  `json:"run_id" yaml:"run_id"`
	Mode       string  `json:"mode" yaml:"mode"`
	Width      int     `json:"width" yaml:"width"`
	Order      string  `json:"order" yaml:"order"`
	Workers    int     `json:"workers" yaml:"workers"`
	Iterations int     `json:"iterations" yaml:"iterations"`
	SHM        string  `json:"shm,omitempty" yaml:"shm,omitempty"`
	Expected   uint64  `json:"expected" yaml:"expected"`
	Final      uint64  `json:"final" yaml:"final"`
	Aborts     int     `json:"aborts" yaml:"aborts"`
	Duration   string  `json:"duration" yaml:"duration"`
	OpsPerSec  float64 `json:"ops_per_sec" yaml:"ops_per_sec"`
	OK         bool    `json:"ok" yaml:"ok"`
}

// workerResult travels from the workers to the collector through the ring.
type workerResult struct {
	worker int
	ops    int
	aborts int
}

type stressFlags struct {
	selectionFlags
	workers    int
	iterations int
	attempts   int
	shmName    string
	tx         bool
}

func NewStressCommand(rootOpts *RootOptions) *cobra.Command {
	var fl stressFlags
	cmd := &cobra.Command{
		Use:   "stress",
		Short: "Hammer one object with concurrent fetch-add and verify the total",
		Long: `Run fetch-add by one from several workers against a single object and
check that the final value equals workers * iterations, modulo the width.

With --tx the transactional table is used and aborted attempts are retried.
With --shm the object lives in a named shared memory segment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.config()
			if err != nil {
				return err
			}
			c := *cfg
			if cmd.Flags().Changed("workers") {
				c.Stress.Workers = fl.workers
			}
			if cmd.Flags().Changed("iterations") {
				c.Stress.Iterations = fl.iterations
			}
			if cmd.Flags().Changed("attempts") {
				c.Stress.Attempts = fl.attempts
			}
			if cmd.Flags().Changed("shm") {
				c.Stress.SHMName = fl.shmName
			}
			s, err := fl.resolve(cmd, c)
			if err != nil {
				return err
			}
			return runStress(cmd.Context(), rootOpts.formatter(cmd), s, c.Stress, fl.tx)
		},
	}
	fl.register(cmd)
	cmd.Flags().IntVar(&fl.workers, "workers", 0, "concurrent workers (default from config)")
	cmd.Flags().IntVar(&fl.iterations, "iterations", 0, "operations per worker (default from config)")
	cmd.Flags().IntVar(&fl.attempts, "attempts", 0, "attempts per transactional operation (default from config)")
	cmd.Flags().StringVar(&fl.shmName, "shm", "", "place the object in this shared memory segment")
	cmd.Flags().BoolVar(&fl.tx, "tx", false, "use the transactional table")
	return cmd
}

// fetchAdd adds arg to obj and reports how many attempts aborted on the way.
type fetchAdd func(obj, arg, ret unsafe.Pointer) int

func runStress(ctx context.Context, f *OutputFormatter, s selection, sc config.Stress, useTx bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	r := StressReport{
		RunID:      uuid.NewString(),
		Mode:       "implicit",
		Width:      s.width,
		Order:      s.order.String(),
		Workers:    sc.Workers,
		Iterations: sc.Iterations,
		SHM:        sc.SHMName,
	}
	if s.width == 0 {
		return f.Failure(ExitCommandError, r.RunID, "stress needs a width of at least one byte", r, nil)
	}

	op, align, err := stressOp(s, sc.Attempts, useTx)
	if err != nil {
		return f.Failure(ExitFailure, r.RunID, err.Error(), r, nil)
	}
	if useTx {
		r.Mode = "transaction"
	}

	obj, release, err := stressObject(ctx, s.width, align, sc.SHMName)
	if err != nil {
		return f.Failure(ExitCommandError, r.RunID, err.Error(), r, nil)
	}
	defer release()
	f.VerboseLog("run %s: %d workers x %d iterations on %d bytes (%s)", r.RunID, sc.Workers, sc.Iterations, s.width, r.Mode)

	capacity := sc.QueueCapacity
	if capacity < sc.Workers {
		capacity = sc.Workers
	}
	results := queue.NewRingBuffer(uint64(capacity))
	defer results.Dispose()

	pool, err := ants.NewPool(sc.Workers, ants.WithPreAlloc(true), ants.WithPanicHandler(func(p interface{}) {
		logging.Probe.Errorf("stress worker panicked: %v", p)
	}))
	if err != nil {
		return f.Failure(ExitCommandError, r.RunID, fmt.Sprintf("worker pool: %v", err), r, nil)
	}
	defer pool.Release()

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < sc.Workers; w++ {
		wg.Add(1)
		worker := w
		err := pool.Submit(func() {
			defer wg.Done()
			one := make([]byte, s.width)
			ret := make([]byte, s.width)
			wide.PutUint64(one, 1)
			res := workerResult{worker: worker}
			for i := 0; i < sc.Iterations; i++ {
				res.aborts += op(obj, unsafe.Pointer(&one[0]), unsafe.Pointer(&ret[0]))
				res.ops++
			}
			if err := results.Put(res); err != nil {
				logging.Probe.Warnf("stress worker %d: %v", worker, err)
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return f.Failure(ExitCommandError, r.RunID, fmt.Sprintf("submit worker %d: %v", w, err), r, nil)
		}
	}
	wg.Wait()
	elapsed := time.Since(start)

	total := 0
	for results.Len() > 0 {
		item, err := results.Get()
		if err != nil {
			break
		}
		res := item.(workerResult)
		f.VerboseLog("worker %d: %d ops, %d aborts", res.worker, res.ops, res.aborts)
		total += res.ops
		r.Aborts += res.aborts
	}

	expected := make([]byte, s.width)
	wide.PutUint64(expected, uint64(sc.Workers)*uint64(sc.Iterations))
	r.Expected = wide.Uint64(expected)
	r.Final = wide.Uint64(wide.Bytes(obj, s.width))
	r.OK = total == sc.Workers*sc.Iterations && wide.Equal(expected, wide.Bytes(obj, s.width))
	r.Duration = elapsed.String()
	if secs := elapsed.Seconds(); secs > 0 {
		r.OpsPerSec = float64(total) / secs
	}

	if !r.OK {
		return f.Failure(ExitFailure, r.RunID,
			fmt.Sprintf("final value %d, expected %d", r.Final, r.Expected), r, func(w io.Writer) { writeStress(w, r) })
	}
	return f.Success(r.RunID, r, func(w io.Writer) { writeStress(w, r) })
}

// stressOp picks the fetch-add to run and the alignment its table needs.
func stressOp(s selection, attempts int, useTx bool) (fetchAdd, api.Align, error) {
	if !useTx {
		t := patomic.Create(s.width, s.order, api.OptionNone, s.kinds, s.ids)
		add := t.Ops.Unsigned.FetchAdd
		if add == nil {
			return nil, api.Align{}, fmt.Errorf("no provider supplies fetch_add for width %d and order %s", s.width, s.order)
		}
		return func(obj, arg, ret unsafe.Pointer) int {
			add(obj, arg, ret)
			return 0
		}, t.Align, nil
	}

	tx := patomic.CreateTransaction(api.OptionNone, s.kinds, s.ids)
	add := tx.Ops.Unsigned.FetchAdd
	if add == nil {
		return nil, api.Align{}, fmt.Errorf("no transactional provider supplies fetch_add")
	}
	if attempts <= 0 {
		return nil, api.Align{}, fmt.Errorf("transactional stress needs a positive attempt budget")
	}
	cfg := api.TxConfig{Width: s.width, Attempts: attempts}
	return func(obj, arg, ret unsafe.Pointer) int {
		aborts := 0
		for {
			r := add(obj, arg, ret, cfg)
			aborts += r.AttemptsMade
			if r.Status.Committed() {
				return aborts - 1
			}
		}
	}, tx.Align, nil
}

// stressObject returns zeroed memory for the object and a function that
// releases it.
func stressObject(ctx context.Context, width int, align api.Align, shmName string) (unsafe.Pointer, func(), error) {
	if shmName == "" {
		boundary := max(int(align.Recommended), 1)
		buf := make([]byte, width+boundary)
		off := 0
		for uintptr(unsafe.Pointer(&buf[off]))%uintptr(boundary) != 0 {
			off++
		}
		return unsafe.Pointer(&buf[off]), func() {}, nil
	}

	seg, err := shm.Open(ctx, shm.Options{Name: shmName, Size: width + 4096, Create: true})
	if err != nil {
		return nil, nil, fmt.Errorf("open shared memory %q: %w", shmName, err)
	}
	obj, err := seg.Alloc(width, align)
	if err != nil {
		_ = seg.Close()
		return nil, nil, fmt.Errorf("allocate in %q: %w", shmName, err)
	}
	clear(wide.Bytes(obj.Ptr, width))
	return obj.Ptr, func() {
		if err := seg.Close(); err != nil {
			logging.Probe.Warnf("close %s: %v", seg.Path(), err)
		}
	}, nil
}

func writeStress(w io.Writer, r StressReport) {
	fmt.Fprintf(w, "run %s\n", r.RunID)
	fmt.Fprintf(w, "mode=%s width=%d order=%s workers=%d iterations=%d\n", r.Mode, r.Width, r.Order, r.Workers, r.Iterations)
	if r.SHM != "" {
		fmt.Fprintf(w, "shm=%s\n", r.SHM)
	}
	fmt.Fprintf(w, "final=%d expected=%d aborts=%d\n", r.Final, r.Expected, r.Aborts)
	fmt.Fprintf(w, "duration=%s ops/s=%.0f ok=%s\n", r.Duration, r.OpsPerSec, yesNo(r.OK))
}
