package adapter

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/heptiolabs/healthcheck"

	"github.com/srediag/patomic/api"
)

var ErrNoTransaction = errors.New("adapter: no transactional provider")

// MaxGoroutines is the liveness threshold registered by HealthChecks.
const MaxGoroutines = 10000

// SelfTest returns a check that runs a store, a compare-exchange and a load
// through tx on a private word and fails unless all three commit with the
// expected values.
func SelfTest(tx api.Transaction, attempts int) healthcheck.Check {
	return func() error {
		o := &tx.Ops
		if o.Store == nil || o.Load == nil || o.Xchg.CmpxchgStrong == nil {
			return ErrNoTransaction
		}
		var word, got uint64
		exp, des := uint64(1), uint64(2)
		cfg := api.TxConfig{Width: 8, Attempts: attempts}
		one := uint64(1)
		if r := o.Store(unsafe.Pointer(&word), unsafe.Pointer(&one), cfg); !r.Status.Committed() {
			return fmt.Errorf("adapter: self-test store: %s", r.Status)
		}
		ok, r := o.Xchg.CmpxchgStrong(unsafe.Pointer(&word), unsafe.Pointer(&exp), unsafe.Pointer(&des),
			api.TxConfigWFB{Width: 8, Attempts: attempts, FallbackAttempts: 1})
		if !r.Committed() || !ok {
			return fmt.Errorf("adapter: self-test cmpxchg: %s/%s", r.Status, r.FallbackStatus)
		}
		if r := o.Load(unsafe.Pointer(&word), unsafe.Pointer(&got), cfg); !r.Status.Committed() {
			return fmt.Errorf("adapter: self-test load: %s", r.Status)
		}
		if got != 2 {
			return fmt.Errorf("adapter: self-test read %d, want 2", got)
		}
		return nil
	}
}

// HealthChecks adds a goroutine liveness check and a transactional
// readiness check to h.
func HealthChecks(h healthcheck.Handler, tx api.Transaction, attempts int) {
	h.AddLivenessCheck("goroutine-threshold", healthcheck.GoroutineCountCheck(MaxGoroutines))
	h.AddReadinessCheck("transaction-self-test", SelfTest(tx, attempts))
}
