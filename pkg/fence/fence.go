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

// Package fence publishes values to readers that load them transactionally.
//
// A Publisher owns an abort flag. Publishing changes the flag before and
// after the store, so every read attempt that overlaps a publication aborts
// and is retried instead of returning a value from the middle of it.
package fence

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/logging"
	"github.com/srediag/patomic/internal/txn"
	"github.com/srediag/patomic/pkg/feature"
	"github.com/srediag/patomic/pkg/patomic"
)

var (
	ErrNoTransaction = errors.New("fence: no transactional load and store available")
	ErrInvalidWidth  = errors.New("fence: width must be positive")
	errAborted       = errors.New("fence: attempt aborted")
)

const tracerName = "github.com/srediag/patomic/pkg/fence"

// Stats counts publisher activity.
type Stats struct {
	Publishes uint64
	Reads     uint64
	Retries   uint64
}

// Publisher guards one object of Width bytes.
type Publisher struct {
	obj   unsafe.Pointer
	width int
	flag  api.TxFlag

	tx       api.OpsTransaction
	attempts int
	backOff  func() backoff.BackOff
	tracer   trace.Tracer

	publishes atomic.Uint64
	reads     atomic.Uint64
	retries   atomic.Uint64
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithBackOff sets the retry policy factory. The policy is bounded by the
// caller's context in any case.
func WithBackOff(f func() backoff.BackOff) Option {
	return func(p *Publisher) { p.backOff = f }
}

// WithTracer sets the tracer. The global tracer provider is used otherwise.
func WithTracer(t trace.Tracer) Option {
	return func(p *Publisher) { p.tracer = t }
}

// WithAttempts sets the transaction budget of each try.
func WithAttempts(n int) Option {
	return func(p *Publisher) { p.attempts = n }
}

// WithTransaction uses tx instead of the registry's transactional table.
func WithTransaction(tx api.Transaction) Option {
	return func(p *Publisher) { p.tx = tx.Ops }
}

// DefaultBackOff retries quickly at first and then settles at a millisecond.
func DefaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Microsecond
	b.MaxInterval = time.Millisecond
	b.MaxElapsedTime = 0
	return b
}

// New returns a Publisher for the object of width bytes at obj.
func New(obj unsafe.Pointer, width int, opts ...Option) (*Publisher, error) {
	if width <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWidth, width)
	}
	p := &Publisher{
		obj:      obj,
		width:    width,
		attempts: 4,
		backOff:  DefaultBackOff,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.tx.Raw.TBegin == nil {
		p.tx = patomic.CreateTransaction(api.OptionNone, api.KindAll, api.IDAll).Ops
	}
	if feature.CheckLeafTransaction(&p.tx, api.OpcatLdst, api.OpkindLdst) != api.OpkindNone {
		return nil, ErrNoTransaction
	}
	if p.tracer == nil {
		p.tracer = otel.Tracer(tracerName)
	}
	return p, nil
}

// Flag exposes the abort flag so that other transactional operations on the
// object can be fenced as well.
func (p *Publisher) Flag() *api.TxFlag {
	return &p.flag
}

// Publish stores value, which must hold Width bytes.
func (p *Publisher) Publish(ctx context.Context, value unsafe.Pointer) error {
	ctx, span := p.tracer.Start(ctx, "fence.Publish", trace.WithAttributes(attribute.Int("width", p.width)))
	defer span.End()

	txn.Bump(&p.flag)
	defer txn.Bump(&p.flag)

	err := p.retry(ctx, func() api.TxStatus {
		// the store must not watch the flag it is toggling
		return p.tx.Store(p.obj, value, api.TxConfig{Width: p.width, Attempts: p.attempts}).Status
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "publish failed")
		return fmt.Errorf("fence: publish: %w", err)
	}
	p.publishes.Add(1)
	return nil
}

// Read loads the current value into out, which must hold Width bytes.
func (p *Publisher) Read(ctx context.Context, out unsafe.Pointer) error {
	ctx, span := p.tracer.Start(ctx, "fence.Read", trace.WithAttributes(attribute.Int("width", p.width)))
	defer span.End()

	err := p.retry(ctx, func() api.TxStatus {
		return p.tx.Load(p.obj, out, api.TxConfig{Width: p.width, Attempts: p.attempts, Flag: &p.flag}).Status
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return fmt.Errorf("fence: read: %w", err)
	}
	p.reads.Add(1)
	return nil
}

func (p *Publisher) retry(ctx context.Context, try func() api.TxStatus) error {
	first := true
	op := func() error {
		if !first {
			p.retries.Add(1)
		}
		first = false
		if st := try(); !st.Committed() {
			if logging.Enabled(logging.LevelTrace) {
				logging.Internal.Tracef("fence: attempt aborted: %s", st)
			}
			return errAborted
		}
		return nil
	}
	return backoff.Retry(op, backoff.WithContext(p.backOff(), ctx))
}

// Stats returns a snapshot of the counters.
func (p *Publisher) Stats() Stats {
	return Stats{
		Publishes: p.publishes.Load(),
		Reads:     p.reads.Load(),
		Retries:   p.retries.Load(),
	}
}
