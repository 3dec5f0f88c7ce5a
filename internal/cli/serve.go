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
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/srediag/patomic/adapter"
	"github.com/srediag/patomic/api"
	"github.com/srediag/patomic/internal/logging"
	"github.com/srediag/patomic/pkg/patomic"
)

const shutdownTimeout = 5 * time.Second

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		sel      selectionFlags
		listen   string
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose metrics and health endpoints backed by a periodic self-test",
		Long: `Serve /metrics, /live and /ready. A transactional self-test runs every
interval through an instrumented table; /ready fails while it does not commit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := rootOpts.config()
			if err != nil {
				return err
			}
			c := *cfg
			if cmd.Flags().Changed("listen") {
				c.Serve.Listen = listen
			}
			if cmd.Flags().Changed("interval") {
				c.Serve.SelfTestInterval = interval
			}
			s, err := sel.resolve(cmd, c)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			p, err := newProbeServer(s, c.Stress.Attempts)
			if err != nil {
				return WrapExitError(ExitCommandError, "set up metrics", err)
			}
			go p.selfTestLoop(ctx, c.Serve.SelfTestInterval)

			srv := &http.Server{Addr: c.Serve.Listen, Handler: p.mux, ReadHeaderTimeout: 5 * time.Second}
			errc := make(chan error, 1)
			go func() { errc <- srv.ListenAndServe() }()
			logging.Probe.Infof("serving on %s", c.Serve.Listen)

			select {
			case err := <-errc:
				if !errors.Is(err, http.ErrServerClosed) {
					return WrapExitError(ExitCommandError, "listen", err)
				}
				return nil
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config)")
	cmd.Flags().DurationVar(&interval, "interval", 0, "self-test interval (default from config)")
	return cmd
}

type probeServer struct {
	mux      *http.ServeMux
	selfTest healthcheck.Check
	runs     prometheus.Counter
	failures prometheus.Counter
}

func newProbeServer(s selection, attempts int) (*probeServer, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	prom, err := adapter.NewPrometheusRecorder(reg)
	if err != nil {
		return nil, err
	}
	otelRec, err := adapter.NewOTelRecorder(otel.GetMeterProvider().Meter("github.com/srediag/patomic"))
	if err != nil {
		return nil, err
	}
	tx := adapter.Instrument(patomic.CreateTransaction(api.OptionNone, s.kinds, s.ids), adapter.Recorders{prom, otelRec})

	p := &probeServer{
		mux:      http.NewServeMux(),
		selfTest: adapter.SelfTest(tx, attempts),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "patomic", Subsystem: "probe", Name: "self_tests_total",
			Help: "Self-tests run by the probe.",
		}),
		failures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "patomic", Subsystem: "probe", Name: "self_test_failures_total",
			Help: "Self-tests that did not commit.",
		}),
	}
	reg.MustRegister(p.runs, p.failures)

	health := healthcheck.NewMetricsHandler(reg, "patomic")
	adapter.HealthChecks(health, tx, attempts)

	p.mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	p.mux.HandleFunc("/live", health.LiveEndpoint)
	p.mux.HandleFunc("/ready", health.ReadyEndpoint)
	return p, nil
}

func (p *probeServer) runSelfTest() error {
	p.runs.Inc()
	if err := p.selfTest(); err != nil {
		p.failures.Inc()
		return fmt.Errorf("self-test: %w", err)
	}
	return nil
}

func (p *probeServer) selfTestLoop(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if err := p.runSelfTest(); err != nil {
			logging.Probe.Warnf("%v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}
