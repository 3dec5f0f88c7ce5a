package adapter

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/srediag/patomic/api"
)

// OTelRecorder is the OpenTelemetry counterpart of PrometheusRecorder.
type OTelRecorder struct {
	ops      metric.Int64Counter
	attempts metric.Int64Histogram
}

func NewOTelRecorder(meter metric.Meter) (*OTelRecorder, error) {
	ops, err := meter.Int64Counter("patomic.tx.operations",
		metric.WithDescription("Transactional operations by operation, path and status."))
	if err != nil {
		return nil, err
	}
	attempts, err := meter.Int64Histogram("patomic.tx.attempts",
		metric.WithDescription("Attempts made per transactional operation."))
	if err != nil {
		return nil, err
	}
	return &OTelRecorder{ops: ops, attempts: attempts}, nil
}

func (r *OTelRecorder) Record(op string, path Path, status api.TxStatus, attempts int) {
	ctx := context.Background()
	r.ops.Add(ctx, 1, metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("path", string(path)),
		attribute.String("status", status.Code().String()),
	))
	r.attempts.Record(ctx, int64(attempts), metric.WithAttributes(
		attribute.String("op", op),
		attribute.String("path", string(path)),
	))
}

// Recorders fans one record out to several recorders.
type Recorders []Recorder

func (rs Recorders) Record(op string, path Path, status api.TxStatus, attempts int) {
	for _, r := range rs {
		r.Record(op, path, status, attempts)
	}
}
