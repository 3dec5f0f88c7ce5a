package adapter

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/srediag/patomic/api"
)

// PrometheusRecorder counts transactional operations by outcome and observes
// how many attempts each one used.
type PrometheusRecorder struct {
	ops      *prometheus.CounterVec
	attempts *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the recorder's collectors with reg.
func NewPrometheusRecorder(reg prometheus.Registerer) (*PrometheusRecorder, error) {
	r := &PrometheusRecorder{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patomic",
			Subsystem: "tx",
			Name:      "operations_total",
			Help:      "Transactional operations by operation, path and status.",
		}, []string{"op", "path", "status"}),
		attempts: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "patomic",
			Subsystem: "tx",
			Name:      "attempts",
			Help:      "Attempts made per transactional operation.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}, []string{"op", "path"}),
	}
	for _, c := range []prometheus.Collector{r.ops, r.attempts} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *PrometheusRecorder) Record(op string, path Path, status api.TxStatus, attempts int) {
	r.ops.WithLabelValues(op, string(path), status.Code().String()).Inc()
	r.attempts.WithLabelValues(op, string(path)).Observe(float64(attempts))
}
