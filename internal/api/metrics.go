package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	operations   *prometheus.CounterVec
	currentEpoch prometheus.Gauge
	requests     *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Name:      "operations_total",
			Help:      "number of ledger operations submitted, by kind and result",
		}, []string{"kind", "result"}),
		currentEpoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ledger",
			Name:      "current_epoch",
			Help:      "id of the currently open snapshot",
		}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ledger",
			Name:      "http_request_duration_seconds",
			Help:      "time spent serving API requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "code"}),
	}
	for _, c := range []prometheus.Collector{m.operations, m.currentEpoch, m.requests} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}
