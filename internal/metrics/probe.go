// SPDX-License-Identifier: MIT

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	probesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "livesort_probes_total",
		Help: "Liveness probes by outcome",
	}, []string{"outcome"}) // outcome=live|dead|timeout

	probeDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "livesort_probe_duration_seconds",
		Help:    "Liveness probe wall time by outcome",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 7, 10, 15},
	}, []string{"outcome"})

	probesInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "livesort_probes_in_flight",
		Help: "Liveness probes currently running",
	})

	proberUnavailable = promauto.NewCounter(prometheus.CounterOpts{
		Name: "livesort_prober_unavailable_total",
		Help: "Preflight checks that found no usable prober binary",
	})
)

// ObserveProbe records one finished probe.
func ObserveProbe(outcome string, d time.Duration) {
	probesTotal.WithLabelValues(outcome).Inc()
	probeDurationSeconds.WithLabelValues(outcome).Observe(d.Seconds())
}

func IncProbesInFlight()    { probesInFlight.Inc() }
func DecProbesInFlight()    { probesInFlight.Dec() }
func IncProberUnavailable() { proberUnavailable.Inc() }
