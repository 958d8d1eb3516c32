// Package metrics defines the Prometheus collectors of the host process.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "entrifi"

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves Prometheus metrics.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// Boundary tracks boundary calls and window focus requests.
// A nil *Boundary is valid and records nothing.
type Boundary struct {
	Calls         *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	FocusRequests prometheus.Counter
}

// NewBoundary creates and registers the boundary collectors.
func NewBoundary(reg prometheus.Registerer) *Boundary {
	b := &Boundary{
		Calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "boundary",
			Name:      "calls_total",
			Help:      "Boundary calls by channel and outcome.",
		}, []string{"channel", "outcome"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "boundary",
			Name:      "call_duration_seconds",
			Help:      "Boundary call latency by channel.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"channel"}),
		FocusRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "window",
			Name:      "focus_requests_total",
			Help:      "Focus requests forwarded by second launches.",
		}),
	}
	reg.MustRegister(b.Calls, b.Duration, b.FocusRequests)
	return b
}

// ObserveCall records one boundary call.
func (b *Boundary) ObserveCall(channel string, success bool, d time.Duration) {
	if b == nil {
		return
	}
	outcome := OutcomeSuccess
	if !success {
		outcome = OutcomeFailure
	}
	b.Calls.WithLabelValues(channel, outcome).Inc()
	b.Duration.WithLabelValues(channel).Observe(d.Seconds())
}

// ObserveFocusRequest records a forwarded focus request.
func (b *Boundary) ObserveFocusRequest() {
	if b == nil {
		return
	}
	b.FocusRequests.Inc()
}
