// Package metrics exposes twinspect's Prometheus instrumentation. All
// metrics live under the twinspect namespace and register themselves on
// the default registry, served at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// bootstrapSteps counts step outcomes. result is ok, degraded or failed.
	bootstrapSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twinspect",
		Subsystem: "bootstrap",
		Name:      "steps_total",
		Help:      "Bootstrap step outcomes by step and result",
	}, []string{"step", "result"})

	collectorPolls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twinspect",
		Subsystem: "collector",
		Name:      "polls_total",
		Help:      "Collection cycles by collector and result",
	}, []string{"collector", "result"})

	collectorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "twinspect",
		Subsystem: "collector",
		Name:      "poll_duration_seconds",
		Help:      "Collection cycle latency by collector",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"collector"})

	alertsFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twinspect",
		Subsystem: "alerts",
		Name:      "fired_total",
		Help:      "Alerts fired by severity and category",
	}, []string{"severity", "category"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "twinspect",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, path and status code",
	}, []string{"method", "path", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "twinspect",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and path",
		Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
	}, []string{"method", "path"})
)

// RecordBootstrapStep counts one bootstrap step outcome.
func RecordBootstrapStep(step, result string) {
	bootstrapSteps.WithLabelValues(step, result).Inc()
}

// RecordPoll counts one collection cycle and its latency.
func RecordPoll(collector string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	collectorPolls.WithLabelValues(collector, result).Inc()
	collectorDuration.WithLabelValues(collector).Observe(elapsed.Seconds())
}

// RecordAlert counts one fired alert.
func RecordAlert(severity, category string) {
	alertsFired.WithLabelValues(severity, category).Inc()
}

// RecordRequest counts one served HTTP request and its latency.
func RecordRequest(method, path string, code int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
