// Package metrics holds Prometheus instruments used across the relay.  All
// collectors are registered with the global registry, so importing this
// package is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SubmissionsTotal counts submit attempts by form and result.  Results:
	// ignored, invalid, local, success, network_error, server_error.
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contactform_submissions_total",
			Help: "Cumulative number of submit attempts by form and result.",
		}, []string{"form", "result"})

	SubmissionsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "contactform_submissions_in_flight",
			Help: "Number of outbound submissions currently waiting on the endpoint.",
		})

	SubmitDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "contactform_submit_duration_seconds",
			Help:    "Time spent delivering a validated submission.",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"form"})

	ActiveInstances = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "contactform_active_instances",
			Help: "Number of form instances currently held by the relay.",
		})

	InstanceEvictTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contactform_instance_evict_total",
			Help: "Cumulative number of form instances evicted from the cache.",
		})
)

func init() {
	prometheus.MustRegister(
		SubmissionsTotal,
		SubmissionsInFlight,
		SubmitDuration,
		ActiveInstances,
		InstanceEvictTotal,
	)
}
