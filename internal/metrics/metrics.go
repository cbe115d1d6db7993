// Package metrics exposes Prometheus collectors for the aggregation engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsStarted counts aggregation runs by focal kind ("client"/"budget").
	RunsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finman_aggregation_runs_started_total",
		Help: "Aggregation runs started, by focal kind.",
	}, []string{"kind"})

	// RunsSuperseded counts runs cancelled by a newer run before publishing.
	RunsSuperseded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finman_aggregation_runs_superseded_total",
		Help: "Aggregation runs superseded before publishing, by focal kind.",
	}, []string{"kind"})

	// RunsFailed counts runs that published a Failed snapshot.
	RunsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "finman_aggregation_runs_failed_total",
		Help: "Aggregation runs that ended in a Failed snapshot, by focal kind.",
	}, []string{"kind"})

	// FetchDuration observes upstream collection fetch latency.
	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "finman_collection_fetch_duration_seconds",
		Help:    "Latency of individual finance API collection fetches.",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection"})
)
