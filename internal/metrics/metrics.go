// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "millionrecap"

// Geocode lookup sources
const (
	GeocodeCache     = "cache"
	GeocodeNominatim = "nominatim"
	GeocodeFallback  = "fallback"
)

var (
	runsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "detection",
		Name:      "runs_total",
		Help:      "Number of group detection runs, labeled by final status.",
	}, []string{"status"})

	runDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "detection",
		Name:      "run_duration_seconds",
		Help:      "Time spent loading activities, detecting and storing groups.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	groupsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "detection",
		Name:      "groups",
		Help:      "Number of groups produced by the last completed run.",
	})

	eligibleGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "detection",
		Name:      "eligible_activities",
		Help:      "Activities considered by the last completed run after sport exclusion.",
	})

	pairsCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "detection",
		Name:      "pairs_compared_total",
		Help:      "Activity pairs evaluated by the match predicate.",
	})

	geocodeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "geocode",
		Name:      "lookups_total",
		Help:      "Country lookups, labeled by the source that answered.",
	}, []string{"source"})

	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, labeled by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
)

func init() {
	prometheus.MustRegister(runsCounter, runDuration, groupsGauge, eligibleGauge, pairsCounter,
		geocodeCounter, httpRequests, httpDuration)
}

// RunFailed records a failed detection run
func RunFailed(elapsed time.Duration) {
	runsCounter.WithLabelValues("failed").Inc()
	runDuration.Observe(elapsed.Seconds())
}

// RunCompleted records a completed detection run
func RunCompleted(elapsed time.Duration, groups, eligible, pairs int) {
	runsCounter.WithLabelValues("completed").Inc()
	runDuration.Observe(elapsed.Seconds())
	groupsGauge.Set(float64(groups))
	eligibleGauge.Set(float64(eligible))
	pairsCounter.Add(float64(pairs))
}

// GeocodeLookup records which source answered a country lookup
func GeocodeLookup(source string) {
	geocodeCounter.WithLabelValues(source).Inc()
}

// HTTPRequest records one served request
func HTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
