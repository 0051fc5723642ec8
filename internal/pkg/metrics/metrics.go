// Package metrics holds the Prometheus collectors shared by the gateway
// components. Collectors register on the default registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "petcare_gateway"

var (
	// DispatchAttempts counts every remote attempt by outcome
	// (ok, timeout, transport, application).
	DispatchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_attempts_total",
		Help:      "Remote command attempts by service, command and outcome.",
	}, []string{"service", "command", "outcome"})

	DispatchRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dispatch_retries_total",
		Help:      "Remote command retries scheduled after a transient failure.",
	}, []string{"service", "command"})

	DispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dispatch_duration_seconds",
		Help:      "Wall time of a dispatch including retries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "command"})

	// CacheLookups counts cache-aside reads by key kind and result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_lookups_total",
		Help:      "Cache-aside lookups by key kind and result.",
	}, []string{"kind", "result"})

	CacheInvalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_invalidations_total",
		Help:      "Explicit cache invalidations by key kind.",
	}, []string{"kind"})

	SagaRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "saga_runs_total",
		Help:      "Finished saga runs by saga name and final state.",
	}, []string{"saga", "state"})

	CompensationFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "saga_compensation_failures_total",
		Help:      "Compensations that returned an error and were absorbed.",
	}, []string{"saga", "step"})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
