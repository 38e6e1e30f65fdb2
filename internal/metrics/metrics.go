package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SolveDuration records the savings + merge time of one plan.
	SolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "route_solve_duration_seconds", Help: "Savings computation and merge loop duration in seconds.", Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}},
	)
	// MergeOutcomes counts candidate merges by outcome.
	MergeOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_merge_outcomes_total", Help: "Candidate route merges by outcome."},
		[]string{"outcome"},
	)

	// RoutingRequests counts calls to the external routing service by endpoint and result.
	RoutingRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "routing_service_requests_total", Help: "Routing service requests by endpoint and result."},
		[]string{"endpoint", "result"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SolveDuration)
		Registry.MustRegister(MergeOutcomes)
		Registry.MustRegister(RoutingRequests)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// ObserveSolve records one run of the merge loop.
func ObserveSolve(d time.Duration, accepted, rejectedCapacity, rejectedRunningLoad, droppedPickups int) {
	SolveDuration.Observe(d.Seconds())
	MergeOutcomes.WithLabelValues("accepted").Add(float64(accepted))
	MergeOutcomes.WithLabelValues("rejected_capacity").Add(float64(rejectedCapacity))
	MergeOutcomes.WithLabelValues("rejected_running_load").Add(float64(rejectedRunningLoad))
	MergeOutcomes.WithLabelValues("dropped_pickup").Add(float64(droppedPickups))
}
