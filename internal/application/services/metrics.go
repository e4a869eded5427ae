package services

import "github.com/prometheus/client_golang/prometheus"

var (
	cacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache-through lookups by result (hit, miss, bypass)",
		},
		[]string{"result"},
	)

	adapterResults = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "adapter_results_total",
			Help: "External adapter invocations by adapter and provenance (live, mock)",
		},
		[]string{"adapter", "provenance"},
	)
)

func init() {
	prometheus.MustRegister(cacheRequests)
	prometheus.MustRegister(adapterResults)
}

// ObserveAdapterResult records which variant of an adapter produced a result.
func ObserveAdapterResult(adapter string, provenance string) {
	adapterResults.WithLabelValues(adapter, provenance).Inc()
}
