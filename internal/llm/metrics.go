package llm

import "github.com/prometheus/client_golang/prometheus"

var (
	callsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "repodocs_llm_calls_total",
		Help: "Total completion calls attempted per provider and outcome.",
	}, []string{"provider", "outcome"})

	cacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repodocs_llm_cache_hits_total",
		Help: "Total completion requests served from the response cache.",
	})

	callLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "repodocs_llm_call_latency_seconds",
		Help:    "Latency of completion calls that reached a provider.",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})

	breakerOpenTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "repodocs_llm_breaker_open_total",
		Help: "Total times a provider's circuit breaker tripped open.",
	}, []string{"provider"})
)

func init() {
	prometheus.MustRegister(callsTotal, cacheHitsTotal, callLatencySeconds, breakerOpenTotal)
}
