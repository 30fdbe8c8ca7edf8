package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// CalcMetrics exports the calculator service counters.
type CalcMetrics struct {
	rpcRequests    *prometheus.CounterVec
	rateLimited    prometheus.Counter
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	mergedBuilders prometheus.Gauge
}

var (
	calcOnce     sync.Once
	calcRegistry *CalcMetrics
)

// Calc returns the process-wide calculator metrics, registering them on first
// use.
func Calc() *CalcMetrics {
	calcOnce.Do(func() {
		calcRegistry = &CalcMetrics{
			rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "calc_rpc_requests_total",
				Help: "Count of calculator RPC requests by method and outcome.",
			}, []string{"method", "outcome"}),
			rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "calc_rpc_rate_limited_total",
				Help: "Count of requests rejected by the per-client rate limiter.",
			}),
			cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "calc_cache_hits_total",
				Help: "Count of cache reads served fresh.",
			}),
			cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "calc_cache_misses_total",
				Help: "Count of cache reads that missed or had expired.",
			}),
			mergedBuilders: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "calc_builders_merged",
				Help: "Size of the most recently reconciled builder directory.",
			}),
		}
		prometheus.MustRegister(
			calcRegistry.rpcRequests,
			calcRegistry.rateLimited,
			calcRegistry.cacheHits,
			calcRegistry.cacheMisses,
			calcRegistry.mergedBuilders,
		)
	})
	return calcRegistry
}

// ObserveRequest records one RPC request outcome.
func (m *CalcMetrics) ObserveRequest(method string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.rpcRequests.WithLabelValues(method, outcome).Inc()
}

// ObserveRateLimited records one rate-limited request.
func (m *CalcMetrics) ObserveRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// Hit satisfies cache.Stats.
func (m *CalcMetrics) Hit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

// Miss satisfies cache.Stats.
func (m *CalcMetrics) Miss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

// SetMergedBuilders records the reconciled directory size.
func (m *CalcMetrics) SetMergedBuilders(n int) {
	if m == nil {
		return
	}
	m.mergedBuilders.Set(float64(n))
}
