package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(cacheRequestsTotal)
}

var cacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cache_requests_total",
		Help: "Cache lookups by cache name and result (hit/miss/error).",
	},
	[]string{"cache", "result"},
)

func IncCacheHit(cache string)   { cacheRequestsTotal.WithLabelValues(cache, "hit").Inc() }
func IncCacheMiss(cache string)  { cacheRequestsTotal.WithLabelValues(cache, "miss").Inc() }
func IncCacheError(cache string) { cacheRequestsTotal.WithLabelValues(cache, "error").Inc() }
