package cache

import "github.com/prometheus/client_golang/prometheus"

const (
	resultHit   = "hit"
	resultMiss  = "miss"
	resultError = "error"
)

// cacheRequests counts read-through lookups by operation and result. The op
// label is the first key component ("list", "get"), keeping cardinality fixed.
var cacheRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "catalog_cache_requests_total",
		Help: "Read-through cache lookups by operation and result (hit, miss, error).",
	},
	[]string{"op", "result"},
)

func init() {
	prometheus.MustRegister(cacheRequests)
}
