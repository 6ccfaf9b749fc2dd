package identity

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var handleResolution = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "atauthn_identity_resolve_handle",
	Help: "atproto handle resolutions",
}, []string{"status"})

var handleResolutionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "atauthn_identity_resolve_handle_duration",
	Help:    "Time to resolve a handle",
	Buckets: prometheus.ExponentialBucketsRange(0.0001, 2, 20),
}, []string{"status"})

var didResolution = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "atauthn_identity_resolve_did",
	Help: "atproto DID resolutions",
}, []string{"status"})

var didResolutionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "atauthn_identity_resolve_did_duration",
	Help:    "Time to resolve a DID",
	Buckets: prometheus.ExponentialBucketsRange(0.0001, 2, 20),
}, []string{"status"})

var handleCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "atauthn_identity_handle_cache_hits",
	Help: "Handle cache hits",
})

var handleCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "atauthn_identity_handle_cache_misses",
	Help: "Handle cache misses",
})

var didCacheHits = promauto.NewCounter(prometheus.CounterOpts{
	Name: "atauthn_identity_did_cache_hits",
	Help: "DID document cache hits",
})

var didCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
	Name: "atauthn_identity_did_cache_misses",
	Help: "DID document cache misses",
})

func metricStatus(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not-found"
	default:
		return "error"
	}
}
