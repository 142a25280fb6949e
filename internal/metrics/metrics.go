package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clinichub"

var (
	// TenantResolutions counts boundary-hook resolutions by deciding rule
	TenantResolutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tenant_resolutions_total",
		Help:      "Clinic resolutions performed at the request boundary, by source.",
	}, []string{"source"})

	// CrossTenantQueries counts queries that bypass the ambient clinic
	CrossTenantQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cross_tenant_queries_total",
		Help:      "Queries issued through QueryForClinic or QueryAllTenants.",
	}, []string{"method", "entity"})

	// HTTPRequests counts served requests
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests served, by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPDuration observes request latency
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ClinicCacheLookups counts clinic cache hits and misses
	ClinicCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "clinic_cache_lookups_total",
		Help:      "Clinic lookups served from cache, by result.",
	}, []string{"result"})
)
