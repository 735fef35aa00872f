package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/leafshare/leafshare/pkg/metrics"
)

type Metrics struct {
	apiResponseTime *prometheus.HistogramVec
	apiErrorCounter *prometheus.CounterVec
	resolveOutcome  *prometheus.CounterVec
	slugRetry       *prometheus.CounterVec
	ownerCache      *prometheus.CounterVec
	purgedContent   *prometheus.CounterVec
}

func NewMetrics(ns, system string) *Metrics {
	// setup metric
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime: metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter: metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		resolveOutcome:  metrics.NewCounterVec("resolve_outcome", []string{"outcome"}),
		slugRetry:       metrics.NewCounterVec("identifier_retry", []string{"kind"}),
		ownerCache:      metrics.NewCounterVec("owner_cache", []string{"result"}),
		purgedContent:   metrics.NewCounterVec("purged_content", nil),
	}

	return m
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

// ResolveOutcomeInc outcome: allow / blocked / expired / forbidden / not_found
func (m *Metrics) ResolveOutcomeInc(outcome string) {
	m.resolveOutcome.WithLabelValues(outcome).Inc()
}

// SlugRetryInc kind: slug / share_code
func (m *Metrics) SlugRetryInc(kind string) {
	m.slugRetry.WithLabelValues(kind).Inc()
}

func (m *Metrics) OwnerCacheHit() {
	m.ownerCache.WithLabelValues("hit").Inc()
}

func (m *Metrics) OwnerCacheMiss() {
	m.ownerCache.WithLabelValues("miss").Inc()
}

func (m *Metrics) PurgedContentAdd(n int) {
	m.purgedContent.WithLabelValues().Add(float64(n))
}
