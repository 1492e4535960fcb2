package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ResponseTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_time_seconds",
			Help:    "Histogram of response times",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	SettingsReloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affiliate_settings_reloads_total",
			Help: "Settings reloads by outcome and source",
		},
		[]string{"outcome", "source"},
	)

	SettingsFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affiliate_settings_fallbacks_total",
			Help: "Settings keys missing from the store and replaced by their default",
		},
		[]string{"key"},
	)

	CommissionErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "affiliate_commission_errors_total",
			Help: "Commission computations that failed, by error class",
		},
		[]string{"class"},
	)
)
