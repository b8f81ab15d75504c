package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museweave_http_requests_total",
			Help: "HTTP requests by method, path and status.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "museweave_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ArtworkUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "museweave_artwork_uploads_total",
			Help: "Artwork uploads by outcome.",
		},
		[]string{"outcome"},
	)

	ShareLinksIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "museweave_share_links_issued_total",
			Help: "Share links issued.",
		},
	)

	ActiveViewers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "museweave_active_viewers",
			Help: "Currently live viewing sessions.",
		},
	)
)
