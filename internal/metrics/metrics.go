// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application's Prometheus collectors.
type Metrics struct {
	HTTPRequestTotal    *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	StorageUploadTotal    *prometheus.CounterVec
	StorageUploadDuration *prometheus.HistogramVec
}

// New creates and registers the collectors on the provided registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aora_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aora_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		StorageUploadTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aora_storage_uploads_total",
			Help: "Total number of media uploads",
		}, []string{"kind", "status"}),
		StorageUploadDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aora_storage_upload_duration_seconds",
			Help:    "Media upload duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"kind"}),
	}
}
