package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	UsersRegistered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "users_registered_total",
			Help: "Registered users by assigned role.",
		},
		[]string{"role"},
	)

	OrdersCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Orders placed.",
		},
	)

	ImageUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "image_uploads_total",
			Help: "Image uploads to the object store by outcome.",
		},
		[]string{"folder", "result"},
	)

	registerOnce sync.Once
)

// Handler serves /metrics.
var Handler = promhttp.Handler

// Init registers the collectors with the default registry once per process.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(HTTPLatency, UsersRegistered, OrdersCreated, ImageUploads)
	})
}
