package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	previews = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_preview_requests_total",
			Help: "Total preview extractions",
		},
		[]string{"status"},
	)
	saves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_save_requests_total",
			Help: "Total save attempts",
		},
		[]string{"status"},
	)
	saveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_save_duration_seconds",
			Help:    "Save pipeline time",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func RegisterMetrics() {
	prometheus.MustRegister(previews, saves, saveDuration)
}
