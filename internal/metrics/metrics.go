// Package metrics holds Prometheus instruments that are used across the
// framework.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DispatchTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skiff_dispatch_total",
			Help: "Cumulative number of requests entering the pattern router.",
		})

	DispatchMissTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skiff_dispatch_miss_total",
			Help: "Cumulative number of dispatches that ended in a 404.",
		})

	RenderErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skiff_render_errors_total",
			Help: "Cumulative number of template render failures.",
		})

	UploadTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "skiff_upload_total",
			Help: "Cumulative number of accepted file uploads.",
		})
)

func init() {
	prometheus.MustRegister(
		DispatchTotal,
		DispatchMissTotal,
		RenderErrorsTotal,
		UploadTotal,
	)
}
