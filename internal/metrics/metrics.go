package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
	DatasetRecords prometheus.Gauge
	ReportsWritten prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "morsel_http_requests_total",
		Help: "HTTP requests served, by method, route and status.",
	}, []string{"method", "path", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "morsel_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
	records := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "morsel_dataset_records",
		Help: "Records in the loaded sales dataset.",
	})
	reports := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "morsel_reports_written_total",
		Help: "Report files generated.",
	})

	r.MustRegister(requests, duration, records, reports)

	return &Registry{
		reg:            r,
		HTTPRequests:   requests,
		HTTPDuration:   duration,
		DatasetRecords: records,
		ReportsWritten: reports,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
