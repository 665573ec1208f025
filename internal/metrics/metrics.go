package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the ingest pipeline's instruments on a private
// prometheus registry so the CLI can expose them without touching the
// global default.
type Registry struct {
	reg *prometheus.Registry

	RowsNormalized *prometheus.CounterVec // by platform
	RowsDropped    *prometheus.CounterVec // by platform, reason
	FilesSkipped   *prometheus.CounterVec // by platform
	NormalizeSec   prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	rowsNormalized := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ingest_rows_normalized_total"},
		[]string{"platform"})
	rowsDropped := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ingest_rows_dropped_total"},
		[]string{"platform", "reason"})
	filesSkipped := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ingest_files_skipped_total"},
		[]string{"platform"})
	normalizeSec := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ingest_normalize_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(rowsNormalized, rowsDropped, filesSkipped, normalizeSec)
	return &Registry{
		reg:            r,
		RowsNormalized: rowsNormalized,
		RowsDropped:    rowsDropped,
		FilesSkipped:   filesSkipped,
		NormalizeSec:   normalizeSec,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
