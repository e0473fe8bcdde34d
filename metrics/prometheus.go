// Package metrics provides Prometheus metrics for the dashboard
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// View metrics
	ViewRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "palstats_view_renders_total",
			Help: "Total number of view render passes",
		},
		[]string{"view", "status"},
	)

	ViewRenderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "palstats_view_render_duration_seconds",
			Help:    "Time taken to compute a view",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"view"},
	)

	SectionErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "palstats_section_errors_total",
			Help: "Sections replaced by a message because their input was empty",
		},
		[]string{"view", "section"},
	)

	// Dataset metrics
	DatasetRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "palstats_dataset_rows",
			Help: "Rows loaded per dataset",
		},
		[]string{"dataset"},
	)

	DatasetLoadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "palstats_dataset_load_duration_seconds",
			Help:    "Time taken to read and parse a dataset",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dataset", "source"},
	)

	DatasetLoadErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "palstats_dataset_load_errors_total",
			Help: "Total number of dataset load failures",
		},
		[]string{"dataset", "source"},
	)

	// Output metrics
	ChartsRendered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "palstats_charts_rendered_total",
			Help: "Total number of chart images produced",
		},
		[]string{"chart_type"},
	)
)

// RecordRender records a finished view render
func RecordRender(view, status string, duration time.Duration) {
	ViewRendersTotal.WithLabelValues(view, status).Inc()
	ViewRenderDuration.WithLabelValues(view).Observe(duration.Seconds())
}

// RecordSectionMessage records a section degraded to a message
func RecordSectionMessage(view, section string) {
	SectionErrorsTotal.WithLabelValues(view, section).Inc()
}

// RecordDatasetLoad records a successful dataset load
func RecordDatasetLoad(dataset, source string, rows int, duration time.Duration) {
	DatasetRows.WithLabelValues(dataset).Set(float64(rows))
	DatasetLoadDuration.WithLabelValues(dataset, source).Observe(duration.Seconds())
}

// RecordDatasetError records a dataset load failure
func RecordDatasetError(dataset, source string) {
	DatasetLoadErrors.WithLabelValues(dataset, source).Inc()
}

// RecordChart records a chart image
func RecordChart(chartType string) {
	ChartsRendered.WithLabelValues(chartType).Inc()
}

// Timer is a helper for measuring duration
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
