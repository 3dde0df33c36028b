package stats

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ElementsScanned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "osmdocs_elements_scanned_total",
			Help: "Total number of OSM XML elements read",
		},
		[]string{"tag"},
	)

	DocumentsExported = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "osmdocs_documents_exported_total",
			Help: "Total number of documents written to the export file",
		},
		[]string{"type"},
	)

	DocumentsLoaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "osmdocs_documents_loaded_total",
			Help: "Total number of documents inserted into the store",
		},
	)

	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "osmdocs_step_duration_seconds",
			Help:    "Duration of processing steps in seconds",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 300, 900, 3600},
		},
		[]string{"step"},
	)
)

// RecordStep records the duration of a finished processing step.
func RecordStep(step string, d time.Duration) {
	StepDuration.WithLabelValues(step).Observe(d.Seconds())
}

// WriteTextfile writes all registered metrics in the text format of the
// node_exporter textfile collector.
func WriteTextfile(fname string) error {
	if err := prometheus.WriteToTextfile(fname, prometheus.DefaultGatherer); err != nil {
		return errors.Wrapf(err, "writing metrics to %s", fname)
	}
	return nil
}
