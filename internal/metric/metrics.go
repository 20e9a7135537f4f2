// Package metric holds the prometheus collectors for batch cart processing
// and exports them in the text format read by the node exporter textfile
// collector.
package metric

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// File outcome labels.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Metrics contains the batch processing metrics.
type Metrics struct {
	FilesProcessed     *prometheus.CounterVec
	ItemsParsed        prometheus.Counter
	ValidationErrors   *prometheus.CounterVec
	CartTotal          prometheus.Histogram
	ProcessingDuration prometheus.Histogram
}

// NewMetrics creates the metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		FilesProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cartparser",
				Name:      "files_processed_total",
				Help:      "Total number of cart files processed, by outcome",
			},
			[]string{"status"},
		),

		ItemsParsed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "cartparser",
				Name:      "items_parsed_total",
				Help:      "Total number of cart items parsed",
			},
		),

		ValidationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "cartparser",
				Name:      "validation_errors_total",
				Help:      "Total number of validation errors, by error type",
			},
			[]string{"type"},
		),

		CartTotal: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "cartparser",
				Name:      "cart_total",
				Help:      "Distribution of parsed cart totals",
				Buckets:   prometheus.ExponentialBuckets(10, 2, 10),
			},
		),

		ProcessingDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "cartparser",
				Name:      "processing_duration_seconds",
				Help:      "Per-file processing duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	for _, c := range []prometheus.Collector{
		m.FilesProcessed,
		m.ItemsParsed,
		m.ValidationErrors,
		m.CartTotal,
		m.ProcessingDuration,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return m, nil
}

// ObserveSuccess records a successfully processed file.
func (m *Metrics) ObserveSuccess(items int, total float64, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FilesProcessed.WithLabelValues(StatusSuccess).Inc()
	m.ItemsParsed.Add(float64(items))
	m.CartTotal.Observe(total)
	m.ProcessingDuration.Observe(elapsed.Seconds())
}

// ObserveFailure records a failed file and the types of any validation
// errors found in it.
func (m *Metrics) ObserveFailure(errorTypes []string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.FilesProcessed.WithLabelValues(StatusFailed).Inc()
	for _, t := range errorTypes {
		m.ValidationErrors.WithLabelValues(t).Inc()
	}
	m.ProcessingDuration.Observe(elapsed.Seconds())
}

// WriteTextfile writes every metric gathered from g to path.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
