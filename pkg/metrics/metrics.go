package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transform_records_total",
			Help: "Total number of Firehose records processed, by result (count)",
		},
		[]string{"result"},
	)

	RecordFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transform_record_failures_total",
			Help: "Total number of records that failed processing, by error code (count)",
		},
		[]string{"code"},
	)

	BatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transform_batches_total",
			Help: "Total number of batches processed, by invocation source (count)",
		},
		[]string{"source"},
	)

	BatchSize = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transform_batch_size_records",
			Help:    "Number of records per batch",
			Buckets: []float64{1, 10, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "transform_batch_duration_ms",
			Help:    "Processing duration per batch in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		},
	)

	RecordSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "transform_record_size_bytes",
			Help:    "Size of record data in bytes, by direction",
			Buckets: []float64{100, 500, 1000, 5000, 10000, 50000, 100000, 500000, 1000000},
		},
		[]string{"direction"},
	)

	PredicateEvaluationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transform_predicate_evaluations_total",
			Help: "Total number of document predicate evaluations (count)",
		},
		[]string{"result"},
	)

	RateLimitRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limit_requests_total",
			Help: "Total number of requests checked against rate limit (count)",
		},
		[]string{"status"},
	)
)

var registerOnce sync.Once

// Register adds all collectors to the default registry. Safe to call more
// than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RecordsTotal)
		prometheus.MustRegister(RecordFailuresTotal)
		prometheus.MustRegister(BatchesTotal)
		prometheus.MustRegister(BatchSize)
		prometheus.MustRegister(BatchDuration)
		prometheus.MustRegister(RecordSizeBytes)
		prometheus.MustRegister(PredicateEvaluationsTotal)
		prometheus.MustRegister(RateLimitRequestsTotal)
	})
}

func IncRecord(result string) {
	RecordsTotal.WithLabelValues(result).Inc()
}

func IncRecordFailure(code string) {
	RecordFailuresTotal.WithLabelValues(code).Inc()
}

func ObserveBatch(source string, size int, duration time.Duration) {
	BatchesTotal.WithLabelValues(source).Inc()
	BatchSize.Observe(float64(size))
	BatchDuration.Observe(float64(duration.Milliseconds()))
}

func ObserveRecordSize(direction string, sizeBytes int) {
	RecordSizeBytes.WithLabelValues(direction).Observe(float64(sizeBytes))
}

func IncPredicateEvaluation(result string) {
	PredicateEvaluationsTotal.WithLabelValues(result).Inc()
}
