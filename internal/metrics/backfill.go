package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backfillProcessBatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backfill",
		Name:      "process_batch_total",
		Help:      "Count of processed height chunks.",
	}, []string{"network", "status"})

	backfillProcessBatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backfill",
		Name:      "process_batch_duration_seconds",
		Help:      "Duration of processing a chunk of heights.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	backfillProcessBatchSize = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backfill",
		Name:      "process_batch_size",
		Help:      "Number of heights processed per chunk.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	}, []string{"network"})

	backfillProcessHeightDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backfill",
		Name:      "process_height_duration_seconds",
		Help:      "Duration of fetching and building a single height.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	backfillFlushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "backfill",
		Name:      "flush_total",
		Help:      "Count of batched store inserts.",
	}, []string{"network", "status"})

	backfillFlushPackets = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backfill",
		Name:      "flush_packets",
		Help:      "Packets written per batched insert.",
		Buckets:   prometheus.ExponentialBuckets(16, 2, 14),
	}, []string{"network"})

	backfillFlushDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "backfill",
		Name:      "flush_duration_seconds",
		Help:      "Duration of batched store inserts.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30, 60},
	}, []string{"network", "status"})
)

// Backfill tracks metrics for range backfills.
type Backfill struct {
	network string
}

// NewBackfill constructs a Backfill collector.
func NewBackfill(network string) *Backfill {
	return &Backfill{network: orUnknown(network)}
}

// ObserveProcessBatch records processing of a chunk of heights.
func (m Backfill) ObserveProcessBatch(err error, heights int, started time.Time) {
	s := status(err)
	backfillProcessBatchTotal.WithLabelValues(m.network, s).Inc()
	backfillProcessBatchDuration.WithLabelValues(m.network, s).Observe(time.Since(started).Seconds())
	backfillProcessBatchSize.WithLabelValues(m.network).Observe(float64(heights))
}

// ObserveProcessHeight records processing of a single height.
func (m Backfill) ObserveProcessHeight(err error, _ uint64, started time.Time) {
	backfillProcessHeightDuration.WithLabelValues(m.network, status(err)).Observe(time.Since(started).Seconds())
}

// ObserveFlush records one batched insert.
func (m Backfill) ObserveFlush(err error, packets int, started time.Time) {
	s := status(err)
	backfillFlushTotal.WithLabelValues(m.network, s).Inc()
	backfillFlushDuration.WithLabelValues(m.network, s).Observe(time.Since(started).Seconds())
	backfillFlushPackets.WithLabelValues(m.network).Observe(float64(packets))
}
