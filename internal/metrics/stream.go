package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	streamSubscribeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "stream",
		Name:      "subscribe_total",
		Help:      "Count of subscribe attempts by deliver policy.",
	}, []string{"policy", "status"})

	streamSubscribeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "stream",
		Name:      "subscribe_duration_seconds",
		Help:      "Time from subscribe request to an open stream.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"policy", "status"})

	streamPageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "stream",
		Name:      "page_duration_seconds",
		Help:      "Duration of historical page fetches.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"status"})

	streamPageRows = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "stream",
		Name:      "page_rows",
		Help:      "Rows returned per historical page.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
	})

	streamEmittedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "stream",
		Name:      "emitted_total",
		Help:      "Records delivered to subscribers by phase.",
	}, []string{"phase"})

	streamDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "stream",
		Name:      "dropped_total",
		Help:      "Live records discarded at the catch-up seam.",
	}, []string{"reason"})

	streamDecodeErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "stream",
		Name:      "decode_errors_total",
		Help:      "Records that could not be decoded.",
	})

	streamBuffered = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "stream",
		Name:      "buffered_records",
		Help:      "Live records queued behind historical catch-up.",
	})

	streamActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "stream",
		Name:      "active",
		Help:      "Open subscription streams.",
	})
)

// Stream tracks the subscription engine.
type Stream struct{}

// NewStream constructs a Stream collector.
func NewStream() *Stream {
	return &Stream{}
}

// ObserveSubscribe records a subscribe attempt.
func (Stream) ObserveSubscribe(policy string, err error, started time.Time) {
	s := status(err)
	streamSubscribeTotal.WithLabelValues(policy, s).Inc()
	streamSubscribeDuration.WithLabelValues(policy, s).Observe(time.Since(started).Seconds())
}

// ObservePage records a historical page fetch.
func (Stream) ObservePage(err error, rows int, started time.Time) {
	streamPageDuration.WithLabelValues(status(err)).Observe(time.Since(started).Seconds())
	if err == nil {
		streamPageRows.Observe(float64(rows))
	}
}

// IncEmitted counts a delivered record.
func (Stream) IncEmitted(phase string) {
	streamEmittedTotal.WithLabelValues(phase).Inc()
}

// IncDropped counts a discarded live record.
func (Stream) IncDropped(reason string) {
	streamDroppedTotal.WithLabelValues(reason).Inc()
}

// IncDecodeErrors counts an undecodable record.
func (Stream) IncDecodeErrors() {
	streamDecodeErrorsTotal.Inc()
}

// AddBuffered moves the buffered live record gauge.
func (Stream) AddBuffered(delta int) {
	streamBuffered.Add(float64(delta))
}

// ActiveStreams moves the open stream gauge.
func (Stream) ActiveStreams(delta int) {
	streamActive.Add(float64(delta))
}
