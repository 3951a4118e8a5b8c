package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	followerFetchHeightsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "follower",
		Name:      "fetch_heights_total",
		Help:      "Count of chain tip lookups.",
	}, []string{"network", "status"})

	followerFetchHeightsDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "follower",
		Name:      "fetch_heights_duration_seconds",
		Help:      "Duration of chain tip lookups.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	followerProcessHeightTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "follower",
		Name:      "process_height_total",
		Help:      "Count of followed heights.",
	}, []string{"network", "status"})

	followerProcessHeightDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "follower",
		Name:      "process_height_duration_seconds",
		Help:      "Duration of fetching and processing a followed height.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"network", "status"})

	followerHeight = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "follower",
		Name:      "height",
		Help:      "Last height handed to the pipeline.",
	}, []string{"network"})
)

// Follower tracks metrics for the chain follower.
type Follower struct {
	network string
}

// NewFollower constructs a Follower collector.
func NewFollower(network string) *Follower {
	return &Follower{network: orUnknown(network)}
}

// ObserveFetchHeights records a tip lookup outcome and duration.
func (m Follower) ObserveFetchHeights(err error, started time.Time) {
	s := status(err)
	followerFetchHeightsTotal.WithLabelValues(m.network, s).Inc()
	followerFetchHeightsDuration.WithLabelValues(m.network, s).Observe(time.Since(started).Seconds())
}

// ObserveProcessHeight records a followed height.
func (m Follower) ObserveProcessHeight(err error, height uint64, started time.Time) {
	s := status(err)
	followerProcessHeightTotal.WithLabelValues(m.network, s).Inc()
	followerProcessHeightDuration.WithLabelValues(m.network, s).Observe(time.Since(started).Seconds())
	if err == nil {
		followerHeight.WithLabelValues(m.network).Set(float64(height))
	}
}
