package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queryRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "query",
		Name:      "requests_total",
		Help:      "Count of historical queries by subject and status.",
	}, []string{"subject", "status"})

	queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "query",
		Name:      "duration_seconds",
		Help:      "Duration of historical queries.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"subject"})

	queryRows = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "query",
		Name:      "rows",
		Help:      "Records returned per historical query.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 11), // 1..1024
	}, []string{"subject"})
)

// Query tracks the historical query handler.
type Query struct{}

// NewQuery constructs a Query collector.
func NewQuery() *Query {
	return &Query{}
}

// ObserveQuery records one served query.
func (Query) ObserveQuery(subject string, err error, rows int, started time.Time) {
	subject = orUnknown(subject)
	queryRequestsTotal.WithLabelValues(subject, status(err)).Inc()
	queryDuration.WithLabelValues(subject).Observe(time.Since(started).Seconds())
	if err == nil {
		queryRows.WithLabelValues(subject).Observe(float64(rows))
	}
}
