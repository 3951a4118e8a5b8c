package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelinePhaseTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "phase_total",
		Help:      "Count of block phases by outcome.",
	}, []string{"network", "phase", "status"})

	pipelinePhaseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "phase_duration_seconds",
		Help:      "Duration of a block phase.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"network", "phase", "status"})

	pipelinePackets = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "packets_total",
		Help:      "Packets completed per phase.",
	}, []string{"network", "phase"})

	pipelinePublishFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "pipeline",
		Name:      "publish_failures_total",
		Help:      "Packets stored but not published.",
	}, []string{"network"})
)

// Pipeline tracks the store and publish phases of ingested blocks.
type Pipeline struct {
	network string
}

// NewPipeline constructs a Pipeline collector.
func NewPipeline(network string) *Pipeline {
	return &Pipeline{network: orUnknown(network)}
}

// ObservePhase records one phase of a block.
func (m Pipeline) ObservePhase(phase string, err error, packets int, started time.Time) {
	s := status(err)
	pipelinePhaseTotal.WithLabelValues(m.network, phase, s).Inc()
	pipelinePhaseDuration.WithLabelValues(m.network, phase, s).Observe(time.Since(started).Seconds())
	pipelinePackets.WithLabelValues(m.network, phase).Add(float64(packets))
}

// ObservePublishFailures counts packets that failed to publish.
func (m Pipeline) ObservePublishFailures(n int) {
	pipelinePublishFailures.WithLabelValues(m.network).Add(float64(n))
}
