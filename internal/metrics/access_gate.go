package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var accessDecisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "access_gate",
	Name:      "decisions_total",
	Help:      "Access gate decisions by check.",
}, []string{"check", "decision"})

// AccessGate tracks access gate decisions.
type AccessGate struct{}

// NewAccessGate constructs an AccessGate collector.
func NewAccessGate() *AccessGate {
	return &AccessGate{}
}

// ObserveDecision counts an allowed or denied check.
func (AccessGate) ObserveDecision(check string, err error) {
	decision := "allowed"
	if err != nil {
		decision = "denied"
	}
	accessDecisionsTotal.WithLabelValues(check, decision).Inc()
}
