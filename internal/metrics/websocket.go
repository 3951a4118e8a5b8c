package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	websocketUpgradesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "websocket",
		Name:      "upgrades_total",
		Help:      "Count of websocket upgrade attempts.",
	}, []string{"status"})

	websocketSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "websocket",
		Name:      "sessions",
		Help:      "Open websocket sessions.",
	})

	websocketMessagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "websocket",
		Name:      "messages_total",
		Help:      "Websocket frames by direction and kind.",
	}, []string{"direction", "kind"})
)

// WebSocket tracks the subscription server.
type WebSocket struct{}

// NewWebSocket constructs a WebSocket collector.
func NewWebSocket() *WebSocket {
	return &WebSocket{}
}

// ObserveUpgrade counts an upgrade attempt.
func (WebSocket) ObserveUpgrade(err error) {
	websocketUpgradesTotal.WithLabelValues(status(err)).Inc()
}

// Sessions moves the open session gauge.
func (WebSocket) Sessions(delta int) {
	websocketSessions.Add(float64(delta))
}

// IncInbound counts a client frame.
func (WebSocket) IncInbound(kind string) {
	websocketMessagesTotal.WithLabelValues("inbound", kind).Inc()
}

// IncOutbound counts a server frame.
func (WebSocket) IncOutbound(kind string) {
	websocketMessagesTotal.WithLabelValues("outbound", kind).Inc()
}
