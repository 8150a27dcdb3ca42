package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	acceptedConnections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wirectl",
			Subsystem: "server",
			Name:      "connections_total",
			Help:      "Total accepted TCP connections.",
		},
	)
	activeConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "wirectl",
			Subsystem: "server",
			Name:      "active_connections",
			Help:      "Currently open client connections.",
		},
	)
	handledMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wirectl",
			Subsystem: "server",
			Name:      "messages_total",
			Help:      "Messages handled, by decoded kind.",
		},
		[]string{"kind"},
	)
	decodeFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "wirectl",
			Subsystem: "server",
			Name:      "decode_failures_total",
			Help:      "Payloads matching no known message kind.",
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(acceptedConnections, activeConnections, handledMessages, decodeFailures)
	})
}

func RecordConnectionOpened() {
	RegisterMetrics()
	acceptedConnections.Inc()
	activeConnections.Inc()
}

func RecordConnectionClosed() {
	RegisterMetrics()
	activeConnections.Dec()
}

func RecordMessage(kind string) {
	RegisterMetrics()
	handledMessages.WithLabelValues(kind).Inc()
}

func RecordDecodeFailure() {
	RegisterMetrics()
	decodeFailures.Inc()
}
