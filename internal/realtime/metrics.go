package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Reasons an inbound event or outbound frame is dropped.
const (
	DropMalformed      = "malformed"
	DropUnknownEvent   = "unknown_event"
	DropNotJoined      = "not_joined"
	DropInvalidMessage = "invalid_message"
	DropBinaryFrame    = "binary_frame"
	DropSlowConsumer   = "slow_consumer"
)

// Metrics holds the chat collectors.
type Metrics struct {
	connections prometheus.Gauge
	messages    prometheus.Counter
	dropped     *prometheus.CounterVec
}

// NewMetrics creates the chat collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "chat_connections",
			Help: "Number of open chat sockets.",
		}),
		messages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total number of chat messages broadcast.",
		}),
		dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "chat_events_dropped_total",
			Help: "Chat events ignored or frames not delivered, by reason.",
		}, []string{"reason"}),
	}

	for _, c := range []prometheus.Collector{m.connections, m.messages, m.dropped} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) drop(reason string) {
	m.dropped.WithLabelValues(reason).Inc()
}
