package realtime

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	subscriberGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sprintos",
		Subsystem: "realtime",
		Name:      "subscribers",
		Help:      "Live change-feed subscriptions.",
	})
	connectionGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "sprintos",
		Subsystem: "realtime",
		Name:      "websocket_connections",
		Help:      "Open realtime websocket connections.",
	})
	droppedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sprintos",
		Subsystem: "realtime",
		Name:      "dropped_events_total",
		Help:      "Changes not delivered because a subscriber buffer was full.",
	})
)
