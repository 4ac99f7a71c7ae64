package usecases

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeAI       = "ai"
	outcomeFallback = "fallback"
)

var summaryOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "sprintos",
	Name:      "summaries_generated_total",
	Help:      "Generated summaries by source.",
}, []string{"outcome"})
