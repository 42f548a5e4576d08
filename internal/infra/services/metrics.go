package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricStageSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_seconds",
		Help:    "Duration of pipeline stages (transcription, reply, enrichment)",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"stage"})

	metricBackgroundOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_background_outcomes_total",
		Help: "Background task completions by outcome",
	}, []string{"task", "outcome"})

	metricRoutingFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_routing_failures_total",
		Help: "Turns whose language binding matched no transcription provider",
	})

	metricTurns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_turns_total",
		Help: "Completed pipeline turns",
	})
)
