// Package metrics provides Prometheus metrics for the monitoring API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the triage service.
type Metrics struct {
	CheckInsTotal     *prometheus.CounterVec
	ChatMessagesTotal *prometheus.CounterVec
	EscalationsTotal  prometheus.Counter
	RequestDuration   *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		CheckInsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardioguard_check_ins_total",
				Help: "Total number of daily check-ins by triage classification",
			},
			[]string{"classification"},
		),
		ChatMessagesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cardioguard_chat_messages_total",
				Help: "Total number of patient chat messages by intent and severity",
			},
			[]string{"intent", "severity"},
		),
		EscalationsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "cardioguard_escalations_total",
				Help: "Total number of care-team escalations raised",
			},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cardioguard_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}
