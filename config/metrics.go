package config

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for the application.
type Metrics struct {
	RegistrationsSubmitted prometheus.Counter
	DecisionsMade          *prometheus.CounterVec
	ChatReplies            *prometheus.CounterVec
}

var metricsInstance *Metrics

func GetMetrics() *Metrics {
	if metricsInstance == nil {
		metricsInstance = &Metrics{
			RegistrationsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
				Name: "spmb_registrations_submitted_total",
				Help: "Total number of registrations stored",
			}),
			DecisionsMade: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "spmb_admin_decisions_total",
				Help: "Total number of admin status decisions by resulting status",
			}, []string{"status"}),
			ChatReplies: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "spmb_chat_replies_total",
				Help: "Total number of assistant replies by outcome",
			}, []string{"outcome"}),
		}
	}
	return metricsInstance
}
