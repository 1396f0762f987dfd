package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RoundsTotal       *prometheus.CounterVec
	EscalationsTotal  prometheus.Counter
	NarratorFallbacks prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		RoundsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aerox_negotiation_rounds_total",
			Help: "Negotiation rounds processed, by result",
		}, []string{"result"}),
		EscalationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aerox_negotiation_escalations_total",
			Help: "Sessions escalated to manual review",
		}),
		NarratorFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aerox_negotiation_narrator_fallbacks_total",
			Help: "Rounds answered by the deterministic fallback after a narrator failure",
		}),
	}
}

func (m *Metrics) ObserveRound(result string) {
	m.RoundsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) IncrementEscalations() {
	m.EscalationsTotal.Inc()
}

func (m *Metrics) IncrementNarratorFallbacks() {
	m.NarratorFallbacks.Inc()
}
