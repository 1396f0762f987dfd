package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	DecisionsTotal       *prometheus.CounterVec
	OptionsGenerated     prometheus.Histogram
	ValidationViolations prometheus.Counter
	ScorerFallbacks      prometheus.Counter
	NarratorFallbacks    prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		DecisionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "aerox_decisions_total",
			Help: "Total booking decisions by outcome and risk category",
		}, []string{"outcome", "risk_category"}),
		OptionsGenerated: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "aerox_options_generated",
			Help:    "Number of credit options generated per negotiable decision",
			Buckets: []float64{0, 1, 2, 3},
		}),
		ValidationViolations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aerox_validation_violations_total",
			Help: "Total compliance violations found in generated options",
		}),
		ScorerFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aerox_scorer_fallbacks_total",
			Help: "Total decisions made with conservative fallback scores",
		}),
		NarratorFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aerox_narrator_fallbacks_total",
			Help: "Total narrator calls recovered via template fallback",
		}),
	}
}

func (m *Metrics) ObserveDecision(outcome, category string) {
	m.DecisionsTotal.WithLabelValues(outcome, category).Inc()
}

func (m *Metrics) ObserveOptionsCount(n int) {
	m.OptionsGenerated.Observe(float64(n))
}

func (m *Metrics) IncrementViolations(n int) {
	m.ValidationViolations.Add(float64(n))
}

func (m *Metrics) IncrementScorerFallbacks() {
	m.ScorerFallbacks.Inc()
}

func (m *Metrics) IncrementNarratorFallbacks() {
	m.NarratorFallbacks.Inc()
}
