package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/intake/pkg/domain"
)

// Metrics records wizard activity as Prometheus series.
// Each instance owns its registry so several engines can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	StepVisits  *prometheus.CounterVec
	Answers     *prometheus.CounterVec
	Rejections  *prometheus.CounterVec
	Completions *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them, along with the Go runtime
// collectors, on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StepVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_step_visits_total",
				Help: "Total number of step entries",
			},
			[]string{"flow_id", "step"},
		),
		Answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_answers_total",
				Help: "Accepted submit operations",
			},
			[]string{"flow_id", "key"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_rejections_total",
				Help: "Rejected wizard operations by reason",
			},
			[]string{"flow_id", "op", "reason"},
		),
		Completions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "intake_completions_total",
				Help: "Sessions sealed after summary confirmation",
			},
			[]string{"flow_id"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "intake_session_duration_seconds",
				Help:    "Time from session start to completion",
				Buckets: []float64{10, 30, 60, 120, 300, 600, 1800, 3600},
			},
			[]string{"flow_id"},
		),
	}
	m.registry.MustRegister(
		m.StepVisits, m.Answers, m.Rejections, m.Completions, m.Duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStepEnter: func(ctx context.Context, e *domain.StepEvent) {
			step := e.Key
			if e.Terminal {
				step = "summary"
			}
			m.StepVisits.WithLabelValues(e.FlowID, step).Inc()
		},
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			m.Answers.WithLabelValues(e.FlowID, e.Key).Inc()
		},
		OnRejected: func(ctx context.Context, e *domain.AnswerEvent) {
			m.Rejections.WithLabelValues(e.FlowID, e.Op, Reason(e.Err)).Inc()
		},
		OnComplete: func(ctx context.Context, e *domain.CompletionEvent) {
			m.Completions.WithLabelValues(e.FlowID).Inc()
			m.Duration.WithLabelValues(e.FlowID).Observe(e.Duration.Seconds())
		},
	}
}
