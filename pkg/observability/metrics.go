package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/nfalab/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by engine lifecycle hooks.
type Metrics struct {
	registry *prometheus.Registry

	compilations    *prometheus.CounterVec
	compileDuration prometheus.Histogram
	automatonStates prometheus.Histogram
	steps           *prometheus.CounterVec
	verdicts        *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry, together with
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		compilations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfalab_compilations_total",
				Help: "Pattern compilations by result and error kind",
			},
			[]string{"result", "kind"},
		),
		compileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nfalab_compile_duration_seconds",
				Help:    "Duration of pattern compilations",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
		),
		automatonStates: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "nfalab_automaton_states",
				Help:    "Number of states of compiled automata",
				Buckets: prometheus.LinearBuckets(0, 25, 10),
			},
		),
		steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfalab_steps_total",
				Help: "Simulation cursor movements by direction",
			},
			[]string{"direction"},
		),
		verdicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nfalab_verdicts_total",
				Help: "Inputs fully consumed, by verdict",
			},
			[]string{"verdict"},
		),
	}

	m.registry.MustRegister(
		m.compilations,
		m.compileDuration,
		m.automatonStates,
		m.steps,
		m.verdicts,
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

// Hooks returns lifecycle hooks that record every event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnCompile: func(_ context.Context, e *domain.CompileEvent) {
			if e.Err != nil {
				m.compilations.WithLabelValues("error", string(e.Kind)).Inc()
				return
			}
			m.compilations.WithLabelValues("ok", "").Inc()
			m.compileDuration.Observe(e.Duration.Seconds())
			m.automatonStates.Observe(float64(e.States))
		},
		OnStep: func(_ context.Context, e *domain.StepEvent) {
			m.steps.WithLabelValues(string(e.Direction)).Inc()
			if e.Direction == domain.DirectionForward && e.Complete {
				verdict := "rejected"
				if e.Accepted {
					verdict = "accepted"
				}
				m.verdicts.WithLabelValues(verdict).Inc()
			}
		},
	}
}
