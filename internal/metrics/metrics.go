// Package metrics exposes pipeline lifecycle counters and gauges in
// Prometheus format. All series are fed from the event bus so the
// pipeline controller stays free of metrics plumbing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/camkeep/camkeep/internal/events"
)

// Metrics owns the Prometheus registry and the pipeline series.
type Metrics struct {
	registry *prometheus.Registry

	activePipelines *prometheus.GaugeVec
	startsTotal     *prometheus.CounterVec
	exitsTotal      *prometheus.CounterVec
	forceKillsTotal *prometheus.CounterVec
	spawnFailsTotal *prometheus.CounterVec

	unsubs []func()
}

// New creates the metric set and registers it on a fresh registry along
// with the standard Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return newWithRegistry(reg)
}

func newWithRegistry(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		activePipelines: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "camkeep_pipelines_active",
			Help: "Number of running ffmpeg pipelines by kind.",
		}, []string{"kind"}),
		startsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "camkeep_pipeline_starts_total",
			Help: "Pipeline processes started, by kind.",
		}, []string{"kind"}),
		exitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "camkeep_pipeline_exits_total",
			Help: "Pipeline processes exited, by kind and exit class.",
		}, []string{"kind", "clean"}),
		forceKillsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "camkeep_pipeline_force_kills_total",
			Help: "Pipelines killed after a graceful stop timed out, by kind.",
		}, []string{"kind"}),
		spawnFailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "camkeep_pipeline_spawn_failures_total",
			Help: "Pipeline spawn attempts rejected by the OS, by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.activePipelines,
		m.startsTotal,
		m.exitsTotal,
		m.forceKillsTotal,
		m.spawnFailsTotal,
	)

	// Seed known kinds so the gauges exist before the first start.
	for _, kind := range []string{"streaming", "recording"} {
		m.activePipelines.WithLabelValues(kind).Set(0)
	}
	return m
}

// Attach subscribes the metric set to pipeline events on the bus.
func (m *Metrics) Attach(bus *events.Bus) {
	m.unsubs = append(m.unsubs,
		bus.Subscribe(func(e events.PipelineStartedEvent) {
			m.startsTotal.WithLabelValues(e.Kind).Inc()
			m.activePipelines.WithLabelValues(e.Kind).Inc()
		}),
		bus.Subscribe(func(e events.PipelineExitedEvent) {
			clean := "false"
			if e.ExitCode == 0 {
				clean = "true"
			}
			m.exitsTotal.WithLabelValues(e.Kind, clean).Inc()
			m.activePipelines.WithLabelValues(e.Kind).Dec()
		}),
		bus.Subscribe(func(e events.PipelineForceKilledEvent) {
			m.forceKillsTotal.WithLabelValues(e.Kind).Inc()
		}),
		bus.Subscribe(func(e events.PipelineSpawnFailedEvent) {
			m.spawnFailsTotal.WithLabelValues(e.Kind).Inc()
		}),
	)
}

// Detach unsubscribes from the bus.
func (m *Metrics) Detach() {
	for _, unsub := range m.unsubs {
		unsub()
	}
	m.unsubs = nil
}

// Handler returns the /metrics HTTP handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
