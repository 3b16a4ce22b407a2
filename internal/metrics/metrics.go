package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BuildMetrics records one graph build run on its own registry.
type BuildMetrics struct {
	registry  *prometheus.Registry
	rows      prometheus.Counter
	nodes     *prometheus.CounterVec
	edges     *prometheus.CounterVec
	duration  prometheus.Summary
	lastRunTS prometheus.Gauge
	failures  *prometheus.CounterVec
}

// New creates and registers build collectors.
func New() *BuildMetrics {
	m := &BuildMetrics{
		registry: prometheus.NewRegistry(),
		rows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "communitygraph",
			Name:      "rows_total",
			Help:      "Input rows consumed by the graph builder",
		}),
		nodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "communitygraph",
			Name:      "nodes_total",
			Help:      "Distinct graph nodes created, by entity type",
		}, []string{"type"}),
		edges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "communitygraph",
			Name:      "edges_total",
			Help:      "Graph edges created, by relation type",
		}, []string{"type"}),
		duration: prometheus.NewSummary(prometheus.SummaryOpts{
			Namespace: "communitygraph",
			Name:      "run_duration_seconds",
			Help:      "Time spent reading, building, serializing and writing the graph",
		}),
		lastRunTS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "communitygraph",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "communitygraph",
			Name:      "failures_total",
			Help:      "Failed runs, by pipeline stage",
		}, []string{"stage"}),
	}
	m.registry.MustRegister(m.rows, m.nodes, m.edges, m.duration, m.lastRunTS, m.failures)
	return m
}

// ObserveRow counts one consumed row.
func (m *BuildMetrics) ObserveRow() {
	m.rows.Inc()
}

// ObserveNode counts one newly created node.
func (m *BuildMetrics) ObserveNode(kind string) {
	m.nodes.WithLabelValues(kind).Inc()
}

// ObserveEdge counts one created edge.
func (m *BuildMetrics) ObserveEdge(relation string) {
	m.edges.WithLabelValues(relation).Inc()
}

// ObserveFailure counts a failed run at the given stage.
func (m *BuildMetrics) ObserveFailure(stage string) {
	m.failures.WithLabelValues(stage).Inc()
}

// ObserveSuccess records the duration and completion time of a run.
func (m *BuildMetrics) ObserveSuccess(started, finished time.Time) {
	m.duration.Observe(finished.Sub(started).Seconds())
	m.lastRunTS.Set(float64(finished.Unix()))
}

// Registry exposes the underlying registry.
func (m *BuildMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the collected metrics in text exposition format for the
// node_exporter textfile collector.
func (m *BuildMetrics) WriteTextfile(path string) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create metrics directory: %w", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
