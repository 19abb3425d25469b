package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics collects fix results for the node-exporter textfile collector
type Metrics struct {
	registry     *prometheus.Registry
	runs         *prometheus.CounterVec
	lastRun      *prometheus.GaugeVec
	replacements *prometheus.GaugeVec
}

// NewMetrics creates a metrics set on its own registry
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "calfix_fix_runs_total",
			Help: "Fix runs by outcome",
		}, []string{"fix", "outcome"}),
		lastRun: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "calfix_fix_last_run_timestamp_seconds",
			Help: "Unix time of the last run of a fix",
		}, []string{"fix"}),
		replacements: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "calfix_fix_replacements",
			Help: "Substitutions made by the last run of a fix",
		}, []string{"fix"}),
	}
	m.registry.MustRegister(m.runs, m.lastRun, m.replacements)
	return m
}

// Observe records a result
func (m *Metrics) Observe(r *Result) {
	m.runs.WithLabelValues(r.Fix, string(r.Outcome)).Inc()
	m.lastRun.WithLabelValues(r.Fix).Set(float64(r.StartTime.Unix()))
	m.replacements.WithLabelValues(r.Fix).Set(float64(r.Replacements))
}

// WriteTextfile atomically writes the collected metrics to path
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}

// Render writes the collected metrics in text exposition format
func (m *Metrics) Render(w io.Writer) error {
	metricFamilies, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	var buf bytes.Buffer
	encoder := expfmt.NewEncoder(&buf, expfmt.FmtText)
	for _, mf := range metricFamilies {
		if err := encoder.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}

	_, err = w.Write(buf.Bytes())
	return err
}
