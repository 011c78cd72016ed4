package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "devprov"

// Registry builds a Prometheus registry describing run. It is meant for a
// node_exporter textfile collector, so every value is a gauge of the last run.
func Registry(run *Run) (*prometheus.Registry, error) {
	reg := prometheus.NewRegistry()

	success := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "run",
		Name:      "success",
		Help:      "Whether the last provisioning run succeeded (1) or failed (0)",
	}, []string{"environment"})

	duration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "run",
		Name:      "duration_seconds",
		Help:      "Duration of the last provisioning run in seconds",
	}, []string{"environment"})

	finished := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "run",
		Name:      "finish_timestamp_seconds",
		Help:      "Unix time the last provisioning run finished",
	}, []string{"environment"})

	taskDuration := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "task",
		Name:      "duration_seconds",
		Help:      "Duration of each task in the last run in seconds",
	}, []string{"environment", "task", "status"})

	taskChanged := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "task",
		Name:      "changed_resources",
		Help:      "Resources modified by each task in the last run",
	}, []string{"environment", "task"})

	for _, c := range []prometheus.Collector{success, duration, finished, taskDuration, taskChanged} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	env := run.Environment
	ok := 0.0
	if run.Succeeded() {
		ok = 1
	}
	success.WithLabelValues(env).Set(ok)
	duration.WithLabelValues(env).Set(run.Duration().Seconds())
	finished.WithLabelValues(env).Set(float64(run.Finish.Unix()))

	for _, s := range run.Steps {
		if s.Status == StatusNotRun {
			continue
		}
		taskDuration.WithLabelValues(env, s.Name, string(s.Status)).Set(s.Duration.Seconds())
		taskChanged.WithLabelValues(env, s.Name).Add(float64(s.Changed))
	}

	return reg, nil
}

// WriteMetrics writes run as a Prometheus textfile to path.
func WriteMetrics(path string, run *Run) error {
	reg, err := Registry(run)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
