// Package metrics records run statistics in a private Prometheus registry
// and writes them in the text exposition format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/coyote/internal/executor"
	"github.com/specialistvlad/coyote/internal/recipe"
)

// Recorder collects per-command and per-run metrics. It implements
// executor.Reporter.
type Recorder struct {
	registry        *prometheus.Registry
	commands        *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec
	runDuration     prometheus.Gauge
	runFatal        prometheus.Gauge
}

var _ executor.Reporter = (*Recorder)(nil)

// NewRecorder creates a Recorder with its collectors registered.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()

	commands := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coyote_commands_total",
			Help: "Commands handled by the executor, by target and status",
		},
		[]string{"target", "status"},
	)
	commandDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coyote_command_duration_seconds",
			Help:    "Wall time of commands that were run",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"target"},
	)
	runDuration := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "coyote_run_duration_seconds",
		Help: "Wall time of the last run",
	})
	runFatal := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "coyote_run_fatal",
		Help: "1 if the last run stopped on a fatal error",
	})

	registry.MustRegister(commands, commandDuration, runDuration, runFatal)

	return &Recorder{
		registry:        registry,
		commands:        commands,
		commandDuration: commandDuration,
		runDuration:     runDuration,
		runFatal:        runFatal,
	}
}

// Registry exposes the underlying registry for gathering.
func (m *Recorder) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Recorder) RunStarted(*recipe.Recipe) {}

func (m *Recorder) TargetStarted(int, int, *recipe.Target) {}

func (m *Recorder) CommandFinished(_, _ int, res executor.Result) {
	m.commands.WithLabelValues(res.Target, res.Status.String()).Inc()
	if res.Status != executor.StatusSkipped {
		m.commandDuration.WithLabelValues(res.Target).Observe(res.Duration.Seconds())
	}
}

func (m *Recorder) RunFinished(rep *executor.Report, err error) {
	m.runDuration.Set(rep.Duration().Seconds())
	if err != nil {
		m.runFatal.Set(1)
	} else {
		m.runFatal.Set(0)
	}
}

// WriteFile writes the gathered metrics to path in the text format.
func (m *Recorder) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to '%s': %w", path, err)
	}
	return nil
}
