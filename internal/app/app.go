package app

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/specialistvlad/coyote/internal/condition"
	"github.com/specialistvlad/coyote/internal/console"
	"github.com/specialistvlad/coyote/internal/ctxlog"
	"github.com/specialistvlad/coyote/internal/metrics"
	"github.com/specialistvlad/coyote/internal/process"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	config   *Config
	logger   *slog.Logger
	closeLog func() error
	runner   process.Runner
	console  *console.Reporter
	metrics  *metrics.Recorder
}

// Option customises an App at construction.
type Option func(*App)

// WithRunner replaces the process runner used for command substitution and
// target commands.
func WithRunner(r process.Runner) Option {
	return func(a *App) {
		a.runner = r
	}
}

// NewApp is the constructor for the main application. Progress goes to outW;
// logs and diagnostics go to errW.
func NewApp(outW, errW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	sinks, closeLog, err := logSinks(cfg, errW)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, errW, sinks...)
	logger.Debug("Logger configured successfully.", "sinks", len(sinks)+1)

	reporter := console.New(outW, errW, !cfg.NoColor)
	reporter.Recipe = cfg.Recipe

	a := &App{
		config:   cfg,
		logger:   logger,
		closeLog: closeLog,
		runner:   process.NewExecRunner(cfg.Dir),
		console:  reporter,
		metrics:  metrics.NewRecorder(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Close releases the log sinks.
func (a *App) Close() error {
	return a.closeLog()
}

// Console returns the reporter used for progress and diagnostics.
func (a *App) Console() *console.Reporter {
	return a.console
}

// Metrics returns the run metrics recorder.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// path resolves p against the configured working directory.
func (a *App) path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(a.config.Dir, p)
}

// evaluator stats condition paths relative to the working directory while the
// lock store keeps them as written in the recipe.
func (a *App) evaluator() *condition.Evaluator {
	return &condition.Evaluator{
		Stat: func(name string) (fs.FileInfo, error) {
			return os.Stat(a.path(name))
		},
	}
}
