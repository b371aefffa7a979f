package executor

import (
	"context"
	"time"

	"github.com/specialistvlad/coyote/internal/condition"
	"github.com/specialistvlad/coyote/internal/ctxlog"
	"github.com/specialistvlad/coyote/internal/lock"
	"github.com/specialistvlad/coyote/internal/process"
	"github.com/specialistvlad/coyote/internal/recipe"
)

// Executor runs the targets of a recipe sequentially.
type Executor struct {
	runner    process.Runner
	evaluator *condition.Evaluator
	reporter  Reporter
}

// New creates an Executor. A nil evaluator stats the real filesystem and a
// nil reporter discards progress events.
func New(runner process.Runner, evaluator *condition.Evaluator, reporter Reporter) *Executor {
	if evaluator == nil {
		evaluator = condition.NewEvaluator()
	}
	if reporter == nil {
		reporter = Reporters(nil)
	}
	return &Executor{runner: runner, evaluator: evaluator, reporter: reporter}
}

// Run executes every command of r in order. store is updated in place by
// condition checks. With overrideAll set every command runs and conditions
// are not consulted.
//
// A returned error is fatal; the report holds the results gathered before it.
func (e *Executor) Run(ctx context.Context, r *recipe.Recipe, store *lock.Store, overrideAll bool) (*Report, error) {
	logger := ctxlog.FromContext(ctx).With("project", r.ProjectName)
	report := &Report{
		Project: r.ProjectName,
		Results: make([]Result, 0, r.CommandCount()),
		Started: time.Now(),
	}

	logger.Info("▶️ Starting build", "targets", len(r.Targets), "override", overrideAll)
	e.reporter.RunStarted(r)

	err := e.runTargets(ctx, r, store, overrideAll, report)
	report.Finished = time.Now()
	e.reporter.RunFinished(report, err)
	if err != nil {
		logger.Error("Build aborted.", "error", err)
		return report, err
	}

	logger.Info("✅ Finished build",
		"ran", report.Count(StatusRan),
		"skipped", report.Count(StatusSkipped),
		"failed", report.Count(StatusFailed),
		"duration", report.Duration())
	return report, nil
}

func (e *Executor) runTargets(ctx context.Context, r *recipe.Recipe, store *lock.Store, overrideAll bool, report *Report) error {
	for i, t := range r.Targets {
		e.reporter.TargetStarted(i+1, len(r.Targets), t)
		for j, cmd := range t.Commands {
			res, err := e.runCommand(ctx, t.Name, cmd, store, overrideAll)
			if err != nil {
				return err
			}
			report.Results = append(report.Results, res)
			e.reporter.CommandFinished(j+1, len(t.Commands), res)
		}
	}
	return nil
}

// runCommand runs one command. Only condition and spawn failures are
// returned as errors.
func (e *Executor) runCommand(ctx context.Context, target string, cmd *recipe.Command, store *lock.Store, overrideAll bool) (Result, error) {
	logger := ctxlog.FromContext(ctx).With("target", target, "command", cmd.String())
	res := Result{
		Target:    target,
		Program:   cmd.Program,
		Arguments: cmd.Arguments,
	}

	if cmd.HasCondition() && !overrideAll {
		met, err := e.evaluator.Evaluate(cmd.Condition, target, store)
		if err != nil {
			return res, err
		}
		if !met {
			logger.Debug("Condition not met, skipping command.", "run_if", cmd.Condition)
			res.Status = StatusSkipped
			return res, nil
		}
	}

	logger.Debug("Running command.")
	started := time.Now()
	out, err := e.runner.Run(ctx, cmd.Program, cmd.Arguments)
	res.Duration = time.Since(started)
	if err != nil {
		return res, err
	}

	res.ExitCode = out.ExitCode
	if !out.Success() {
		res.Status = StatusFailed
		res.Stderr = string(out.Stderr)
		logger.Warn("Command failed.", "exit_code", out.ExitCode)
		return res, nil
	}
	res.Status = StatusRan
	return res, nil
}
