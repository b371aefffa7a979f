package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/coyote/internal/executor"
	"github.com/specialistvlad/coyote/internal/lock"
	"github.com/specialistvlad/coyote/internal/recipe"
	"github.com/specialistvlad/coyote/internal/template"
)

// Run executes the build described by the configured recipe. Any returned
// error is fatal. The lock file is rewritten only when every target was
// walked without a fatal error.
func (a *App) Run(ctx context.Context) (*executor.Report, error) {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.", "dir", a.config.Dir, "recipe", a.config.Recipe)

	r, err := a.loadRecipe(ctx)
	if err != nil {
		return nil, err
	}

	lockPath := a.path(a.config.LockPath)
	store, err := lock.Load(lockPath)
	if err != nil {
		return nil, &StageError{Stage: StageLock, Err: err}
	}
	a.logger.Debug("Lock file loaded.", "path", lockPath, "entries", store.Len())

	engine := template.NewEngine(a.runner)
	table, err := engine.Resolve(ctx, r.Variables)
	if err != nil {
		return nil, &StageError{Stage: StagePreprocessor, Err: err}
	}
	resolved, err := template.Preprocess(r, table)
	if err != nil {
		return nil, &StageError{Stage: StagePreprocessor, Err: err}
	}
	a.logger.Debug("Recipe preprocessed.", "variables", len(table), "commands", resolved.CommandCount())

	exec := executor.New(a.runner, a.evaluator(), executor.Reporters{a.console, a.metrics})
	report, runErr := exec.Run(ctx, resolved, store, a.config.Rebuild)

	if a.config.MetricsFile != "" {
		if err := a.metrics.WriteFile(a.path(a.config.MetricsFile)); err != nil {
			a.logger.Warn("Metrics not written.", "error", err)
		}
	}
	if runErr != nil {
		return report, runErr
	}

	if err := store.Save(lockPath); err != nil {
		return report, &StageError{Stage: StageLock, Err: err}
	}
	a.logger.Debug("Lock file saved.", "path", lockPath, "entries", store.Len())

	a.logger.Debug("App.Run method finished.")
	return report, nil
}

// EmitHCL writes the configured recipe, unresolved, to the console output in
// HCL form.
func (a *App) EmitHCL(ctx context.Context) error {
	ctx = a.context(ctx)

	r, err := a.loadRecipe(ctx)
	if err != nil {
		return err
	}
	out, err := recipe.EncodeHCL(r)
	if err != nil {
		return &StageError{Stage: StageRecipe, Err: err}
	}
	if _, err := a.console.Out.Write(out); err != nil {
		return fmt.Errorf("failed to write recipe: %w", err)
	}
	return nil
}

func (a *App) loadRecipe(ctx context.Context) (*recipe.Recipe, error) {
	path, err := recipe.Find(a.config.Dir, a.config.Recipe)
	if err != nil {
		return nil, &StageError{Stage: StageRecipe, Err: err}
	}
	r, err := recipe.Load(ctx, path)
	if err != nil {
		return nil, &StageError{Stage: StageRecipe, Err: err}
	}
	a.logger.Info("Recipe loaded.", "path", path, "project", r.ProjectName, "targets", len(r.Targets))
	return r, nil
}
