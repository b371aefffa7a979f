package app

import (
	"errors"

	"github.com/specialistvlad/coyote/internal/condition"
	"github.com/specialistvlad/coyote/internal/lock"
	"github.com/specialistvlad/coyote/internal/process"
	"github.com/specialistvlad/coyote/internal/recipe"
	"github.com/specialistvlad/coyote/internal/template"
)

// Subsystem tags used in fatal diagnostics.
const (
	StageRecipe       = "recipe"
	StagePreprocessor = "preprocessor"
	StageRunIf        = "run_if"
	StageLock         = "lock"
	StageSpawn        = "spawn"
)

// StageError attributes a fatal error to the stage of the run that raised it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return e.Err.Error()
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Diagnose maps a fatal error to its subsystem tag and a one-line message.
// The tag is empty for errors of unknown origin.
func Diagnose(err error) (tag, message string) {
	if err == nil {
		return "", ""
	}
	message = err.Error()

	var stage *StageError
	if errors.As(err, &stage) {
		return stage.Stage, message
	}

	var (
		parseErr     *recipe.ParseError
		notFound     *recipe.NotFoundError
		lockErr      *lock.ParseError
		undefined    *template.UndefinedVariableError
		substitution *template.CommandSubstitutionError
		malformed    *condition.MalformedConditionError
		fsErr        *condition.FilesystemError
		spawn        *process.SpawnError
	)
	switch {
	case errors.As(err, &parseErr), errors.As(err, &notFound):
		return StageRecipe, message
	case errors.As(err, &lockErr):
		return StageLock, message
	case errors.As(err, &undefined), errors.As(err, &substitution):
		return StagePreprocessor, message
	case errors.As(err, &malformed), errors.As(err, &fsErr):
		return StageRunIf, message
	case errors.As(err, &spawn):
		return StageSpawn, message
	default:
		return "", message
	}
}
