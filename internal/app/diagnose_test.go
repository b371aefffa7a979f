package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/specialistvlad/coyote/internal/condition"
	"github.com/specialistvlad/coyote/internal/lock"
	"github.com/specialistvlad/coyote/internal/process"
	"github.com/specialistvlad/coyote/internal/recipe"
	"github.com/specialistvlad/coyote/internal/template"
	"github.com/stretchr/testify/assert"
)

func TestDiagnose(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		tag  string
	}{
		{name: "nil", err: nil, tag: ""},
		{name: "recipe parse", err: &recipe.ParseError{Path: "coyote.json", Err: errors.New("bad")}, tag: StageRecipe},
		{name: "recipe missing", err: &recipe.NotFoundError{Name: "x"}, tag: StageRecipe},
		{name: "lock parse", err: &lock.ParseError{Path: "coyote.LOCK", Err: errors.New("bad")}, tag: StageLock},
		{name: "undefined", err: &template.UndefinedVariableError{Name: "a", Key: "b"}, tag: StagePreprocessor},
		{name: "substitution", err: &template.CommandSubstitutionError{Command: "x", ExitCode: 1}, tag: StagePreprocessor},
		{name: "malformed condition", err: &condition.MalformedConditionError{Target: "t", Reason: "unknown condition type 'x'"}, tag: StageRunIf},
		{name: "filesystem", err: &condition.FilesystemError{Target: "t", Path: "p", Err: errors.New("gone")}, tag: StageRunIf},
		{name: "spawn", err: &process.SpawnError{Program: "cc", Err: errors.New("not found")}, tag: StageSpawn},
		{name: "wrapped spawn", err: fmt.Errorf("target 'x': %w", &process.SpawnError{Program: "cc", Err: errors.New("nf")}), tag: StageSpawn},
		{
			name: "stage wins over type",
			err:  &StageError{Stage: StagePreprocessor, Err: &process.SpawnError{Program: "git", Err: errors.New("nf")}},
			tag:  StagePreprocessor,
		},
		{name: "unknown", err: errors.New("something else"), tag: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tag, msg := Diagnose(tc.err)
			assert.Equal(t, tc.tag, tag)
			if tc.err != nil {
				assert.Equal(t, tc.err.Error(), msg)
			}
		})
	}
}
