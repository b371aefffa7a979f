package recipe

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/specialistvlad/coyote/internal/ctxlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const demoJSON = `{
  "project_name": "demo",
  "variables": {
    "zeta": "z",
    "cc": "gcc",
    "out": "{cc}-{zeta}"
  },
  "executables": [
    {
      "target": "build",
      "commands": [
        {"command": "{cc}", "arguments": ["-o", "{out}", "main.c"], "run_if": ["modified", "main.c"]},
        {"command": "strip", "arguments": []}
      ]
    },
    {
      "target": "empty",
      "commands": []
    }
  ]
}`

const demoYAML = `
project_name: demo
variables:
  zeta: z
  cc: gcc
  out: "{cc}-{zeta}"
executables:
  - target: build
    commands:
      - command: "{cc}"
        arguments: ["-o", "{out}", main.c]
        run_if: [modified, main.c]
      - command: strip
        arguments: []
  - target: empty
    commands: []
`

const demoHCL = `
project_name = "demo"

variables {
  zeta = "z"
  cc   = "gcc"
  out  = "{cc}-{zeta}"
}

target "build" {
  command "{cc}" {
    arguments = ["-o", "{out}", "main.c"]
    run_if    = ["modified", "main.c"]
  }

  command "strip" {}
}

target "empty" {}
`

func demoRecipe() *Recipe {
	return &Recipe{
		ProjectName: "demo",
		Variables: Variables{
			{Name: "zeta", Value: "z"},
			{Name: "cc", Value: "gcc"},
			{Name: "out", Value: "{cc}-{zeta}"},
		},
		Targets: []*Target{
			{Name: "build", Commands: []*Command{
				{Program: "{cc}", Arguments: []string{"-o", "{out}", "main.c"}, Condition: []string{"modified", "main.c"}},
				{Program: "strip", Arguments: []string{}},
			}},
			{Name: "empty", Commands: []*Command{}},
		},
	}
}

var ignoreSource = cmpopts.IgnoreFields(Recipe{}, "Source")

func writeRecipe(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_AllFormatsAgree(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	testCases := []struct {
		file    string
		content string
	}{
		{file: "coyote.json", content: demoJSON},
		{file: "coyote.yaml", content: demoYAML},
		{file: "coyote.yml", content: demoYAML},
		{file: "coyote.hcl", content: demoHCL},
	}

	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			path := writeRecipe(t, tc.file, tc.content)

			r, err := Load(ctx, path)
			require.NoError(t, err)
			assert.Equal(t, path, r.Source)
			if diff := cmp.Diff(demoRecipe(), r, ignoreSource); diff != "" {
				t.Errorf("recipe mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_VariableOrderIsDeclarationOrder(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	path := writeRecipe(t, "coyote.json", `{
		"project_name": "p",
		"variables": {"b": "1", "a": "2", "c": "3", "aa": "4"},
		"executables": []
	}`)

	r, err := Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c", "aa"}, r.Variables.Names())
}

func TestLoad_RunIfAbsentVersusEmpty(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	testCases := []struct {
		file    string
		content string
	}{
		{file: "coyote.json", content: `{"project_name":"p","variables":{},"executables":[{"target":"t","commands":[
			{"command":"a","arguments":[]},
			{"command":"b","arguments":[],"run_if":[]},
			{"command":"c","arguments":[],"run_if":null}
		]}]}`},
		{file: "coyote.hcl", content: `
project_name = "p"
target "t" {
  command "a" {}
  command "b" {
    run_if = []
  }
}
`},
	}

	for _, tc := range testCases {
		t.Run(tc.file, func(t *testing.T) {
			r, err := Load(ctx, writeRecipe(t, tc.file, tc.content))
			require.NoError(t, err)
			cmds := r.Targets[0].Commands

			assert.False(t, cmds[0].HasCondition())
			assert.True(t, cmds[1].HasCondition())
			assert.Empty(t, cmds[1].Condition)
			if len(cmds) > 2 {
				assert.False(t, cmds[2].HasCondition(), "null run_if is treated as absent")
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	testCases := []struct {
		name    string
		file    string
		content string
		errPart string
	}{
		{
			name:    "json syntax",
			file:    "coyote.json",
			content: `{"project_name": "p",`,
		},
		{
			name:    "json missing project name",
			file:    "coyote.json",
			content: `{"variables": {}, "executables": []}`,
			errPart: "project_name",
		},
		{
			name:    "json non string variable",
			file:    "coyote.json",
			content: `{"project_name": "p", "variables": {"n": 5}, "executables": []}`,
			errPart: "variables",
		},
		{
			name:    "json missing arguments",
			file:    "coyote.json",
			content: `{"project_name": "p", "variables": {}, "executables": [{"target": "t", "commands": [{"command": "x"}]}]}`,
			errPart: "arguments",
		},
		{
			name:    "json duplicate variable",
			file:    "coyote.json",
			content: `{"project_name": "p", "variables": {"a": "1", "a": "1"}, "executables": []}`,
			errPart: "declared more than once",
		},
		{
			name:    "yaml wrong type",
			file:    "coyote.yaml",
			content: "project_name: p\nvariables: {}\nexecutables: nope\n",
			errPart: "executables",
		},
		{
			name:    "hcl syntax",
			file:    "coyote.hcl",
			content: "target \"t\" {\n",
		},
		{
			name:    "hcl missing project name",
			file:    "coyote.hcl",
			content: "target \"t\" {}\n",
			errPart: "project_name",
		},
		{
			name:    "hcl list variable",
			file:    "coyote.hcl",
			content: "project_name = \"p\"\nvariables {\n  v = [\"a\"]\n}\n",
			errPart: "must be a string",
		},
		{
			name:    "hcl arguments not a list",
			file:    "coyote.hcl",
			content: "project_name = \"p\"\ntarget \"t\" {\n  command \"x\" {\n    arguments = { a = 1 }\n  }\n}\n",
			errPart: "Invalid arguments",
		},
		{
			name:    "hcl interpolation without context",
			file:    "coyote.hcl",
			content: "project_name = \"p\"\nvariables {\n  v = \"${other}\"\n}\n",
		},
		{
			name:    "unsupported extension",
			file:    "coyote.toml",
			content: "project_name = 'p'",
			errPart: "unsupported recipe format",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRecipe(t, tc.file, tc.content)

			r, err := Load(ctx, path)
			require.Error(t, err)
			assert.Nil(t, r)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr), "expected *ParseError, got %T", err)
			assert.Equal(t, path, parseErr.Path)
			if tc.errPart != "" {
				assert.Contains(t, err.Error(), tc.errPart)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	_, err := Load(ctx, filepath.Join(t.TempDir(), "coyote.json"))

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_UnknownFieldsIgnored(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	path := writeRecipe(t, "coyote.json", `{
		"project_name": "p", "version": 2, "variables": {},
		"executables": [{"target": "t", "note": "x", "commands": [{"command": "c", "arguments": [], "shell": true}]}]
	}`)

	r, err := Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "c", r.Targets[0].Commands[0].Program)
}

func TestFind(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"coyote.hcl", "coyote.yaml", "coyote-release.yml", "coyote-dev.json", "coyote-dev.hcl"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "coyote-dir.json"), 0o755))

	testCases := []struct {
		name     string
		recipe   string
		expected string
	}{
		{name: "default prefers hcl over yaml", recipe: "", expected: "coyote.hcl"},
		{name: "named yml", recipe: "release", expected: "coyote-release.yml"},
		{name: "named prefers json", recipe: "dev", expected: "coyote-dev.json"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path, err := Find(dir, tc.recipe)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, tc.expected), path)
		})
	}

	t.Run("directory is not a recipe", func(t *testing.T) {
		_, err := Find(dir, "dir")
		var nf *NotFoundError
		require.True(t, errors.As(err, &nf))
	})
}

func TestFind_NotFoundMessages(t *testing.T) {
	dir := t.TempDir()

	_, err := Find(dir, "")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Contains(t, err.Error(), "coyote.json")

	_, err = Find(dir, "nightly")
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nightly", nf.Name)
	assert.Contains(t, err.Error(), "'nightly'")
	assert.Contains(t, err.Error(), "'coyote-'")
}

func TestEncodeHCL_RoundTrip(t *testing.T) {
	ctx := ctxlog.Discard(context.Background())
	original := demoRecipe()
	original.Targets[0].Commands = append(original.Targets[0].Commands, &Command{
		Program:   "sh",
		Arguments: []string{"-c", "echo ${HOME} %{x} \"quoted\"\nnext"},
		Condition: []string{},
	})

	out, err := EncodeHCL(original)
	require.NoError(t, err)

	loaded, err := Load(ctx, writeRecipe(t, "coyote.hcl", string(out)))
	require.NoError(t, err, "emitted HCL:\n%s", out)
	if diff := cmp.Diff(original, loaded, ignoreSource); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s\nemitted:\n%s", diff, out)
	}
}

func TestEncodeHCL_InvalidVariableName(t *testing.T) {
	r := &Recipe{ProjectName: "p", Variables: Variables{{Name: "not valid", Value: "x"}}}

	_, err := EncodeHCL(r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not valid")
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "gcc -c main.c", (&Command{Program: "gcc", Arguments: []string{"-c", "main.c"}}).String())
	assert.Equal(t, "make", (&Command{Program: "make"}).String())
}

func TestCommandCount(t *testing.T) {
	assert.Equal(t, 2, demoRecipe().CommandCount())
}
