package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/specialistvlad/coyote/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want app.Config
	}{
		{
			name: "defaults",
			args: nil,
			want: app.Config{Dir: ".", LockPath: "coyote.LOCK", LogLevel: "warn", LogFormat: "text"},
		},
		{
			name: "named recipe with rebuild shorthand",
			args: []string{"-r", "release"},
			want: app.Config{Dir: ".", Recipe: "release", LockPath: "coyote.LOCK", Rebuild: true, LogLevel: "warn", LogFormat: "text"},
		},
		{
			name: "every option",
			args: []string{
				"-rebuild", "-C", "/src", "-lock", "build.lock",
				"-log-level", "DEBUG", "-log-format", "json", "-log-file", "coyote.log", "-log-journal",
				"-metrics-file", "coyote.prom", "-emit-hcl", "-no-color", "nightly",
			},
			want: app.Config{
				Dir: "/src", Recipe: "nightly", LockPath: "build.lock", Rebuild: true,
				LogLevel: "debug", LogFormat: "json", LogFile: "coyote.log", LogJournal: true,
				MetricsFile: "coyote.prom", EmitHCL: true, NoColor: true,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, shouldExit, err := Parse(tc.args, &out)
			require.NoError(t, err)
			assert.False(t, shouldExit)
			assert.Equal(t, tc.want, *cfg)
		})
	}
}

func TestParse_CleanExits(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "help", args: []string{"-h"}, want: "Usage:"},
		{name: "long help", args: []string{"-help"}, want: "coyote [options] [RECIPE]"},
		{name: "version", args: []string{"-version"}, want: "coyote " + Version},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, shouldExit, err := Parse(tc.args, &out)
			require.NoError(t, err)
			assert.True(t, shouldExit)
			assert.Nil(t, cfg)
			assert.Contains(t, out.String(), tc.want)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown flag", args: []string{"-jobs", "4"}, want: "flag provided but not defined: -jobs"},
		{name: "bad level", args: []string{"-log-level", "trace"}, want: "invalid log-level"},
		{name: "bad format", args: []string{"-log-format", "xml"}, want: "invalid log-format"},
		{name: "two recipes", args: []string{"a", "b"}, want: "expected at most one recipe name, got 2"},
		{name: "recipe path", args: []string{"dir/name"}, want: "must not contain a path separator"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			cfg, shouldExit, err := Parse(tc.args, &out)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.False(t, shouldExit)

			var exitErr *ExitError
			require.True(t, errors.As(err, &exitErr))
			assert.Equal(t, 2, exitErr.Code)
			assert.Contains(t, exitErr.Message, tc.want)
		})
	}
}
