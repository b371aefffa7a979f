package template

import (
	"context"
	"errors"
	"strings"

	"github.com/google/shlex"
	"github.com/specialistvlad/coyote/internal/ctxlog"
	"github.com/specialistvlad/coyote/internal/process"
)

// Table maps variable names to fully resolved values.
type Table map[string]string

// scanState is the scanner position relative to a reference.
type scanState int

const (
	stateNormal scanState = iota
	stateInVariableRef
	stateInCommandRef
)

func (s scanState) String() string {
	switch s {
	case stateNormal:
		return "normal"
	case stateInVariableRef:
		return "variable"
	case stateInCommandRef:
		return "command"
	default:
		return "unknown"
	}
}

const (
	openVar    = '{'
	closeVar   = '}'
	commandTok = '`'
)

// Engine expands template strings. Runner is used for command substitution
// and may be nil when substitution is never enabled.
type Engine struct {
	Runner process.Runner
}

// NewEngine creates an Engine that runs substituted commands with runner.
func NewEngine(runner process.Runner) *Engine {
	return &Engine{Runner: runner}
}

// Expand substitutes variable references in input with command substitution
// disabled. It never starts a process.
func Expand(input string, vars Table) (string, error) {
	return (&Engine{}).Substitute(context.Background(), input, vars, false)
}

// Substitute expands every reference in input. With allowExec false a
// backtick is copied literally. A reference left open at the end of input is
// dropped.
func (e *Engine) Substitute(ctx context.Context, input string, vars Table, allowExec bool) (string, error) {
	var out, capture strings.Builder
	state := stateNormal

	for _, c := range input {
		switch state {
		case stateNormal:
			switch {
			case c == openVar:
				state = stateInVariableRef
				capture.Reset()
			case c == commandTok && allowExec:
				state = stateInCommandRef
				capture.Reset()
			default:
				out.WriteRune(c)
			}

		case stateInVariableRef:
			switch c {
			case closeVar:
				name := capture.String()
				value, ok := vars[name]
				if !ok {
					return "", &UndefinedVariableError{Name: name}
				}
				out.WriteString(value)
				state = stateNormal
			case openVar:
				out.WriteRune(openVar)
				state = stateNormal
			default:
				capture.WriteRune(c)
			}

		case stateInCommandRef:
			if c != commandTok {
				capture.WriteRune(c)
				continue
			}
			stdout, err := e.runCommand(ctx, capture.String())
			if err != nil {
				return "", err
			}
			out.WriteString(stdout)
			state = stateNormal
		}
	}

	if state != stateNormal {
		ctxlog.FromContext(ctx).Debug("Dropping unterminated reference.", "state", state.String(), "text", capture.String())
	}
	return out.String(), nil
}

// runCommand splits a backtick body into argv and returns the untrimmed
// standard output of running it.
func (e *Engine) runCommand(ctx context.Context, body string) (string, error) {
	logger := ctxlog.FromContext(ctx)
	line := strings.TrimSpace(body)

	argv, err := shlex.Split(line)
	if err == nil && len(argv) == 0 {
		err = errors.New("empty command")
	}
	if err != nil {
		return "", &CommandSubstitutionError{Command: body, Err: err}
	}
	if e.Runner == nil {
		return "", &CommandSubstitutionError{Command: body, Err: errors.New("command substitution is not available")}
	}

	logger.Debug("Running command substitution.", "command", line)
	res, err := e.Runner.Run(ctx, argv[0], argv[1:])
	if err != nil {
		return "", err
	}
	if !res.Success() {
		return "", &CommandSubstitutionError{Command: line, ExitCode: res.ExitCode, Stderr: string(res.Stderr)}
	}
	return string(res.Stdout), nil
}
