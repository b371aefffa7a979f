package template

import (
	"fmt"
	"strings"
)

// UndefinedVariableError reports a reference to a variable that is not in
// the table. Key is set when the reference came from a variable declaration;
// Target and Field are set when it came from a command field.
type UndefinedVariableError struct {
	Name   string
	Key    string
	Target string
	Field  string
}

func (e *UndefinedVariableError) Error() string {
	switch {
	case e.Key != "":
		return fmt.Sprintf("'%s' references '%s' which is not defined", e.Key, e.Name)
	case e.Field != "":
		return fmt.Sprintf("'%s' in target '%s' references '%s' which is not defined", e.Field, e.Target, e.Name)
	default:
		return fmt.Sprintf("reference to '%s' which is not defined", e.Name)
	}
}

// CommandSubstitutionError reports a backtick command that could not be
// parsed or exited with a non-zero status.
type CommandSubstitutionError struct {
	Key      string
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *CommandSubstitutionError) Error() string {
	var b strings.Builder
	if e.Key != "" {
		fmt.Fprintf(&b, "variable '%s': ", e.Key)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, "failed to parse command '%s': %v", e.Command, e.Err)
		return b.String()
	}
	fmt.Fprintf(&b, "failed to execute command '%s' (exit status %d)", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		fmt.Fprintf(&b, ":\n\n%s", stderr)
	}
	return b.String()
}

func (e *CommandSubstitutionError) Unwrap() error {
	return e.Err
}
