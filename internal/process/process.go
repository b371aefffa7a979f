package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/specialistvlad/coyote/internal/ctxlog"
)

// Runner runs a single program to completion.
type Runner interface {
	Run(ctx context.Context, program string, args []string) (*Result, error)
}

// Result is the captured outcome of a program that was started successfully.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the program exited with status zero.
func (r *Result) Success() bool {
	return r.ExitCode == 0
}

// SpawnError is returned when a program could not be started.
type SpawnError struct {
	Program string
	Args    []string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to execute command '%s': %v", CommandLine(e.Program, e.Args), e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// CommandLine renders a program and its arguments as a single display string.
func CommandLine(program string, args []string) string {
	if len(args) == 0 {
		return program
	}
	return program + " " + strings.Join(args, " ")
}

// ExecRunner runs programs as child processes via os/exec. The child inherits
// the environment of the current process.
type ExecRunner struct {
	// Dir is the working directory of started programs. Empty means the
	// current directory.
	Dir string
}

// NewExecRunner creates an ExecRunner rooted at dir.
func NewExecRunner(dir string) *ExecRunner {
	return &ExecRunner{Dir: dir}
}

// Run starts program, waits for it and captures both output streams.
func (r *ExecRunner) Run(ctx context.Context, program string, args []string) (*Result, error) {
	logger := ctxlog.FromContext(ctx)

	if err := ctx.Err(); err != nil {
		return nil, &SpawnError{Program: program, Args: args, Err: err}
	}

	cmd := exec.CommandContext(ctx, program, args...)
	cmd.Dir = r.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug("Starting process.", "program", program, "args", args, "dir", r.Dir)
	err := cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
	case errors.As(err, &exitErr):
		logger.Debug("Process exited with non-zero status.", "program", program, "exit_code", exitErr.ExitCode())
		return &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes(), ExitCode: exitErr.ExitCode()}, nil
	default:
		return nil, &SpawnError{Program: program, Args: args, Err: err}
	}

	logger.Debug("Process finished.", "program", program, "stdout_bytes", stdout.Len(), "stderr_bytes", stderr.Len())
	return &Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
}
