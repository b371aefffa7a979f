package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/specialistvlad/coyote/internal/process"
)

// Call is one invocation recorded by FakeRunner.
type Call struct {
	Program string
	Args    []string
}

// Line renders the call as a single command line.
func (c Call) Line() string {
	return process.CommandLine(c.Program, c.Args)
}

// Script is the scripted outcome of a command line. SpawnErr makes the call
// fail to start.
type Script struct {
	Stdout   string
	Stderr   string
	ExitCode int
	SpawnErr error
}

// FakeRunner is a process.Runner that records calls and answers from
// scripts keyed by command line. Unscripted commands succeed with no output.
type FakeRunner struct {
	mu      sync.Mutex
	scripts map[string]Script
	calls   []Call
}

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{scripts: make(map[string]Script)}
}

// On scripts the outcome of the given command line (program and args joined
// by single spaces).
func (f *FakeRunner) On(line string, s Script) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts[line] = s
	return f
}

// Run implements process.Runner.
func (f *FakeRunner) Run(ctx context.Context, program string, args []string) (*process.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := Call{Program: program, Args: append([]string(nil), args...)}
	f.calls = append(f.calls, call)

	s := f.scripts[call.Line()]
	if s.SpawnErr != nil {
		return nil, &process.SpawnError{Program: program, Args: args, Err: s.SpawnErr}
	}
	return &process.Result{Stdout: []byte(s.Stdout), Stderr: []byte(s.Stderr), ExitCode: s.ExitCode}, nil
}

// Calls returns a copy of the recorded calls.
func (f *FakeRunner) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Lines returns the recorded calls as command lines.
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Line()
	}
	return out
}

// Ran reports whether a call with the given command line was recorded.
func (f *FakeRunner) Ran(line string) bool {
	for _, l := range f.Lines() {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}
