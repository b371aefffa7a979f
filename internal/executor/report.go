package executor

import (
	"time"

	"github.com/specialistvlad/coyote/internal/process"
)

// Status is the outcome of a single command.
type Status int

const (
	// StatusRan means the command ran and exited zero.
	StatusRan Status = iota
	// StatusSkipped means the run_if condition was not met.
	StatusSkipped
	// StatusFailed means the command ran and exited non-zero.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRan:
		return "ran"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result records what happened to one command.
type Result struct {
	Target    string
	Program   string
	Arguments []string
	Status    Status
	ExitCode  int
	Stderr    string
	Duration  time.Duration
}

// CommandLine renders the command of the result for display.
func (r Result) CommandLine() string {
	return process.CommandLine(r.Program, r.Arguments)
}

// Report is the outcome of a whole run.
type Report struct {
	Project  string
	Results  []Result
	Started  time.Time
	Finished time.Time
}

// Failures returns the results of commands that exited non-zero.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Count returns the number of results with the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Duration is the wall time between the start and the end of the run.
func (r *Report) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}
