// Package condition evaluates a command's run_if clause against the lock
// store. A condition is a flat list of strings: the verb followed by its
// positional arguments. The only verb is "modified <path>".
package condition

import (
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/specialistvlad/coyote/internal/lock"
)

// VerbModified is met when a file's modification time differs from the one
// recorded in the lock store.
const VerbModified = "modified"

// MalformedConditionError reports an empty condition, an unknown verb, or a
// verb with the wrong number of arguments.
type MalformedConditionError struct {
	Target    string
	Condition []string
	Reason    string
}

func (e *MalformedConditionError) Error() string {
	return fmt.Sprintf("%s in target '%s' (run_if: [%s])", e.Reason, e.Target, strings.Join(e.Condition, ", "))
}

// FilesystemError reports a file whose metadata could not be read.
type FilesystemError struct {
	Target string
	Path   string
	Err    error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("cannot read or open metadata of file '%s' in target '%s': %v", e.Path, e.Target, e.Err)
}

func (e *FilesystemError) Unwrap() error {
	return e.Err
}

// Evaluator decides whether conditions are met.
type Evaluator struct {
	// Stat reads file metadata. Defaults to os.Stat.
	Stat func(name string) (fs.FileInfo, error)
}

// NewEvaluator creates an Evaluator backed by the real filesystem.
func NewEvaluator() *Evaluator {
	return &Evaluator{Stat: os.Stat}
}

// Evaluate reports whether cond is met for a command of target. It refreshes
// the store as a side effect.
func (e *Evaluator) Evaluate(cond []string, target string, store *lock.Store) (bool, error) {
	if len(cond) == 0 {
		return false, &MalformedConditionError{Target: target, Condition: cond, Reason: "no condition specifier for 'run_if'"}
	}

	switch cond[0] {
	case VerbModified:
		if len(cond) != 2 {
			return false, &MalformedConditionError{
				Target:    target,
				Condition: cond,
				Reason:    "condition 'modified' must have 1 argument: <path>",
			}
		}
		return e.modified(cond[1], target, store)
	default:
		return false, &MalformedConditionError{
			Target:    target,
			Condition: cond,
			Reason:    fmt.Sprintf("unknown condition type '%s'", cond[0]),
		}
	}
}

// modified compares the current timestamp of path with the stored one. The
// first observation of a path is always met. The stored value is overwritten
// on every call, met or not.
func (e *Evaluator) modified(path, target string, store *lock.Store) (bool, error) {
	current, err := e.modTime(path)
	if err != nil {
		return false, &FilesystemError{Target: target, Path: path, Err: err}
	}

	previous, seen := store.Get(path)
	store.Set(path, current)
	if !seen {
		return true, nil
	}
	return previous != current, nil
}

func (e *Evaluator) modTime(path string) (uint64, error) {
	stat := e.Stat
	if stat == nil {
		stat = os.Stat
	}
	info, err := stat(path)
	if err != nil {
		return 0, err
	}
	secs := info.ModTime().Unix()
	if secs < 0 {
		return 0, nil
	}
	return uint64(secs), nil
}
