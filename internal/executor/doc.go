// Package executor walks a preprocessed recipe and runs its commands.
//
// Targets run in declaration order and commands within a target run one at a
// time. A command with a run_if clause is consulted against the lock store
// first unless the run is an override run, in which case the clause is
// ignored and the store is left untouched for that command.
//
// A command that exits non-zero is recorded as a failed result and the walk
// continues. A command that cannot be started aborts the walk; the report
// collected so far is returned together with the error.
package executor
