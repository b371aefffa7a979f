// Package process is the run primitive every other package builds on: start
// one program with its arguments, block until it exits, and hand back its fully
// captured standard output, standard error, and exit code.
//
// A program that starts and exits non-zero is a normal Result. A program that
// cannot be started at all (missing binary, permission denied) is a
// *SpawnError, which callers treat as fatal.
package process
