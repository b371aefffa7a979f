// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package recipe

import (
	"fmt"
	"strings"
)

// Recipe is the in-memory form of a recipe file.
type Recipe struct {
	ProjectName string
	Variables   Variables
	Targets     []*Target

	// Source is the file the recipe was loaded from, for error reporting.
	Source string
}

// Variable is a single raw declaration. Value may reference earlier variables.
type Variable struct {
	Name  string
	Value string
}

// Variables is the ordered list of declarations.
type Variables []Variable

// Names returns the variable names in declaration order.
func (v Variables) Names() []string {
	names := make([]string, len(v))
	for i, variable := range v {
		names[i] = variable.Name
	}
	return names
}

// Target is a named, ordered sequence of commands.
type Target struct {
	Name     string
	Commands []*Command
}

// Command is one program invocation within a target.
type Command struct {
	Program   string
	Arguments []string
	// Condition is the run_if clause. Nil when absent.
	Condition []string
}

// String renders the command line for display.
func (c *Command) String() string {
	return strings.TrimRight(c.Program+" "+strings.Join(c.Arguments, " "), " ")
}

// HasCondition reports whether the command declared a run_if clause.
func (c *Command) HasCondition() bool {
	return c.Condition != nil
}

// CommandCount returns the number of commands across all targets.
func (r *Recipe) CommandCount() int {
	n := 0
	for _, t := range r.Targets {
		n += len(t.Commands)
	}
	return n
}

// ParseError reports a recipe file that could not be read, validated or decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed '%s' detected: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NotFoundError reports that no recipe file matched the requested name.
type NotFoundError struct {
	// Name is the requested recipe, empty for the default recipe.
	Name       string
	Candidates []string
}

func (e *NotFoundError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("directory does not contain a default recipe (looked for %s)", strings.Join(e.Candidates, ", "))
	}
	return fmt.Sprintf("couldn't find file for recipe '%s' (note - recipe files must be prefixed with '%s' to be recognised)", e.Name, namedPrefix)
}

// normalize makes nil argument lists empty so that recipes loaded from
// different formats compare equal.
func (r *Recipe) normalize() {
	if r.Variables == nil {
		r.Variables = Variables{}
	}
	if r.Targets == nil {
		r.Targets = []*Target{}
	}
	for _, t := range r.Targets {
		if t.Commands == nil {
			t.Commands = []*Command{}
		}
		for _, c := range t.Commands {
			if c.Arguments == nil {
				c.Arguments = []string{}
			}
		}
	}
}

// checkUniqueVariables rejects repeated declarations.
func checkUniqueVariables(vars Variables) error {
	seen := make(map[string]struct{}, len(vars))
	for _, v := range vars {
		if _, dup := seen[v.Name]; dup {
			return fmt.Errorf("variable '%s' is declared more than once", v.Name)
		}
		seen[v.Name] = struct{}{}
	}
	return nil
}
