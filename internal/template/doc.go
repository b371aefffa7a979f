// Package template expands variable references and command substitutions in
// recipe strings.
//
// Syntax:
//
//	{name}     replaced by the value of variable name
//	{{         a literal "{" (the rest of the would-be reference is copied as is)
//	`cmd args` replaced by the standard output of running cmd with args
//
// Command substitution is only honoured while variable declarations are being
// resolved (Resolve). Command fields are expanded afterwards (Preprocess) with
// command substitution disabled, where a backtick is an ordinary character.
// This keeps every subprocess started during preprocessing in one auditable
// pass, in declaration order.
//
// Scanning is an explicit state machine with three states (normal, inside a
// variable reference, inside a command reference) rather than a regular
// expression: the escape rule depends on the state the second "{" is seen in.
package template
