// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the build lifecycle (recipe loading,
// preprocessing, execution and lock persistence), decoupled from any
// specific entrypoint like a CLI.
package app
