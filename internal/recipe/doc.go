// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package recipe provides the Go representation of a coyote recipe: the
// project name, the ordered variable declarations and the ordered list of
// targets with their commands.
//
// # Formats
//
// A recipe can be written in three formats that all load into the same
// Recipe value:
//
//   - JSON (coyote.json), the canonical format.
//   - YAML (coyote.yaml / coyote.yml), the same document shape as JSON.
//   - HCL (coyote.hcl), with `variables` and `target`/`command` blocks.
//
// JSON and YAML documents are validated against a CUE schema before they are
// decoded, so shape errors are reported with the path of the offending field.
// HCL documents are validated by their block schema.
//
// # Ordering
//
// Variable declaration order is significant: a variable may only reference
// variables declared before it. Every loader therefore preserves source order
// (token order for JSON, node order for YAML, byte offsets for HCL) instead of
// going through a Go map.
//
// # Conditions
//
// Command.Condition distinguishes a missing run_if (nil) from an empty one
// (non-nil, zero length). The latter is a malformed condition, which is only
// reported when the command is reached during execution.
package recipe
