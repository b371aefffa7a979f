// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file decodes HCL recipes. The document mirrors the JSON shape with
// blocks instead of arrays of objects:
//
//	project_name = "demo"
//
//	variables {
//	  cc  = "gcc"
//	  out = "{cc}.out"
//	}
//
//	target "build" {
//	  command "{cc}" {
//	    arguments = ["-o", "{out}", "main.c"]
//	    run_if    = ["modified", "main.c"]
//	  }
//	}
//
// Attributes inside a block come back from HCL as a map, so the variable
// declaration order is recovered from the attributes' source offsets.
package recipe

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// hclRecipe is the top-level structure of an HCL recipe for decoding.
type hclRecipe struct {
	ProjectName string        `hcl:"project_name"`
	Variables   *hclVariables `hcl:"variables,block"`
	Targets     []*hclTarget  `hcl:"target,block"`
}

type hclVariables struct {
	Body hcl.Body `hcl:",remain"`
}

type hclTarget struct {
	Name     string        `hcl:"name,label"`
	Commands []*hclCommand `hcl:"command,block"`
}

type hclCommand struct {
	Program   string         `hcl:"program,label"`
	Arguments hcl.Expression `hcl:"arguments,optional"`
	RunIf     hcl.Expression `hcl:"run_if,optional"`
}

func decodeHCL(path string, data []byte) (*Recipe, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, diags
	}

	var root hclRecipe
	if diags := gohcl.DecodeBody(file.Body, nil, &root); diags.HasErrors() {
		return nil, diags
	}

	r := &Recipe{
		ProjectName: root.ProjectName,
		Targets:     make([]*Target, 0, len(root.Targets)),
		Source:      path,
	}

	if root.Variables != nil {
		vars, diags := decodeHCLVariables(root.Variables.Body)
		if diags.HasErrors() {
			return nil, diags
		}
		if err := checkUniqueVariables(vars); err != nil {
			return nil, err
		}
		r.Variables = vars
	}

	for _, ht := range root.Targets {
		t := &Target{Name: ht.Name, Commands: make([]*Command, 0, len(ht.Commands))}
		for _, hc := range ht.Commands {
			cmd := &Command{Program: hc.Program}
			if isExprDefined(hc.Arguments) {
				args, diags := decodeStringList(hc.Arguments, "arguments")
				if diags.HasErrors() {
					return nil, diags
				}
				cmd.Arguments = args
			}
			if isExprDefined(hc.RunIf) {
				cond, diags := decodeStringList(hc.RunIf, "run_if")
				if diags.HasErrors() {
					return nil, diags
				}
				cmd.Condition = cond
			}
			t.Commands = append(t.Commands, cmd)
		}
		r.Targets = append(r.Targets, t)
	}

	r.normalize()
	return r, nil
}

// decodeHCLVariables evaluates every attribute of the variables block as a
// string, in source order.
func decodeHCLVariables(body hcl.Body) (Variables, hcl.Diagnostics) {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	ordered := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		ordered = append(ordered, attr)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Range.Start.Byte < ordered[j].Range.Start.Byte
	})

	vars := make(Variables, 0, len(ordered))
	for _, attr := range ordered {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		str, err := convert.Convert(val, cty.String)
		if err != nil || str.IsNull() || !str.IsKnown() {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid variable value",
				Detail:   fmt.Sprintf("Variable %q must be a string.", attr.Name),
				Subject:  attr.Expr.Range().Ptr(),
			})
			continue
		}
		vars = append(vars, Variable{Name: attr.Name, Value: str.AsString()})
	}
	return vars, diags
}

// decodeStringList evaluates expr as a list of strings.
func decodeStringList(expr hcl.Expression, attrName string) ([]string, hcl.Diagnostics) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}

	invalid := func(detail string) hcl.Diagnostics {
		return append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  fmt.Sprintf("Invalid %s", attrName),
			Detail:   detail,
			Subject:  expr.Range().Ptr(),
		})
	}

	if val.IsNull() {
		return nil, invalid(fmt.Sprintf("The %q attribute must be a list of strings, not null.", attrName))
	}
	listVal, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, invalid(fmt.Sprintf("The %q attribute must be a list of strings: %s.", attrName, err))
	}

	var out []string
	if err := gocty.FromCtyValue(listVal, &out); err != nil {
		return nil, invalid(fmt.Sprintf("The %q attribute must be a list of strings: %s.", attrName, err))
	}
	if out == nil {
		out = []string{}
	}
	return out, diags
}

// isExprDefined checks if an optional HCL attribute was actually present in
// the source. gohcl fills omitted optional expressions with a zero-width
// placeholder, so a nil check is not enough: a real attribute occupies bytes
// in the file.
func isExprDefined(expr hcl.Expression) bool {
	if expr == nil {
		return false
	}
	rng := expr.Range()
	return rng.End.Byte > rng.Start.Byte
}
