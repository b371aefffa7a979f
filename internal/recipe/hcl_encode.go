package recipe

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// EncodeHCL renders r in the HCL recipe format. Loading the output yields a
// recipe equal to r. Variable names must be valid HCL identifiers.
func EncodeHCL(r *Recipe) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	root.SetAttributeValue("project_name", cty.StringVal(r.ProjectName))

	if len(r.Variables) > 0 {
		root.AppendNewline()
		vars := root.AppendNewBlock("variables", nil).Body()
		for _, v := range r.Variables {
			if !hclsyntax.ValidIdentifier(v.Name) {
				return nil, fmt.Errorf("variable '%s' cannot be written as HCL: not a valid identifier", v.Name)
			}
			vars.SetAttributeValue(v.Name, cty.StringVal(v.Value))
		}
	}

	for _, t := range r.Targets {
		root.AppendNewline()
		target := root.AppendNewBlock("target", []string{t.Name}).Body()
		for i, c := range t.Commands {
			if i > 0 {
				target.AppendNewline()
			}
			cmd := target.AppendNewBlock("command", []string{c.Program}).Body()
			cmd.SetAttributeValue("arguments", stringList(c.Arguments))
			if c.HasCondition() {
				cmd.SetAttributeValue("run_if", stringList(c.Condition))
			}
		}
	}

	return hclwrite.Format(f.Bytes()), nil
}

func stringList(items []string) cty.Value {
	if len(items) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(items))
	for i, s := range items {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}
