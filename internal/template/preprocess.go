package template

import (
	"errors"

	"github.com/specialistvlad/coyote/internal/recipe"
)

// Preprocess returns a copy of r with every command program, argument and
// condition element expanded against table. Command substitution is disabled.
// The first undefined reference aborts with the raw field and target named.
func Preprocess(r *recipe.Recipe, table Table) (*recipe.Recipe, error) {
	out := &recipe.Recipe{
		ProjectName: r.ProjectName,
		Variables:   append(recipe.Variables(nil), r.Variables...),
		Targets:     make([]*recipe.Target, 0, len(r.Targets)),
		Source:      r.Source,
	}

	for _, t := range r.Targets {
		expand := func(field string) (string, error) {
			value, err := Expand(field, table)
			if err != nil {
				var undefined *UndefinedVariableError
				if errors.As(err, &undefined) {
					undefined.Target = t.Name
					undefined.Field = field
				}
				return "", err
			}
			return value, nil
		}

		target := &recipe.Target{Name: t.Name, Commands: make([]*recipe.Command, 0, len(t.Commands))}
		for _, c := range t.Commands {
			program, err := expand(c.Program)
			if err != nil {
				return nil, err
			}
			args, err := expandAll(c.Arguments, expand)
			if err != nil {
				return nil, err
			}
			var cond []string
			if c.HasCondition() {
				if cond, err = expandAll(c.Condition, expand); err != nil {
					return nil, err
				}
			}
			target.Commands = append(target.Commands, &recipe.Command{Program: program, Arguments: args, Condition: cond})
		}
		out.Targets = append(out.Targets, target)
	}
	return out, nil
}

// expandAll expands each element, keeping a non-nil result for non-nil input.
func expandAll(fields []string, expand func(string) (string, error)) ([]string, error) {
	if fields == nil {
		return nil, nil
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		v, err := expand(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
