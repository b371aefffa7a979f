package template

import (
	"context"
	"errors"

	"github.com/specialistvlad/coyote/internal/ctxlog"
	"github.com/specialistvlad/coyote/internal/recipe"
)

// Resolve builds the variable table from raw declarations in declaration
// order. Each value may only reference variables declared before it, so a
// self or forward reference is an *UndefinedVariableError naming the
// declaring key. Command substitution is enabled. On error no table is
// returned.
func (e *Engine) Resolve(ctx context.Context, vars recipe.Variables) (Table, error) {
	logger := ctxlog.FromContext(ctx)
	table := make(Table, len(vars))

	for _, v := range vars {
		value, err := e.Substitute(ctx, v.Value, table, true)
		if err != nil {
			var undefined *UndefinedVariableError
			if errors.As(err, &undefined) {
				undefined.Key = v.Name
			}
			var subst *CommandSubstitutionError
			if errors.As(err, &subst) {
				subst.Key = v.Name
			}
			return nil, err
		}
		table[v.Name] = value
		logger.Debug("Variable resolved.", "name", v.Name)
	}
	return table, nil
}
