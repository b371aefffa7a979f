package recipe

import (
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// schemaSource describes the JSON/YAML document shape. Fields marked with !
// are required. Unknown fields are allowed and ignored.
const schemaSource = `
#Recipe: {
	project_name!: string
	variables!: {[string]: string}
	executables!: [...#Executable]
	...
}

#Executable: {
	target!: string
	commands!: [...#Command]
	...
}

#Command: {
	command!: string
	arguments!: [...string]
	run_if?: null | [...string]
	...
}
`

// schemaValidator holds a compiled schema. cue.Values are tied to the
// context that built them, so documents are compiled on the same context
// under a mutex.
type schemaValidator struct {
	mu     sync.Mutex
	ctx    *cue.Context
	schema cue.Value
}

var validator = sync.OnceValues(func() (*schemaValidator, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(schemaSource, cue.Filename("recipe.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("invalid recipe schema: %w", err)
	}
	return &schemaValidator{ctx: ctx, schema: root.LookupPath(cue.ParsePath("#Recipe"))}, nil
})

// validateJSON checks a JSON document against the recipe schema. JSON is
// valid CUE, so the document is compiled directly.
func validateJSON(path string, data []byte) error {
	v, err := validator()
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	doc := v.ctx.CompileBytes(data, cue.Filename(path))
	return v.check(doc)
}

// validateYAML checks a YAML document against the recipe schema.
func validateYAML(path string, data []byte) error {
	file, err := cueyaml.Extract(path, data)
	if err != nil {
		return err
	}
	v, err := validator()
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.check(v.ctx.BuildFile(file))
}

func (v *schemaValidator) check(doc cue.Value) error {
	if err := doc.Err(); err != nil {
		return err
	}
	return v.schema.Unify(doc).Validate(cue.Concrete(true))
}
