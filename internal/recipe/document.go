package recipe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// document is the wire shape shared by the JSON and YAML formats.
type document struct {
	ProjectName string       `json:"project_name" yaml:"project_name"`
	Variables   Variables    `json:"variables" yaml:"variables"`
	Executables []executable `json:"executables" yaml:"executables"`
}

type executable struct {
	Target   string          `json:"target" yaml:"target"`
	Commands []documentEntry `json:"commands" yaml:"commands"`
}

type documentEntry struct {
	Command   string   `json:"command" yaml:"command"`
	Arguments []string `json:"arguments" yaml:"arguments"`
	RunIf     []string `json:"run_if" yaml:"run_if"`
}

func (d *document) toRecipe(path string) (*Recipe, error) {
	if err := checkUniqueVariables(d.Variables); err != nil {
		return nil, err
	}
	r := &Recipe{
		ProjectName: d.ProjectName,
		Variables:   d.Variables,
		Targets:     make([]*Target, 0, len(d.Executables)),
		Source:      path,
	}
	for _, exe := range d.Executables {
		t := &Target{Name: exe.Target, Commands: make([]*Command, 0, len(exe.Commands))}
		for _, entry := range exe.Commands {
			t.Commands = append(t.Commands, &Command{
				Program:   entry.Command,
				Arguments: entry.Arguments,
				Condition: entry.RunIf,
			})
		}
		r.Targets = append(r.Targets, t)
	}
	r.normalize()
	return r, nil
}

// UnmarshalJSON decodes a JSON object into declarations, keeping key order.
func (v *Variables) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("variables must be an object of strings")
	}

	out := Variables{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in variables", tok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("variable '%s': %w", name, err)
		}
		out = append(out, Variable{Name: name, Value: value})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*v = out
	return nil
}

// UnmarshalYAML decodes a YAML mapping into declarations, keeping key order.
func (v *Variables) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: variables must be a mapping of strings", node.Line)
	}

	out := make(Variables, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: variable '%s' must be a string", val.Line, key.Value)
		}
		out = append(out, Variable{Name: key.Value, Value: val.Value})
	}

	*v = out
	return nil
}

func decodeJSON(path string, data []byte) (*Recipe, error) {
	if err := validateJSON(path, data); err != nil {
		return nil, err
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.toRecipe(path)
}

func decodeYAML(path string, data []byte) (*Recipe, error) {
	if err := validateYAML(path, data); err != nil {
		return nil, err
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.toRecipe(path)
}
