package recipe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/coyote/internal/ctxlog"
	"github.com/specialistvlad/coyote/internal/fsutil"
)

const (
	defaultBase = "coyote"
	namedPrefix = "coyote-"
)

// Extensions lists the recognised recipe file extensions in probe order.
var Extensions = []string{".json", ".hcl", ".yaml", ".yml"}

// Candidates returns the file names probed for a recipe, in order. An empty
// name selects the default recipe.
func Candidates(name string) []string {
	base := defaultBase
	if name != "" {
		base = namedPrefix + name
	}
	out := make([]string, len(Extensions))
	for i, ext := range Extensions {
		out[i] = base + ext
	}
	return out
}

// Find locates the recipe file for name inside dir.
func Find(dir, name string) (string, error) {
	candidates := Candidates(name)
	path, ok, err := fsutil.FirstFile(dir, candidates)
	if err != nil {
		return "", fmt.Errorf("error accessing recipe: %w", err)
	}
	if !ok {
		return "", &NotFoundError{Name: name, Candidates: candidates}
	}
	return path, nil
}

// Load reads and decodes the recipe at path. The format is chosen by the file
// extension. Every failure is a *ParseError.
func Load(ctx context.Context, path string) (*Recipe, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading recipe.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var r *Recipe
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		r, err = decodeJSON(path, data)
	case ".yaml", ".yml":
		r, err = decodeYAML(path, data)
	case ".hcl":
		r, err = decodeHCL(path, data)
	default:
		err = fmt.Errorf("unsupported recipe format %q", ext)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	logger.Debug("Recipe decoded.",
		"project", r.ProjectName,
		"variables", len(r.Variables),
		"targets", len(r.Targets),
		"commands", r.CommandCount(),
	)
	return r, nil
}
