// Package fsutil provides file system utility functions.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FirstFile returns the path of the first regular file among names inside
// dir, probing in order. ok is false when none of them exist. Directories
// are skipped. Errors other than non-existence abort the probe.
func FirstFile(dir string, names []string) (path string, ok bool, err error) {
	for _, name := range names {
		p := filepath.Join(dir, name)
		info, err := os.Stat(p)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			continue
		case err != nil:
			return "", false, fmt.Errorf("error accessing %s: %w", p, err)
		case info.IsDir():
			continue
		}
		return p, true, nil
	}
	return "", false, nil
}
