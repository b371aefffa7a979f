// Package lock persists the path→timestamp map that decides whether a
// command's "modified" condition is met. The store is loaded once per run,
// mutated in place while targets execute and rewritten wholesale at the end.
//
// The store is owned by a single run and is not safe for concurrent use.
package lock

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// DefaultPath is the lock file shared by every recipe in a directory.
const DefaultPath = "coyote.LOCK"

// Store maps file paths to the modification time (seconds since the Unix
// epoch) observed the last time a condition looked at them.
type Store struct {
	LastModified map[string]uint64
}

// ParseError reports lock file content that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed '%s' detected: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// New creates an empty Store.
func New() *Store {
	return &Store{LastModified: make(map[string]uint64)}
}

// Get returns the stored timestamp for path.
func (s *Store) Get(path string) (uint64, bool) {
	ts, ok := s.LastModified[path]
	return ts, ok
}

// Set records ts as the last observed timestamp of path.
func (s *Store) Set(path string, ts uint64) {
	if s.LastModified == nil {
		s.LastModified = make(map[string]uint64)
	}
	s.LastModified[path] = ts
}

// Len returns the number of tracked paths.
func (s *Store) Len() int {
	return len(s.LastModified)
}

// Paths returns the tracked paths in sorted order.
func (s *Store) Paths() []string {
	paths := make([]string, 0, len(s.LastModified))
	for p := range s.LastModified {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// fileFormat is the on-disk shape. Timestamps are decimal strings.
type fileFormat struct {
	LastModified map[string]string `json:"last_modified"`
}

// Marshal encodes the store in the lock file format.
func (s *Store) Marshal() ([]byte, error) {
	out := fileFormat{LastModified: make(map[string]string, len(s.LastModified))}
	for p, ts := range s.LastModified {
		out.LastModified[p] = strconv.FormatUint(ts, 10)
	}
	return json.Marshal(out)
}

// Unmarshal decodes lock file content. Empty or whitespace-only content
// yields an empty store.
func Unmarshal(data []byte) (*Store, error) {
	s := New()
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}

	var in fileFormat
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	for p, raw := range in.LastModified {
		ts, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("timestamp for '%s' is not a decimal number of seconds: %q", p, raw)
		}
		s.LastModified[p] = ts
	}
	return s, nil
}

// Load reads the lock file at path. A missing file is created empty.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return nil, fmt.Errorf("failed to create '%s': %w", path, err)
		}
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read '%s': %w", path, err)
	}

	s, err := Unmarshal(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return s, nil
}

// Save overwrites the lock file at path with the full store. The content is
// written to a temporary file in the same directory and renamed into place so
// that a crash never leaves a truncated lock file behind.
func (s *Store) Save(path string) error {
	data, err := s.Marshal()
	if err != nil {
		return fmt.Errorf("failed to convert '%s' into JSON format: %w", path, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace '%s': %w", path, err)
	}
	return nil
}
