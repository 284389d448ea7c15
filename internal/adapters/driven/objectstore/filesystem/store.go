// Package filesystem provides an object store over a local directory.
// Keys are slash-separated paths relative to the root, so a corpus moved
// between a directory and a bucket keeps the same source keys.
package filesystem

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure ObjectStore implements the interface.
var _ driven.ObjectStore = (*ObjectStore)(nil)

// ObjectStore lists and reads files under one root directory.
type ObjectStore struct {
	root string
}

// NewObjectStore creates an object store rooted at dir, which must exist
// and be a directory.
func NewObjectStore(dir string) (*ObjectStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("filesystem: directory is required")
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("filesystem: resolve %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("filesystem: stat %s: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("filesystem: %s is not a directory", abs)
	}

	return &ObjectStore{root: abs}, nil
}

// Root returns the absolute root directory.
func (o *ObjectStore) Root() string {
	return o.root
}

// List walks the root and returns every regular file as an object.
// Hidden files and directories (dot-prefixed) are skipped.
func (o *ObjectStore) List(ctx context.Context) ([]driven.ObjectInfo, error) {
	var objects []driven.ObjectInfo

	err := filepath.WalkDir(o.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		name := d.Name()
		if d.IsDir() {
			if strings.HasPrefix(name, ".") && path != o.root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(o.root, path)
		if err != nil {
			return err
		}

		objects = append(objects, driven.ObjectInfo{
			Key:  filepath.ToSlash(rel),
			Size: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("filesystem: list %s: %w", o.root, err)
	}

	return objects, nil
}

// Get reads the raw bytes of the file at key.
func (o *ObjectStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := o.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("filesystem: read %s: %w", key, err)
	}
	return data, nil
}

// Close releases resources.
func (o *ObjectStore) Close() error {
	return nil
}

// resolve maps a key to an absolute path and rejects keys that escape
// the root.
func (o *ObjectStore) resolve(key string) (string, error) {
	path := filepath.Join(o.root, filepath.FromSlash(key))

	rel, err := filepath.Rel(o.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("filesystem: key %q escapes the root", key)
	}
	return path, nil
}
