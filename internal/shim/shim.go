// Package shim manages the launcher scripts placed in the shared binary
// directory.
package shim

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Registry places and removes shims inside one bin directory.
type Registry struct {
	dir string
}

// New returns a registry for dir. The directory is created on first Place.
func New(dir string) *Registry {
	return &Registry{dir: filepath.Clean(dir)}
}

// Dir returns the shared binary directory.
func (r *Registry) Dir() string {
	return r.dir
}

// Path returns where the shim for name lives.
func (r *Registry) Path(name string) string {
	return filepath.Join(r.dir, name+shimSuffix)
}

// Place writes a shim that runs the tool's console script with
// interpreterPath. The script is expected next to the interpreter.
func (r *Registry) Place(name, interpreterPath string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("invalid shim name %q", name)
	}
	if !filepath.IsAbs(interpreterPath) {
		return "", fmt.Errorf("interpreter path must be absolute: %s", interpreterPath)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return "", fmt.Errorf("prepare bin directory: %w", err)
	}

	entrypoint := filepath.Join(filepath.Dir(interpreterPath), name+entrypointSuffix)
	body := render(name, interpreterPath, entrypoint)

	dest := r.Path(name)
	tmp, err := os.CreateTemp(r.dir, "."+name+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp shim: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(body); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write shim temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close shim temp: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o755); err != nil {
		return "", fmt.Errorf("chmod shim: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", fmt.Errorf("replace shim: %w", err)
	}
	return dest, nil
}

// Lookup reports whether a shim for name is present.
func (r *Registry) Lookup(name string) (string, bool, error) {
	path := r.Path(name)
	info, err := os.Lstat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return path, false, nil
		}
		return path, false, fmt.Errorf("stat shim: %w", err)
	}
	return path, !info.IsDir(), nil
}

// Remove deletes the shim for name. A missing shim is not an error.
func (r *Registry) Remove(name string) error {
	if err := os.Remove(r.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove shim %s: %w", name, err)
	}
	return nil
}
