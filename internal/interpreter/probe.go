// Package interpreter locates and checks the Python interpreter inside a tool
// environment.
package interpreter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// NotFoundError reports the exact interpreter path that was checked.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("python interpreter not found at `%s`", e.Path)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

var errNotExecutable = errors.New("not executable")

// Path returns the conventional interpreter location for an environment root.
func Path(envRoot string) string {
	return filepath.Join(envRoot, binDir, pythonExe)
}

// BinDir returns the environment's scripts directory.
func BinDir(envRoot string) string {
	return filepath.Join(envRoot, binDir)
}

// Resolve returns the interpreter path when it exists and can be executed.
func Resolve(envRoot string) (string, error) {
	path := Path(envRoot)
	info, err := os.Stat(path)
	if err != nil {
		return "", &NotFoundError{Path: path, Err: err}
	}
	if info.IsDir() {
		return "", &NotFoundError{Path: path, Err: fmt.Errorf("%w: is a directory", fs.ErrInvalid)}
	}
	if err := checkExecutable(path, info); err != nil {
		return "", &NotFoundError{Path: path, Err: err}
	}
	return path, nil
}
