// Package store gives read-only access to the tool environments kept under a
// tool root directory.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"toolenv/internal/paths"
	"toolenv/internal/receipt"
)

var (
	// ErrStoreUnavailable is returned when the tool root exists but cannot be
	// enumerated. It aborts a listing.
	ErrStoreUnavailable = errors.New("tool directory unavailable")

	// ErrReceiptMissing is returned when an environment has no receipt file.
	ErrReceiptMissing = errors.New("missing receipt")

	// ErrInvalidName is returned for names that cannot be a single directory
	// directly under the tool root.
	ErrInvalidName = errors.New("invalid tool name")
)

// ValidateName rejects empty names, "." and "..", and anything holding a
// path separator.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return fmt.Errorf("%w %q", ErrInvalidName, name)
	}
	return nil
}

// UnavailableError describes why the tool root could not be read.
type UnavailableError struct {
	Root string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("read tool directory %s: %v", e.Root, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is match ErrStoreUnavailable.
func (e *UnavailableError) Is(target error) bool { return target == ErrStoreUnavailable }

// Store resolves environments under a single tool root.
type Store struct {
	root string
}

// New returns a store rooted at dir. The directory does not need to exist.
func New(dir string) *Store {
	return &Store{root: filepath.Clean(dir)}
}

// Root returns the tool root directory.
func (s *Store) Root() string {
	return s.root
}

// EnvironmentRoot returns the directory owned by the named environment.
func (s *Store) EnvironmentRoot(name string) string {
	return filepath.Join(s.root, name)
}

// ReceiptPath returns where the named environment keeps its receipt.
func (s *Store) ReceiptPath(name string) string {
	return filepath.Join(s.root, name, receipt.FileName)
}

// Exists reports whether the named environment directory is present. Invalid
// names fail with ErrInvalidName.
func (s *Store) Exists(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	return paths.DirExists(s.EnvironmentRoot(name))
}

// Enumerate lists candidate environment names in directory order. A missing
// tool root is an empty registry.
func (s *Store) Enumerate() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &UnavailableError{Root: s.root, Err: err}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			// Symlinked environments still count if they point at a directory.
			if entry.Type()&fs.ModeSymlink == 0 {
				continue
			}
			info, err := os.Stat(filepath.Join(s.root, entry.Name()))
			if err != nil || !info.IsDir() {
				continue
			}
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// LoadReceipt reads and decodes the named environment's receipt. Failures are
// ErrReceiptMissing or wrap receipt.ErrMalformed.
func (s *Store) LoadReceipt(name string) (receipt.Receipt, error) {
	path := s.ReceiptPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return receipt.Receipt{}, ErrReceiptMissing
		}
		return receipt.Receipt{}, fmt.Errorf("%w: read %s: %v", receipt.ErrMalformed, path, err)
	}

	r, err := receipt.Decode(data)
	if err != nil {
		return receipt.Receipt{}, fmt.Errorf("%s: %w", path, err)
	}
	if r.Name != name {
		return receipt.Receipt{}, fmt.Errorf("%s: %w: records tool %q", path, receipt.ErrMalformed, r.Name)
	}
	return r, nil
}
