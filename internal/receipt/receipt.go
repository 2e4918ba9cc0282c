// Package receipt encodes and decodes the metadata file recorded inside every
// tool environment.
package receipt

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// FileName is the receipt's file name inside an environment root.
const FileName = "toolenv-receipt.toml"

// SchemaVersion is the only receipt schema this build understands.
const SchemaVersion = 1

// ErrMalformed marks receipts that cannot be trusted: syntax errors, unknown
// keys, missing fields or an unsupported schema.
var ErrMalformed = errors.New("malformed receipt")

// Receipt records how a tool environment came to exist.
type Receipt struct {
	Name          string
	Requirement   string
	Version       string
	PythonVersion string
	Installer     string
	InstalledAt   time.Time
	Entrypoints   []Entrypoint
}

// Entrypoint is a shim placed for the tool at install time.
type Entrypoint struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

type document struct {
	Schema int     `toml:"schema"`
	Tool   toolDoc `toml:"tool"`
}

type toolDoc struct {
	Name          string       `toml:"name"`
	Requirement   string       `toml:"requirement"`
	Version       string       `toml:"version"`
	PythonVersion string       `toml:"python_version"`
	Installer     string       `toml:"installer"`
	InstalledAt   *time.Time   `toml:"installed_at,omitempty"`
	Entrypoints   []Entrypoint `toml:"entrypoints,omitempty"`
}

// Validate reports the first required field that is empty.
func (r Receipt) Validate() error {
	fields := []struct {
		key   string
		value string
	}{
		{"tool.name", r.Name},
		{"tool.requirement", r.Requirement},
		{"tool.version", r.Version},
		{"tool.python_version", r.PythonVersion},
		{"tool.installer", r.Installer},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: missing %s", ErrMalformed, f.key)
		}
	}
	for i, ep := range r.Entrypoints {
		if ep.Name == "" || ep.Path == "" {
			return fmt.Errorf("%w: entrypoint %d incomplete", ErrMalformed, i)
		}
	}
	return nil
}

// Decode parses a receipt. Any deviation from the schema yields an error
// wrapping ErrMalformed and a zero Receipt.
func Decode(data []byte) (Receipt, error) {
	var doc document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Receipt{}, fmt.Errorf("%w: unknown key %s", ErrMalformed, undecoded[0].String())
	}
	if !md.IsDefined("schema") {
		return Receipt{}, fmt.Errorf("%w: missing schema", ErrMalformed)
	}
	if doc.Schema != SchemaVersion {
		return Receipt{}, fmt.Errorf("%w: unsupported schema %d", ErrMalformed, doc.Schema)
	}

	r := Receipt{
		Name:          doc.Tool.Name,
		Requirement:   doc.Tool.Requirement,
		Version:       doc.Tool.Version,
		PythonVersion: doc.Tool.PythonVersion,
		Installer:     doc.Tool.Installer,
		Entrypoints:   doc.Tool.Entrypoints,
	}
	if doc.Tool.InstalledAt != nil {
		r.InstalledAt = doc.Tool.InstalledAt.UTC()
	}
	if err := r.Validate(); err != nil {
		return Receipt{}, err
	}
	return r, nil
}

// Encode renders the receipt as TOML.
func Encode(r Receipt) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}

	doc := document{
		Schema: SchemaVersion,
		Tool: toolDoc{
			Name:          r.Name,
			Requirement:   r.Requirement,
			Version:       r.Version,
			PythonVersion: r.PythonVersion,
			Installer:     r.Installer,
			Entrypoints:   r.Entrypoints,
		},
	}
	if !r.InstalledAt.IsZero() {
		at := r.InstalledAt.UTC().Truncate(time.Second)
		doc.Tool.InstalledAt = &at
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return nil, fmt.Errorf("encode receipt: %w", err)
	}
	return buf.Bytes(), nil
}
