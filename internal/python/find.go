// Package python locates the base interpreter used to create tool
// environments and checks it is recent enough.
package python

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// MinimumVersion is the oldest interpreter whose venv module creates
// environments with the expected layout.
const MinimumVersion = "3.8"

// ErrTooOld is returned when the base interpreter predates MinimumVersion.
var ErrTooOld = errors.New("python version below minimum")

// Base is a resolved base interpreter.
type Base struct {
	Path    string
	Version string
}

type versionFunc func(ctx context.Context, path string) (string, error)

// Finder resolves interpreter requests such as "python3" or
// "/opt/python/bin/python3.12".
type Finder struct {
	lookPath func(string) (string, error)
	version  versionFunc
}

// NewFinder returns a finder that searches PATH and asks the interpreter
// for its version.
func NewFinder() *Finder {
	return &Finder{lookPath: exec.LookPath, version: readVersion}
}

// Find resolves request to an executable and verifies its version.
func (f *Finder) Find(ctx context.Context, request string) (Base, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return Base{}, errors.New("no python interpreter requested")
	}

	path, err := f.lookPath(request)
	if err != nil {
		return Base{}, fmt.Errorf("python interpreter %s not found: %w", request, err)
	}

	version, err := f.version(ctx, path)
	if err != nil {
		return Base{}, err
	}
	if !meetsMinimum(version, MinimumVersion) {
		return Base{}, fmt.Errorf("%w: %s at %s, need %s", ErrTooOld, version, path, MinimumVersion)
	}
	return Base{Path: path, Version: version}, nil
}

func readVersion(ctx context.Context, path string) (string, error) {
	output, err := exec.CommandContext(ctx, path, "--version").CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("%s --version: %w", path, err)
	}
	version := parseVersion(string(output))
	if version == "" {
		return "", fmt.Errorf("%s --version: unrecognised output %q", path, firstLine(strings.TrimSpace(string(output))))
	}
	return version, nil
}

var versionRegex = regexp.MustCompile(`Python ([0-9]+\.[0-9]+(?:\.[0-9]+)?)`)

// parseVersion extracts the dotted version from `python --version` output.
func parseVersion(output string) string {
	m := versionRegex.FindStringSubmatch(firstLine(strings.TrimSpace(output)))
	if m == nil {
		return ""
	}
	return m[1]
}

func firstLine(text string) string {
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		return text[:idx]
	}
	return text
}

func meetsMinimum(version, minimum string) bool {
	if minimum == "" {
		return true
	}
	if version == "" {
		return false
	}

	vParts := numericParts(version)
	mParts := numericParts(minimum)
	for len(vParts) < len(mParts) {
		vParts = append(vParts, 0)
	}
	for len(mParts) < len(vParts) {
		mParts = append(mParts, 0)
	}
	for i := range vParts {
		if vParts[i] != mParts[i] {
			return vParts[i] > mParts[i]
		}
	}
	return true
}

func numericParts(version string) []int {
	var parts []int
	for _, field := range strings.FieldsFunc(version, func(r rune) bool { return r < '0' || r > '9' }) {
		val, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		parts = append(parts, val)
	}
	return parts
}
