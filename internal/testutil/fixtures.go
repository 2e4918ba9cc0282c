// Package testutil builds tool environments on disk for tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"toolenv/internal/interpreter"
	"toolenv/internal/receipt"
)

// Receipt returns a complete receipt for name pinned at version.
func Receipt(name, version string) receipt.Receipt {
	return receipt.Receipt{
		Name:          name,
		Requirement:   name + "==" + version,
		Version:       version,
		PythonVersion: "3.12.1",
		Installer:     "toolenv test",
	}
}

// InstallTool lays out an environment the way a successful install would:
// an executable interpreter and a receipt. It returns the environment root.
func InstallTool(t testing.TB, toolDir, name, version string) string {
	t.Helper()
	root := filepath.Join(toolDir, name)
	WriteInterpreter(t, root)
	WriteReceipt(t, root, Receipt(name, version))
	return root
}

// WriteInterpreter places an executable stand-in at the interpreter path.
func WriteInterpreter(t testing.TB, envRoot string) string {
	t.Helper()
	path := interpreter.Path(envRoot)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create interpreter dir: %v", err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write interpreter: %v", err)
	}
	return path
}

// WriteReceipt encodes r into envRoot.
func WriteReceipt(t testing.TB, envRoot string, r receipt.Receipt) {
	t.Helper()
	data, err := receipt.Encode(r)
	if err != nil {
		t.Fatalf("encode receipt: %v", err)
	}
	if err := os.MkdirAll(envRoot, 0o755); err != nil {
		t.Fatalf("create env root: %v", err)
	}
	if err := os.WriteFile(filepath.Join(envRoot, receipt.FileName), data, 0o644); err != nil {
		t.Fatalf("write receipt: %v", err)
	}
}

// Provisioner stands in for a real Python. CreateEnvironment lays out an
// interpreter and PackageVersion answers from Versions.
type Provisioner struct {
	T          testing.TB
	Versions   map[string]string
	InstallErr error
}

// CreateEnvironment writes an interpreter into envRoot.
func (p *Provisioner) CreateEnvironment(_ context.Context, envRoot string) error {
	WriteInterpreter(p.T, envRoot)
	return nil
}

// InstallPackage returns InstallErr.
func (p *Provisioner) InstallPackage(context.Context, string, string) error {
	return p.InstallErr
}

// PackageVersion looks the distribution up in Versions.
func (p *Provisioner) PackageVersion(_ context.Context, _ string, distribution string) (string, error) {
	v, ok := p.Versions[distribution]
	if !ok {
		return "", fmt.Errorf("package %s is not installed", distribution)
	}
	return v, nil
}

// PythonVersion always reports 3.12.1.
func (p *Provisioner) PythonVersion(context.Context, string) (string, error) {
	return "3.12.1", nil
}
