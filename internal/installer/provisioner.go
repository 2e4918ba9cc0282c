package installer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Provisioner populates an environment. Dependency resolution and package
// installation happen behind this interface.
type Provisioner interface {
	CreateEnvironment(ctx context.Context, envRoot string) error
	InstallPackage(ctx context.Context, interpreterPath, requirement string) error
	PackageVersion(ctx context.Context, interpreterPath, distribution string) (string, error)
	PythonVersion(ctx context.Context, interpreterPath string) (string, error)
}

type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%v: %s", err, strings.TrimSpace(string(output)))
	}
	return output, nil
}

// VenvProvisioner builds environments with `python -m venv` and pip.
type VenvProvisioner struct {
	Python string

	run runFunc
}

// NewVenvProvisioner uses python as the base interpreter for new
// environments.
func NewVenvProvisioner(python string) *VenvProvisioner {
	return &VenvProvisioner{Python: python, run: runCommand}
}

func (p *VenvProvisioner) CreateEnvironment(ctx context.Context, envRoot string) error {
	if _, err := p.run(ctx, p.Python, "-m", "venv", envRoot); err != nil {
		return fmt.Errorf("create venv: %w", err)
	}
	return nil
}

func (p *VenvProvisioner) InstallPackage(ctx context.Context, interpreterPath, requirement string) error {
	args := []string{"-m", "pip", "install", "--disable-pip-version-check", "--no-input", "--quiet", requirement}
	if _, err := p.run(ctx, interpreterPath, args...); err != nil {
		return fmt.Errorf("pip install %s: %w", requirement, err)
	}
	return nil
}

const versionScript = "import importlib.metadata, sys; print(importlib.metadata.version(sys.argv[1]))"

func (p *VenvProvisioner) PackageVersion(ctx context.Context, interpreterPath, distribution string) (string, error) {
	out, err := p.run(ctx, interpreterPath, "-c", versionScript, distribution)
	if err != nil {
		return "", fmt.Errorf("read %s version: %w", distribution, err)
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return "", fmt.Errorf("read %s version: empty output", distribution)
	}
	return version, nil
}

func (p *VenvProvisioner) PythonVersion(ctx context.Context, interpreterPath string) (string, error) {
	out, err := p.run(ctx, interpreterPath, "-c", "import platform; print(platform.python_version())")
	if err != nil {
		return "", fmt.Errorf("python version: %w", err)
	}
	version := strings.TrimSpace(string(out))
	if version == "" {
		return "", fmt.Errorf("python version: empty output from %s", interpreterPath)
	}
	return version, nil
}
