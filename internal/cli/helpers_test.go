package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"toolenv/internal/installer"
	"toolenv/internal/paths"
	"toolenv/internal/python"
	"toolenv/internal/testutil"
)

type cliEnv struct {
	toolDir string
	binDir  string
	logDir  string
	vars    map[string]string
	prov    *testutil.Provisioner
}

// newCLIEnv points every directory at a temp dir and swaps the provisioner
// for a fake that knows the given package versions.
func newCLIEnv(t *testing.T, versions map[string]string) *cliEnv {
	t.Helper()
	base := t.TempDir()
	env := &cliEnv{
		toolDir: filepath.Join(base, "tools"),
		binDir:  filepath.Join(base, "bin"),
		logDir:  filepath.Join(base, "logs"),
		prov:    &testutil.Provisioner{T: t, Versions: versions},
	}
	env.vars = map[string]string{
		"TOOLENV_CONFIG":   filepath.Join(base, "config.yaml"),
		"TOOLENV_TOOL_DIR": env.toolDir,
		"TOOLENV_BIN_DIR":  env.binDir,
		"TOOLENV_LOG_DIR":  env.logDir,
		"XDG_DATA_HOME":    filepath.Join(base, "data"),
		"XDG_BIN_HOME":     filepath.Join(base, "xdg-bin"),
		"PATH":             env.binDir,
	}

	prevLookup := lookupEnv
	prevProvisioner := newProvisioner
	prevFind := findPython
	prevConfig, prevVerbose, prevJSON := configPath, verbose, outputJSON
	t.Cleanup(func() {
		lookupEnv = prevLookup
		newProvisioner = prevProvisioner
		findPython = prevFind
		configPath, verbose, outputJSON = prevConfig, prevVerbose, prevJSON
	})

	lookupEnv = paths.LookupEnv(func(key string) (string, bool) {
		v, ok := env.vars[key]
		return v, ok
	})
	newProvisioner = func(string) installer.Provisioner { return env.prov }
	findPython = func(_ context.Context, request string) (python.Base, error) {
		return python.Base{Path: request, Version: "3.12.1"}, nil
	}
	return env
}

// run executes the root command and returns what it wrote.
func (e *cliEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliEnv) mustRun(t *testing.T, args ...string) (string, string) {
	t.Helper()
	stdout, stderr, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%v: %v\nstderr: %s", args, err, stderr)
	}
	return stdout, stderr
}
