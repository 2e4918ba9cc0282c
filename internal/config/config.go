package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"toolenv/internal/paths"
)

// Environment variables that override the config file.
const (
	EnvConfig  = "TOOLENV_CONFIG"
	EnvToolDir = "TOOLENV_TOOL_DIR"
	EnvBinDir  = "TOOLENV_BIN_DIR"
	EnvPython  = "TOOLENV_PYTHON"
	EnvLogDir  = "TOOLENV_LOG_DIR"
)

// Config holds the settings read once at the start of an invocation.
type Config struct {
	ToolDir string `yaml:"tool_dir" json:"tool_dir"`
	BinDir  string `yaml:"bin_dir" json:"bin_dir"`
	Python  string `yaml:"python" json:"python"`
	LogDir  string `yaml:"log_dir" json:"log_dir"`

	// Source is the config file that was read, empty when none existed.
	Source string `yaml:"-" json:"-"`
}

// Default returns the platform configuration.
func Default(lookup paths.LookupEnv) (Config, error) {
	layout, err := paths.DefaultLayout(lookup)
	if err != nil {
		return Config{}, err
	}
	return Config{
		ToolDir: layout.ToolDir,
		BinDir:  layout.BinDir,
		Python:  defaultPython(),
		LogDir:  layout.LogDir,
	}, nil
}

func defaultPython() string {
	if runtime.GOOS == "windows" {
		return "python"
	}
	return "python3"
}

// Load reads the YAML file at path on top of the defaults. A missing file
// yields the defaults. Relative directories in the file are resolved against
// the file's directory.
func Load(path string, lookup paths.LookupEnv) (Config, error) {
	cfg, err := Default(lookup)
	if err != nil {
		return Config{}, err
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(contents, &file); err != nil {
		return Config{}, fmt.Errorf("unmarshal config %s: %w", path, err)
	}

	base := filepath.Dir(path)
	file.ToolDir = paths.Resolve(base, strings.TrimSpace(file.ToolDir))
	file.BinDir = paths.Resolve(base, strings.TrimSpace(file.BinDir))
	file.LogDir = paths.Resolve(base, strings.TrimSpace(file.LogDir))
	file.Python = strings.TrimSpace(file.Python)

	cfg.merge(file)
	cfg.Source = path
	return cfg, nil
}

// Resolve loads the effective configuration: explicit config path or
// $TOOLENV_CONFIG or the default file, then environment overrides.
func Resolve(configPath string, lookup paths.LookupEnv) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}

	path := configPath
	if path == "" {
		if v, ok := lookup(EnvConfig); ok && v != "" {
			path = v
		}
	}
	if path == "" {
		layout, err := paths.DefaultLayout(lookup)
		if err != nil {
			return Config{}, err
		}
		path = layout.ConfigFile
	} else if configPath != "" {
		// An explicitly requested file must exist.
		ok, err := paths.FileExists(path)
		if err != nil {
			return Config{}, fmt.Errorf("config file: %w", err)
		}
		if !ok {
			return Config{}, fmt.Errorf("config file %s: not a regular file", path)
		}
	}

	cfg, err := Load(path, lookup)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays the TOOLENV_* variables. XDG_BIN_HOME is already part of
// the default bin directory.
func (c *Config) ApplyEnv(lookup paths.LookupEnv) error {
	dirs := []struct {
		key  string
		dest *string
	}{
		{EnvToolDir, &c.ToolDir},
		{EnvBinDir, &c.BinDir},
		{EnvLogDir, &c.LogDir},
	}
	for _, d := range dirs {
		v, ok := lookup(d.key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		abs, err := filepath.Abs(v)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", d.key, err)
		}
		*d.dest = abs
	}
	if v, ok := lookup(EnvPython); ok && strings.TrimSpace(v) != "" {
		c.Python = strings.TrimSpace(v)
	}
	return nil
}

func (c *Config) merge(o Config) {
	if o.ToolDir != "" {
		c.ToolDir = o.ToolDir
	}
	if o.BinDir != "" {
		c.BinDir = o.BinDir
	}
	if o.Python != "" {
		c.Python = o.Python
	}
	if o.LogDir != "" {
		c.LogDir = o.LogDir
	}
}

// Marshal returns the YAML encoding of the configuration.
func (c Config) Marshal() ([]byte, error) {
	buf, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return buf, nil
}
