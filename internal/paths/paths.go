package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// LookupEnv matches os.LookupEnv so callers can substitute a fake
// environment in tests.
type LookupEnv func(key string) (string, bool)

// Layout captures the directories toolenv reads and writes.
type Layout struct {
	ToolDir    string
	BinDir     string
	LogDir     string
	ConfigFile string
}

func getenv(lookup LookupEnv, key string) string {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	if v, ok := lookup(key); ok {
		return v
	}
	return ""
}

// DataDir returns the per-user data directory for toolenv.
func DataDir(lookup LookupEnv) (string, error) {
	if xdg := getenv(lookup, "XDG_DATA_HOME"); xdg != "" && filepath.IsAbs(xdg) {
		return filepath.Join(xdg, "toolenv"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "toolenv"), nil
	case "windows":
		if appData := getenv(lookup, "APPDATA"); appData != "" {
			return filepath.Join(appData, "toolenv", "data"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "toolenv", "data"), nil
	default:
		return filepath.Join(home, ".local", "share", "toolenv"), nil
	}
}

// BinDir returns the default shared binary directory: $XDG_BIN_HOME, then
// ~/.local/bin on every platform.
func BinDir(lookup LookupEnv) (string, error) {
	if xdg := getenv(lookup, "XDG_BIN_HOME"); xdg != "" && filepath.IsAbs(xdg) {
		return filepath.Clean(xdg), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("detect user home: %w", err)
	}
	return filepath.Join(home, ".local", "bin"), nil
}

// ConfigFile returns the default config file location.
func ConfigFile(lookup LookupEnv) (string, error) {
	if xdg := getenv(lookup, "XDG_CONFIG_HOME"); xdg != "" && filepath.IsAbs(xdg) {
		return filepath.Join(xdg, "toolenv", "config.yaml"), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("detect config dir: %w", err)
	}
	if runtime.GOOS == "linux" || runtime.GOOS == "freebsd" {
		home, err := os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(dir, "toolenv", "config.yaml"), nil
}

// DefaultLayout resolves every directory from platform defaults.
func DefaultLayout(lookup LookupEnv) (Layout, error) {
	data, err := DataDir(lookup)
	if err != nil {
		return Layout{}, err
	}
	bin, err := BinDir(lookup)
	if err != nil {
		return Layout{}, err
	}
	cfg, err := ConfigFile(lookup)
	if err != nil {
		return Layout{}, err
	}
	return Layout{
		ToolDir:    filepath.Join(data, "tools"),
		BinDir:     bin,
		LogDir:     filepath.Join(data, "logs"),
		ConfigFile: cfg,
	}, nil
}

// Resolve makes value absolute, interpreting relative paths against base.
func Resolve(base, value string) string {
	if value == "" {
		return ""
	}
	if filepath.IsAbs(value) {
		return filepath.Clean(value)
	}
	return filepath.Join(base, value)
}

// FileExists reports whether a path exists and is a regular file.
func FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// DirExists reports whether a path exists and is a directory.
func DirExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
