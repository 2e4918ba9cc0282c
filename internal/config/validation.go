package config

import (
	"fmt"
	"path/filepath"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

// Validate checks the effective configuration for settings that would make
// installs or listings misbehave.
func (c Config) Validate() []ValidationResult {
	var results []ValidationResult

	dirs := []struct {
		name  string
		value string
	}{
		{"tool_dir", c.ToolDir},
		{"bin_dir", c.BinDir},
		{"log_dir", c.LogDir},
	}
	for _, d := range dirs {
		if d.value == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("%s is not set", d.name),
			})
			continue
		}
		if !filepath.IsAbs(d.value) {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("%s must be absolute: %s", d.name, d.value),
			})
		}
	}

	if c.ToolDir != "" && filepath.Clean(c.ToolDir) == filepath.Clean(c.BinDir) {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "tool_dir and bin_dir must differ",
		})
	}
	if c.ToolDir != "" && c.BinDir != "" && isWithin(c.ToolDir, c.BinDir) {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: "bin_dir is inside tool_dir; shims would show up as tool environments",
		})
	}
	if c.Python == "" {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: "python is not set; install needs a base interpreter",
		})
	}
	return results
}

// HasErrors reports whether any result is an error.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}

func isWithin(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil || rel == "." {
		return false
	}
	return rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
