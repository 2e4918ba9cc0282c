package installer

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidRequirement is returned for requirement strings without a
// distribution name.
var ErrInvalidRequirement = errors.New("invalid requirement")

// PEP 508 names start and end with a letter or digit.
var requirementName = regexp.MustCompile(`^([A-Za-z0-9](?:[A-Za-z0-9._-]*[A-Za-z0-9])?)`)

// ParseRequirement returns the distribution name at the start of req, e.g.
// "black" for "black==24.2.0" or "httpie[socks]>=3".
func ParseRequirement(req string) (string, error) {
	trimmed := strings.TrimSpace(req)
	if trimmed == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidRequirement)
	}
	m := requirementName.FindString(trimmed)
	if m == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidRequirement, req)
	}
	rest := strings.TrimSpace(trimmed[len(m):])
	if rest != "" && !strings.ContainsAny(rest[:1], "[=<>!~;@(") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRequirement, req)
	}
	return m, nil
}
