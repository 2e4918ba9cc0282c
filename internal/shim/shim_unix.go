//go:build !windows

package shim

import (
	"fmt"
	"strings"
)

const (
	shimSuffix       = ""
	entrypointSuffix = ""
)

func render(name, interpreter, entrypoint string) string {
	return fmt.Sprintf("#!/bin/sh\n# toolenv shim for %s\nexec %s %s \"$@\"\n",
		name, quote(interpreter), quote(entrypoint))
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
