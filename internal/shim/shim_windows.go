//go:build windows

package shim

import "fmt"

const (
	shimSuffix       = ".cmd"
	entrypointSuffix = ".exe"
)

func render(name, interpreter, entrypoint string) string {
	return fmt.Sprintf("@echo off\r\nrem toolenv shim for %s\r\n\"%s\" \"%s\" %%*\r\n",
		name, interpreter, entrypoint)
}
