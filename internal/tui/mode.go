package tui

import (
	"io"
	"os"
	"runtime"
	"strings"
)

// OutputMode describes how install progress is shown.
type OutputMode int

const (
	// ModeTUI redraws a live table with bubbletea.
	ModeTUI OutputMode = iota
	// ModePlain prints one line per finished install.
	ModePlain
	// ModeJSON suppresses progress; the caller prints a document at the end.
	ModeJSON
)

// DetectMode picks the output mode for out. getenv is consulted for TERM.
func DetectMode(out io.Writer, jsonOutput bool, getenv func(string) string) OutputMode {
	if jsonOutput {
		return ModeJSON
	}
	file, ok := out.(*os.File)
	if !ok {
		return ModePlain
	}
	info, err := file.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return ModePlain
	}
	if runtime.GOOS != "windows" {
		term := getenv("TERM")
		if term == "" || strings.EqualFold(term, "dumb") {
			return ModePlain
		}
	}
	return ModeTUI
}
