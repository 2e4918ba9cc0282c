//go:build windows

package interpreter

import "io/fs"

const (
	binDir    = "Scripts"
	pythonExe = "python.exe"
)

// Windows has no execute bit; a regular file with the expected name is enough.
func checkExecutable(_ string, info fs.FileInfo) error {
	if !info.Mode().IsRegular() {
		return errNotExecutable
	}
	return nil
}
