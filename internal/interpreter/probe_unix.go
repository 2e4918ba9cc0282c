//go:build !windows

package interpreter

import (
	"fmt"
	"io/fs"

	"golang.org/x/sys/unix"
)

const (
	binDir    = "bin"
	pythonExe = "python3"
)

func checkExecutable(path string, info fs.FileInfo) error {
	if info.Mode().Perm()&0o111 == 0 {
		return errNotExecutable
	}
	if err := unix.Access(path, unix.X_OK); err != nil {
		return fmt.Errorf("%w: %v", errNotExecutable, err)
	}
	return nil
}
