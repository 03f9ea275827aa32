//go:build (linux && (arm64 || loong64 || riscv64)) || (openbsd && arm64)

package logging

import (
	"os"
	"syscall"
)

func stderrToLogfile(logfile *os.File) error {
	return syscall.Dup3(int(logfile.Fd()), 2, 0)
}
