//go:build !linux && !openbsd && !freebsd && !darwin

package logging

import "os"

// stderr stays on the console where it cannot be redirected
func stderrToLogfile(*os.File) error {
	return nil
}
