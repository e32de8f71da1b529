// Package utils holds small filesystem helpers shared by the settings
// Persister.
package utils

import (
	"fmt"
	"io"
	"os"

	"github.com/plpmyanmar/terminal/base/utils/renameio"
)

// CopyFileAtomic copies src onto dest, replacing dest atomically. It is
// used by the Persister to snapshot the current settings file into a
// timestamped backup before overwriting it.
func CopyFileAtomic(dest, src string, mode os.FileMode) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if mode == 0 {
		stat, err := f.Stat()
		if err != nil {
			return err
		}
		mode = stat.Mode()
	}

	tmpFile, err := renameio.TempFile("", dest)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		_ = tmpFile.Cleanup()
	}()

	if err := tmpFile.Chmod(mode); err != nil {
		return fmt.Errorf("failed to set mode of temp file: %w", err)
	}
	if _, err := io.Copy(tmpFile, f); err != nil {
		return fmt.Errorf("failed to copy source file: %w", err)
	}

	if err := tmpFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("failed to rename temp file to %q: %w", dest, err)
	}
	return nil
}
