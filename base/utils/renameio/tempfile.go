// Package renameio, derived from google/renameio, is a small helper
// for atomically replacing a file's contents by writing to a temp file
// in the same mount point and renaming it into place.
package renameio

import (
	"os"
	"path/filepath"
)

// tempDir picks a directory suitable for staging a temp file that will
// later be renamed onto dest, preferring dest's own directory so the
// final rename is guaranteed to be on the same mount point.
func tempDir(dir, dest string) string {
	if dir != "" {
		return dir
	}
	return filepath.Dir(dest)
}

// PendingFile is a temp file waiting to replace the destination path via
// CloseAtomicallyReplace.
type PendingFile struct {
	*os.File

	path   string
	done   bool
	closed bool
}

// Cleanup removes the temp file if CloseAtomicallyReplace was never
// called (or failed). It is a no-op after a successful replace.
func (t *PendingFile) Cleanup() error {
	if t.done {
		return nil
	}

	var closeErr error
	if !t.closed {
		closeErr = t.Close()
	}
	if err := os.Remove(t.Name()); err != nil {
		return err
	}
	return closeErr
}

// CloseAtomicallyReplace fsyncs, closes, and renames the temp file onto
// the destination path, so a concurrent reader always observes either
// the previous complete file or the new complete file.
func (t *PendingFile) CloseAtomicallyReplace() error {
	if err := t.Sync(); err != nil {
		return err
	}
	t.closed = true
	if err := t.Close(); err != nil {
		return err
	}
	if err := os.Rename(t.Name(), t.path); err != nil {
		return err
	}
	t.done = true
	return nil
}

// TempFile creates a temp file alongside path (or in dir, if given),
// ready to be filled in and atomically renamed onto path.
func TempFile(dir, path string) (*PendingFile, error) {
	f, err := os.CreateTemp(tempDir(dir, path), "."+filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return &PendingFile{File: f, path: path}, nil
}
