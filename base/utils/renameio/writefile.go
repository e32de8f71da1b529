package renameio

import "os"

// WriteFile mirrors os.WriteFile, but replaces an existing file at the
// same path atomically.
func WriteFile(filename string, data []byte, perm os.FileMode) error {
	t, err := TempFile("", filename)
	if err != nil {
		return err
	}
	defer func() {
		_ = t.Cleanup()
	}()

	if err := t.Chmod(perm); err != nil {
		return err
	}
	if _, err := t.Write(data); err != nil {
		return err
	}
	return t.CloseAtomicallyReplace()
}
