package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// WriteFileAtomic writes data next to path and renames it into place, so a
// crash never leaves a truncated file under the final name.
func WriteFileAtomic(fs afero.Fs, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fs, dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = fs.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	_ = tmp.Sync()
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := fs.Chmod(tmpName, perm); err != nil {
		return err
	}
	if err := fs.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmpName, err)
	}
	committed = true
	return nil
}
