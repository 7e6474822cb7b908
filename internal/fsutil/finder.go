// Package fsutil provides file system utility functions shared by the stores
// and the pipeline loader. All helpers operate on an afero.Fs so callers can
// swap the OS filesystem for an in-memory one.
package fsutil

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// FindFilesByExtension returns the files ending with extension. root may be a
// single file or a directory, which is walked recursively. The result is
// sorted so callers get a stable declaration order.
func FindFilesByExtension(fs afero.Fs, root string, extension string) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	info, err := fs.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if strings.HasSuffix(info.Name(), extension) {
			return []string{root}, nil
		}
		return nil, nil
	}

	var files []string
	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), extension) {
			files = append(files, filepath.Clean(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
