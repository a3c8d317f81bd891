package store

import (
	"errors"
	"path/filepath"
)

// CopyFile copies src to dest through fsys, creating dest's directory.
func CopyFile(fsys FileSystem, src string, dest string) error {
	src = filepath.Clean(src)
	dest = filepath.Clean(dest)
	if src == "." || dest == "." {
		return errors.New("copy file: missing src/dest")
	}
	b, err := fsys.ReadFile(src)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	return fsys.WriteFile(dest, b, 0o644)
}
