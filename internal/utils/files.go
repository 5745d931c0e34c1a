package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SafeFilename reduces a client supplied name to a plain base name.
// It returns "" when nothing usable is left.
func SafeFilename(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "\\", "/"))
	name = filepath.Base(name)
	switch name {
	case "", ".", "..", "/":
		return ""
	}
	if strings.HasPrefix(name, ".") {
		name = strings.TrimLeft(name, ".")
	}
	return name
}

// RemoveQuietly deletes path and reports whether something went wrong
// other than the file already being gone.
func RemoveQuietly(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0o755)
}
