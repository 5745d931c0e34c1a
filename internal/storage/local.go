package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
)

// LocalUploader writes objects below a directory on disk.
type LocalUploader struct {
	dir string
}

func NewLocalUploader(dir string) *LocalUploader {
	return &LocalUploader{dir: dir}
}

func (u *LocalUploader) Upload(_ context.Context, objectName string, _ string, r io.Reader) (string, error) {
	path := filepath.Join(u.dir, filepath.Clean("/"+objectName))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	return path, f.Close()
}
