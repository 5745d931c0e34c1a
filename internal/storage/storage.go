package storage

import (
	"context"
	"io"
)

// Uploader persists diagnostic artifacts.
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (storedPath string, err error)
}
