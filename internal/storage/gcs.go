package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

type GCSUploader struct {
	client *gcs.Client
	bucket string
	prefix string
}

func NewGCSUploader(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCSUploader, error) {
	c, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSUploader{client: c, bucket: bucket, prefix: prefix}, nil
}

func (u *GCSUploader) Close() error { return u.client.Close() }

// Upload writes a private object; diagnostics may contain user data.
func (u *GCSUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	name := u.prefix + objectName
	w := u.client.Bucket(u.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("gs://%s/%s", u.bucket, name), nil
}
