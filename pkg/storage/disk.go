// Package storage stores uploaded product images on the local filesystem or
// an S3-compatible bucket (AWS S3, MinIO, R2).
//
//	disk, err := storage.FromConfig(ctx)
//	err = disk.Put(ctx, "products/abc.jpg", file, "image/jpeg")
//	url := disk.URL("products/abc.jpg")
package storage

import (
	"context"
	"io"
)

// Disk is the driver interface implemented by the local and S3 disks.
type Disk interface {
	// Put writes r to path, creating parent directories as needed.
	Put(ctx context.Context, path string, r io.Reader, contentType string) error
	// Get opens path for reading. Callers close the reader.
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Exists reports whether path exists.
	Exists(ctx context.Context, path string) bool
	// Delete removes path. Missing files are not an error.
	Delete(ctx context.Context, path string) error
	// URL returns the public URL for path.
	URL(path string) string
}
