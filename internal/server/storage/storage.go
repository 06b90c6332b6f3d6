// Package storage persists file bytes under opaque, server-chosen paths.
package storage

import (
	"context"
	"fmt"
	"strconv"
)

// Supported storage backends.
const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Storage reads and writes whole objects. Read returns common.ErrorNotFound
// when nothing is stored at path.
type Storage interface {
	Write(ctx context.Context, path string, data []byte) error
	Read(ctx context.Context, path string) ([]byte, error)
	Exists(ctx context.Context, path string) (bool, error)
	// Delete removes the object at path. Deleting a missing object is not an error.
	Delete(ctx context.Context, path string) error
	// NewPath returns a fresh location that no other object uses.
	NewPath() string
}

// Options selects and configures a backend.
type Options struct {
	Backend    string
	FolderPath string
	S3         S3Options
}

// New builds the backend named in opts.
func New(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Backend {
	case BackendLocal:
		return NewLocalStorage(opts.FolderPath)
	case BackendS3:
		return NewS3Storage(ctx, opts.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// VariantPath is where the thumbnail of the given width of the object at
// path is stored.
func VariantPath(path string, width int) string {
	return path + "_" + strconv.Itoa(width)
}
