package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNotFound is returned by Download when nothing is stored at the path.
var ErrNotFound = errors.New("storage: object not found")

// FileInfo contains metadata about a stored object.
type FileInfo struct {
	Path         string
	Size         int64
	LastModified time.Time
}

// Storage is a flat object store addressed by slash-separated paths.
type Storage interface {
	// Upload replaces the object at path with the reader's content.
	Upload(ctx context.Context, path string, reader io.Reader) error

	// Download opens the object at path. Missing objects return an error
	// wrapping ErrNotFound. The caller closes the reader.
	Download(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the object at path. Missing objects are not an error.
	Delete(ctx context.Context, path string) error

	// Exists reports whether an object is stored at path.
	Exists(ctx context.Context, path string) (bool, error)

	// List returns the objects whose path starts with prefix, sorted by path.
	List(ctx context.Context, prefix string) ([]FileInfo, error)
}
