package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// ReadAll downloads the whole object at path.
func ReadAll(ctx context.Context, s Storage, path string) ([]byte, error) {
	rc, err := s.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

// WriteAll uploads data as the object at path.
func WriteAll(ctx context.Context, s Storage, path string, data []byte) error {
	return s.Upload(ctx, path, bytes.NewReader(data))
}
