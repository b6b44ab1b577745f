// Package memory is a process-local storage backend, used in tests and for
// running without touching the user's settings.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderMemory, func(_ storage.Config, _ *logger.Logger) (storage.Storage, error) {
		return New(), nil
	})
}

type object struct {
	data     []byte
	modified time.Time
}

// Storage keeps objects in a map.
type Storage struct {
	mu      sync.RWMutex
	objects map[string]object

	// UploadErr, when set, is returned by every Upload.
	UploadErr error
}

// New creates an empty in-memory store.
func New() *Storage {
	return &Storage{objects: make(map[string]object)}
}

func (s *Storage) Upload(_ context.Context, path string, reader io.Reader) error {
	s.mu.RLock()
	uploadErr := s.UploadErr
	s.mu.RUnlock()
	if uploadErr != nil {
		return uploadErr
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("storage: read upload: %w", err)
	}
	s.mu.Lock()
	s.objects[path] = object{data: data, modified: time.Now()}
	s.mu.Unlock()
	return nil
}

func (s *Storage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objects[path]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(obj.data))), nil
}

func (s *Storage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	delete(s.objects, path)
	s.mu.Unlock()
	return nil
}

func (s *Storage) Exists(_ context.Context, path string) (bool, error) {
	s.mu.RLock()
	_, ok := s.objects[path]
	s.mu.RUnlock()
	return ok, nil
}

func (s *Storage) List(_ context.Context, prefix string) ([]storage.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var files []storage.FileInfo
	for path, obj := range s.objects {
		if strings.HasPrefix(path, prefix) {
			files = append(files, storage.FileInfo{Path: path, Size: int64(len(obj.data)), LastModified: obj.modified})
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// SetUploadErr makes subsequent uploads fail with err. Pass nil to clear.
func (s *Storage) SetUploadErr(err error) {
	s.mu.Lock()
	s.UploadErr = err
	s.mu.Unlock()
}

var _ storage.Storage = (*Storage)(nil)
