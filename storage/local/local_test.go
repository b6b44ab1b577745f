package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/speechkit/storage"
)

func TestUploadDownload(t *testing.T) {
	s, err := NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	ctx := context.Background()

	if err := s.Upload(ctx, "nested/doc.json", strings.NewReader(`{"a":1}`)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	data, err := storage.ReadAll(ctx, s, "nested/doc.json")
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("content = %q", data)
	}

	// overwrite replaces the whole file
	if err := storage.WriteAll(ctx, s, "nested/doc.json", []byte("x")); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	data, _ = storage.ReadAll(ctx, s, "nested/doc.json")
	if string(data) != "x" {
		t.Errorf("content after overwrite = %q", data)
	}
}

func TestUploadLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewStorage(dir)
	if err := s.Upload(context.Background(), "doc.json", strings.NewReader("data")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "doc.json" {
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("dir entries = %v, want [doc.json]", names)
	}
}

func TestDownloadMissing(t *testing.T) {
	s, _ := NewStorage(t.TempDir())
	_, err := s.Download(context.Background(), "missing.json")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestExistsAndDelete(t *testing.T) {
	s, _ := NewStorage(t.TempDir())
	ctx := context.Background()

	ok, err := s.Exists(ctx, "a.txt")
	if err != nil || ok {
		t.Fatalf("Exists before upload = %v, %v", ok, err)
	}
	_ = s.Upload(ctx, "a.txt", strings.NewReader("a"))
	if ok, _ := s.Exists(ctx, "a.txt"); !ok {
		t.Fatal("expected a.txt to exist")
	}
	if err := s.Delete(ctx, "a.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := s.Exists(ctx, "a.txt"); ok {
		t.Fatal("expected a.txt to be gone")
	}
	if err := s.Delete(ctx, "a.txt"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestPathsStayUnderBase(t *testing.T) {
	root := t.TempDir()
	base := filepath.Join(root, "base")
	s, _ := NewStorage(base)

	if err := s.Upload(context.Background(), "../escape.txt", strings.NewReader("x")); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "escape.txt")); !os.IsNotExist(err) {
		t.Fatalf("file escaped base directory")
	}
	if _, err := os.Stat(filepath.Join(base, "escape.txt")); err != nil {
		t.Fatalf("expected file under base: %v", err)
	}
}

func TestList(t *testing.T) {
	s, _ := NewStorage(t.TempDir())
	ctx := context.Background()
	for _, p := range []string{"models/b.json", "models/a.json", "other.json"} {
		_ = s.Upload(ctx, p, strings.NewReader(p))
	}

	files, err := s.List(ctx, "models/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("len = %d, want 2", len(files))
	}
	if files[0].Path != "models/a.json" || files[1].Path != "models/b.json" {
		t.Errorf("paths = %s, %s", files[0].Path, files[1].Path)
	}
	if files[0].Size != int64(len("models/a.json")) {
		t.Errorf("size = %d", files[0].Size)
	}
}

func TestFactoryRegistered(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.New(storage.Config{Provider: storage.ProviderLocal, BasePath: dir}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := s.(*Storage); !ok {
		t.Fatalf("got %T, want *local.Storage", s)
	}
}
