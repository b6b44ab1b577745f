// Package models catalogs the published whisper.cpp ggml models and
// downloads them into a local models directory.
package models

import (
	"os"
	"path/filepath"
)

// BaseURL is where the ggml model files are published.
const BaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

// DefaultModel is used when no model is configured.
const DefaultModel = "ggml-base.en.bin"

// Model describes a downloadable ggml model file.
type Model struct {
	Name      string // file name, e.g. "ggml-tiny.en.bin"
	Label     string
	Size      string
	SizeBytes int64 // estimate used for progress when the server omits Content-Length
	URL       string
}

// Catalog lists the models that can be fetched by name.
var Catalog = []Model{
	entry("ggml-tiny.en.bin", "Tiny English", "39 MB", 39_000_000),
	entry("ggml-tiny.bin", "Tiny Multilingual", "39 MB", 39_000_000),
	entry("ggml-base.en.bin", "Base English", "142 MB", 142_000_000),
	entry("ggml-base.bin", "Base Multilingual", "142 MB", 142_000_000),
	entry("ggml-small.en.bin", "Small English", "466 MB", 466_000_000),
	entry("ggml-small.bin", "Small Multilingual", "466 MB", 466_000_000),
	entry("ggml-medium.bin", "Medium Multilingual", "1.5 GB", 1_500_000_000),
	entry("ggml-large-v3.bin", "Large V3 Multilingual", "3.0 GB", 3_000_000_000),
	entry("ggml-large-v3-turbo.bin", "Large V3 Turbo", "1.6 GB", 1_600_000_000),
}

func entry(name, label, size string, bytes int64) Model {
	return Model{Name: name, Label: label, Size: size, SizeBytes: bytes, URL: BaseURL + name}
}

// Lookup returns the catalog entry for name.
func Lookup(name string) (Model, bool) {
	for _, m := range Catalog {
		if m.Name == name {
			return m, true
		}
	}
	return Model{}, false
}

// Path returns where model name lives inside modelsDir.
func Path(modelsDir, name string) string {
	return filepath.Join(modelsDir, name)
}

// IsDownloaded reports whether a non-empty regular file for name exists in
// modelsDir.
func IsDownloaded(modelsDir, name string) bool {
	if modelsDir == "" || name == "" {
		return false
	}
	info, err := os.Stat(Path(modelsDir, name))
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Size() > 0
}
