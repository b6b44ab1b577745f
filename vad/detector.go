package vad

import (
	"context"

	"github.com/kbukum/speechkit/audio"
)

// Detector finds speech in a buffer.
type Detector interface {
	// Detect returns ordered, non-overlapping speech segments. An empty
	// result means no speech was found.
	Detect(ctx context.Context, buf audio.Buffer) ([]Segment, error)
}

// Loader builds a Detector from a model directory. threshold is the voice
// probability at or above which a frame counts as speech.
type Loader interface {
	Load(ctx context.Context, modelDir string, threshold float64) (Detector, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, modelDir string, threshold float64) (Detector, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, modelDir string, threshold float64) (Detector, error) {
	return f(ctx, modelDir, threshold)
}
