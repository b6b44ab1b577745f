package local

import (
	"context"

	"github.com/kbukum/speechkit/audio"
)

// Model is a loaded speech recognition model.
type Model interface {
	// Transcribe runs inference over 16 kHz mono samples.
	Transcribe(ctx context.Context, samples audio.Buffer) (string, error)
	// Close frees the model's memory.
	Close() error
}

// ModelSource acquires a Model, downloading or reading it as configured.
type ModelSource interface {
	// Load returns a ready model. On error, a non-nil Model is a partial
	// allocation the caller closes.
	Load(ctx context.Context) (Model, error)
	// Ready reports whether Load can be attempted without user action: the
	// model is on disk or can be downloaded.
	Ready() bool
	// Describe names the model and where it comes from, for logs.
	Describe() string
}
