package transcription

import (
	"context"

	"github.com/kbukum/speechkit/provider"
)

// Engine is the capability contract every backend implements.
type Engine interface {
	provider.Provider // Name() and IsAvailable()

	// LoadModel prepares the engine ahead of the first request. Engines
	// without a warm-up step return nil.
	LoadModel(ctx context.Context) error

	// Transcribe converts the audio file at audioPath to text.
	Transcribe(ctx context.Context, audioPath string, model Model) (string, error)

	// Cleanup releases everything the engine holds. The engine stays usable
	// and reloads on the next request.
	Cleanup()
}
