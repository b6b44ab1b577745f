package customengine

import (
	"context"
	"os"
	"time"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/errors"
	"github.com/kbukum/speechkit/logger"
)

// MsgConnectionOK is reported when a test transcription succeeds.
const MsgConnectionOK = "Connection successful! Endpoint is working correctly."

const testClipDuration = time.Second

// TestEndpoint transcribes one second of silence with cfg and reports
// whether the endpoint answered like an OpenAI-compatible service. The
// message is the remediation text on failure.
func (r *Registry) TestEndpoint(ctx context.Context, cfg Config) (ok bool, message string) {
	if r.engine == nil {
		return false, errors.Describe(errors.NotInitialized("no cloud engine configured"))
	}

	f, err := os.CreateTemp("", "test_audio_*.wav")
	if err != nil {
		return false, "Failed to write test audio file: " + err.Error()
	}
	path := f.Name()
	defer func() { _ = os.Remove(path) }()

	_, err = f.Write(audio.Silence(audio.SampleRate, testClipDuration))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return false, "Failed to write test audio file: " + err.Error()
	}

	if _, err := r.engine.Transcribe(ctx, path, cfg.Model()); err != nil {
		r.log.Warn("custom engine test failed", logger.Fields(
			"name", cfg.Name, "endpoint", cfg.Endpoint, "error", err.Error()))
		return false, errors.Describe(err)
	}
	r.log.Info("custom engine test succeeded", logger.Fields("name", cfg.Name))
	return true, MsgConnectionOK
}
