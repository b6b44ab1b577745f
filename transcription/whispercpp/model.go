package whispercpp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/logger"
)

// model adapts a loaded whisper.Model to local.Model.
type model struct {
	model    whisper.Model
	language string
	threads  uint
	log      *logger.Logger
}

func (m *model) Transcribe(ctx context.Context, samples audio.Buffer) (string, error) {
	wctx, err := m.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("create whisper context: %w", err)
	}

	if m.language != "" {
		if err := wctx.SetLanguage(m.language); err != nil {
			m.log.Warn("language not supported by model", logger.Fields("language", m.language, "error", err.Error()))
		}
	}
	if m.threads > 0 {
		wctx.SetThreads(m.threads)
	}

	// whisper.cpp checks this before encoding each window; returning false
	// aborts the run.
	proceed := func() bool { return ctx.Err() == nil }
	if err := wctx.Process(samples, proceed, nil, nil); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("whisper process: %w", err)
	}

	var text strings.Builder
	for {
		seg, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read segment: %w", err)
		}
		text.WriteString(seg.Text)
	}
	return strings.TrimSpace(text.String()), nil
}

func (m *model) Close() error {
	return m.model.Close()
}
