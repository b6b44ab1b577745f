// Package ffmpeg converts arbitrary audio files into the 16 kHz mono WAV
// layout the transcription engines expect.
package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kbukum/speechkit/audio"
	"github.com/kbukum/speechkit/logger"
	"github.com/kbukum/speechkit/process"
)

// DefaultBinary is looked up through PATH.
const DefaultBinary = "ffmpeg"

// Converter shells out to ffmpeg.
type Converter struct {
	Binary string
	log    *logger.Logger
}

// New returns a converter for binary, or DefaultBinary when empty.
func New(binary string, log *logger.Logger) *Converter {
	if binary == "" {
		binary = DefaultBinary
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Converter{Binary: binary, log: log}
}

// Available reports whether the ffmpeg binary can be executed.
func (c *Converter) Available() bool {
	return process.Available(c.Binary)
}

// NeedsConversion reports whether path is not already a .wav file.
func NeedsConversion(path string) bool {
	return !strings.EqualFold(filepath.Ext(path), ".wav")
}

// Convert writes in as canonical PCM WAV to out. Metadata is stripped and
// bitexact output requested so the header is exactly audio.HeaderSize bytes.
func (c *Converter) Convert(ctx context.Context, in, out string) error {
	res, err := process.Run(ctx, process.Command{
		Binary: c.Binary,
		Args:   args(in, out),
	})
	if err != nil {
		if res != nil {
			c.log.Debug("ffmpeg output", logger.Fields("stderr", res.StderrTail(10)))
		}
		return fmt.Errorf("ffmpeg conversion failed: %w", err)
	}
	c.log.Debug("converted audio", logger.Fields("input", in, "duration", res.Duration))
	return nil
}

// ConvertTemp converts in into a new temp file. The caller removes the
// returned path.
func (c *Converter) ConvertTemp(ctx context.Context, in string) (string, error) {
	f, err := os.CreateTemp("", "speechkit-*.wav")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	_ = f.Close()
	if err := c.Convert(ctx, in, path); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func args(in, out string) []string {
	return []string{
		"-nostdin", "-hide_banner", "-loglevel", "error",
		"-i", in,
		"-ar", strconv.Itoa(audio.SampleRate),
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-map_metadata", "-1",
		"-fflags", "+bitexact",
		"-flags:a", "+bitexact",
		"-f", "wav",
		"-y", out,
	}
}
