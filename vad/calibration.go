package vad

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// CalibrationFile is the calibration file name inside the model directory.
const CalibrationFile = "vad.yaml"

// Calibration tunes the energy detector for a microphone and room.
type Calibration struct {
	// FrameMs is the analysis window length.
	FrameMs int `yaml:"frame_ms"`
	// MinVolume is the RMS at or below which a frame is silence.
	MinVolume float64 `yaml:"min_volume"`
	// MaxExpectedRMS maps to probability 1.
	MaxExpectedRMS float64 `yaml:"max_expected_rms"`
	// Smoothing is the exponential smoothing factor applied to frame RMS.
	Smoothing float64 `yaml:"smoothing"`
	// MinSpeechMs is how long voiced frames must last to open a segment.
	MinSpeechMs int `yaml:"min_speech_ms"`
	// MinSilenceMs is how long unvoiced frames must last to close a segment.
	MinSilenceMs int `yaml:"min_silence_ms"`
	// SpeechPadMs is added on both sides of every segment.
	SpeechPadMs int `yaml:"speech_pad_ms"`
}

// DefaultCalibration returns values suited to a close-talking microphone.
func DefaultCalibration() Calibration {
	return Calibration{
		FrameMs:        30,
		MinVolume:      0.01,
		MaxExpectedRMS: 0.5,
		Smoothing:      0.3,
		MinSpeechMs:    250,
		MinSilenceMs:   500,
		SpeechPadMs:    100,
	}
}

// Validate checks ranges.
func (c Calibration) Validate() error {
	switch {
	case c.FrameMs <= 0:
		return fmt.Errorf("frame_ms must be positive, got %d", c.FrameMs)
	case c.MinVolume < 0:
		return fmt.Errorf("min_volume must not be negative, got %v", c.MinVolume)
	case c.MaxExpectedRMS <= c.MinVolume:
		return fmt.Errorf("max_expected_rms (%v) must exceed min_volume (%v)", c.MaxExpectedRMS, c.MinVolume)
	case c.Smoothing <= 0 || c.Smoothing > 1:
		return fmt.Errorf("smoothing must be in (0, 1], got %v", c.Smoothing)
	case c.MinSpeechMs < 0 || c.MinSilenceMs < 0 || c.SpeechPadMs < 0:
		return fmt.Errorf("durations must not be negative")
	}
	return nil
}

// LoadCalibration reads <dir>/vad.yaml. Keys missing from the file keep
// their default values. A missing directory or file is an error.
func LoadCalibration(dir string) (Calibration, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Calibration{}, fmt.Errorf("vad model directory: %w", err)
	}
	if !info.IsDir() {
		return Calibration{}, fmt.Errorf("vad model directory %s is not a directory", dir)
	}

	data, err := os.ReadFile(filepath.Join(dir, CalibrationFile))
	if err != nil {
		return Calibration{}, fmt.Errorf("vad calibration: %w", err)
	}

	cal := DefaultCalibration()
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return Calibration{}, fmt.Errorf("vad calibration %s: %w", CalibrationFile, err)
	}
	if err := cal.Validate(); err != nil {
		return Calibration{}, fmt.Errorf("vad calibration %s: %w", CalibrationFile, err)
	}
	return cal, nil
}
