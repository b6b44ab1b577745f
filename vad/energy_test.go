package vad

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/speechkit/audio"
)

// synth builds a buffer from (duration, amplitude) spans. Non-zero spans are
// a square wave, so their RMS equals the amplitude.
func synth(spans ...span) audio.Buffer {
	var buf audio.Buffer
	for _, s := range spans {
		n := int(s.d.Seconds() * audio.SampleRate)
		for i := 0; i < n; i++ {
			v := s.amp
			if i%2 == 1 {
				v = -v
			}
			buf = append(buf, v)
		}
	}
	return buf
}

type span struct {
	d   time.Duration
	amp float32
}

func TestEnergyDetectorFindsSpeech(t *testing.T) {
	det, err := NewEnergyDetector(DefaultCalibration(), DetectionThreshold)
	if err != nil {
		t.Fatal(err)
	}
	buf := synth(
		span{5 * time.Second, 0},
		span{5 * time.Second, 0.8},
		span{10 * time.Second, 0},
		span{5 * time.Second, 0.8},
	)

	segs, err := det.Detect(context.Background(), buf)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("expected 2 segments, got %v", segs)
	}

	sec := audio.SampleRate
	// onset lags by the smoothing, padding pulls the start back
	if segs[0].Start < 4*sec || segs[0].Start > 5*sec+sec/2 {
		t.Errorf("first segment start = %d", segs[0].Start)
	}
	if segs[0].End < 10*sec || segs[0].End > 11*sec {
		t.Errorf("first segment end = %d", segs[0].End)
	}
	if segs[1].End != len(buf) {
		t.Errorf("trailing speech should run to the end, got %d of %d", segs[1].End, len(buf))
	}
	if segs[0].End >= segs[1].Start {
		t.Errorf("segments overlap: %v", segs)
	}
}

func TestEnergyDetectorSilence(t *testing.T) {
	det, _ := NewEnergyDetector(DefaultCalibration(), DetectionThreshold)
	segs, err := det.Detect(context.Background(), synth(span{25 * time.Second, 0.001}))
	if err != nil {
		t.Fatal(err)
	}
	if len(segs) != 0 {
		t.Errorf("expected no segments, got %v", segs)
	}
}

func TestEnergyDetectorIgnoresShortBursts(t *testing.T) {
	det, _ := NewEnergyDetector(DefaultCalibration(), DetectionThreshold)
	// 60ms is shorter than the 250ms minimum speech duration
	buf := synth(span{time.Second, 0}, span{60 * time.Millisecond, 0.8}, span{time.Second, 0})
	segs, _ := det.Detect(context.Background(), buf)
	if len(segs) != 0 {
		t.Errorf("expected burst to be ignored, got %v", segs)
	}
}

func TestEnergyDetectorCanceled(t *testing.T) {
	det, _ := NewEnergyDetector(DefaultCalibration(), DetectionThreshold)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := det.Detect(ctx, synth(span{time.Second, 0.8})); err == nil {
		t.Fatal("expected context error")
	}
}

func TestLoadCalibration(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		if _, err := LoadCalibration(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadCalibration(t.TempDir())
		if err == nil || !strings.Contains(err.Error(), "calibration") {
			t.Fatalf("err = %v", err)
		}
	})

	t.Run("partial file keeps defaults", func(t *testing.T) {
		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, CalibrationFile), []byte("min_volume: 0.02\nspeech_pad_ms: 0\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		cal, err := LoadCalibration(dir)
		if err != nil {
			t.Fatalf("LoadCalibration: %v", err)
		}
		if cal.MinVolume != 0.02 || cal.SpeechPadMs != 0 {
			t.Errorf("overrides not applied: %+v", cal)
		}
		if cal.FrameMs != 30 {
			t.Errorf("FrameMs = %d, want default 30", cal.FrameMs)
		}
	})

	t.Run("invalid values", func(t *testing.T) {
		dir := t.TempDir()
		_ = os.WriteFile(filepath.Join(dir, CalibrationFile), []byte("frame_ms: 0\n"), 0o600)
		if _, err := LoadCalibration(dir); err == nil {
			t.Fatal("expected validation error")
		}
	})
}

func TestEnergyLoader(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, CalibrationFile), []byte("frame_ms: 20\n"), 0o600)
	det, err := EnergyLoader().Load(context.Background(), dir, 0.5)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ed, ok := det.(*EnergyDetector)
	if !ok {
		t.Fatalf("got %T", det)
	}
	if ed.threshold != 0.5 || ed.cal.FrameMs != 20 {
		t.Errorf("detector = %+v", ed)
	}
}
