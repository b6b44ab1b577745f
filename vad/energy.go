package vad

import (
	"context"
	"math"

	"github.com/kbukum/speechkit/audio"
)

// contextCheckFrames is how often Detect polls ctx.
const contextCheckFrames = 512

// EnergyDetector classifies fixed-length frames by smoothed RMS energy and
// turns the voiced frames into segments with start/stop hysteresis.
type EnergyDetector struct {
	cal       Calibration
	threshold float64
}

// NewEnergyDetector creates a detector. threshold is in [0, 1].
func NewEnergyDetector(cal Calibration, threshold float64) (*EnergyDetector, error) {
	if err := cal.Validate(); err != nil {
		return nil, err
	}
	return &EnergyDetector{cal: cal, threshold: threshold}, nil
}

// EnergyLoader loads the calibration from the model directory and builds an
// EnergyDetector.
func EnergyLoader() Loader {
	return LoaderFunc(func(_ context.Context, modelDir string, threshold float64) (Detector, error) {
		cal, err := LoadCalibration(modelDir)
		if err != nil {
			return nil, err
		}
		return NewEnergyDetector(cal, threshold)
	})
}

func msToSamples(ms int) int {
	return ms * audio.SampleRate / 1000
}

// Detect implements Detector.
func (d *EnergyDetector) Detect(ctx context.Context, buf audio.Buffer) ([]Segment, error) {
	frameLen := msToSamples(d.cal.FrameMs)
	if frameLen <= 0 || len(buf) == 0 {
		return nil, nil
	}
	minSpeechFrames := ceilDiv(msToSamples(d.cal.MinSpeechMs), frameLen)
	minSilenceFrames := ceilDiv(msToSamples(d.cal.MinSilenceMs), frameLen)

	var (
		segs         []Segment
		smoothed     float64
		inSpeech     bool
		voicedStart  = -1
		silenceStart = -1
		segStart     int
	)

	frames := ceilDiv(len(buf), frameLen)
	for i := 0; i < frames; i++ {
		if i%contextCheckFrames == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		start := i * frameLen
		end := min(start+frameLen, len(buf))
		smoothed = d.cal.Smoothing*rms(buf[start:end]) + (1-d.cal.Smoothing)*smoothed
		voiced := d.probability(smoothed) >= d.threshold

		if !inSpeech {
			if !voiced {
				voicedStart = -1
				continue
			}
			if voicedStart < 0 {
				voicedStart = i
			}
			if i-voicedStart+1 >= minSpeechFrames {
				inSpeech = true
				segStart = voicedStart * frameLen
				silenceStart = -1
			}
			continue
		}

		if voiced {
			silenceStart = -1
			continue
		}
		if silenceStart < 0 {
			silenceStart = i
		}
		if i-silenceStart+1 >= minSilenceFrames {
			segs = append(segs, Segment{Start: segStart, End: silenceStart * frameLen})
			inSpeech = false
			voicedStart = -1
			silenceStart = -1
		}
	}
	if inSpeech {
		end := len(buf)
		if silenceStart >= 0 {
			end = silenceStart * frameLen
		}
		segs = append(segs, Segment{Start: segStart, End: end})
	}

	pad := msToSamples(d.cal.SpeechPadMs)
	for i := range segs {
		segs[i].Start -= pad
		segs[i].End += pad
	}
	return Normalize(segs, len(buf)), nil
}

// probability maps RMS linearly from (MinVolume, MaxExpectedRMS] onto (0, 1].
func (d *EnergyDetector) probability(v float64) float64 {
	if v <= d.cal.MinVolume {
		return 0
	}
	p := (v - d.cal.MinVolume) / (d.cal.MaxExpectedRMS - d.cal.MinVolume)
	return math.Min(p, 1)
}

func rms(frame audio.Buffer) float64 {
	if len(frame) == 0 {
		return 0
	}
	var sum float64
	for _, s := range frame {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(frame)))
}

func ceilDiv(a, b int) int {
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
