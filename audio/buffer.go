package audio

import "time"

// SampleRate is the only sample rate engines accept.
const SampleRate = 16000

// Buffer is a sequence of normalized mono samples in [-1, 1] at SampleRate.
// Operations return new buffers; a Buffer is never modified in place.
type Buffer []float32

// Duration returns the playback length of the buffer.
func (b Buffer) Duration() time.Duration {
	return time.Duration(len(b)) * time.Second / SampleRate
}

// Seconds returns the playback length in seconds.
func (b Buffer) Seconds() float64 {
	return float64(len(b)) / SampleRate
}
