package vad

import (
	"sort"

	"github.com/kbukum/speechkit/audio"
)

// Segment is a half-open span [Start, End) of sample offsets.
type Segment struct {
	Start int
	End   int
}

// Len returns the number of samples in the segment.
func (s Segment) Len() int { return s.End - s.Start }

// Normalize clamps segments to [0, n), drops empty ones, sorts them by start
// and merges overlapping or touching spans.
func Normalize(segs []Segment, n int) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		s.Start = max(s.Start, 0)
		s.End = min(s.End, n)
		if s.End > s.Start {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })

	merged := out[:0]
	for _, s := range out {
		if last := len(merged) - 1; last >= 0 && s.Start <= merged[last].End {
			merged[last].End = max(merged[last].End, s.End)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// Concat joins the samples covered by segs in order. Segments must be
// normalized against buf.
func Concat(buf audio.Buffer, segs []Segment) audio.Buffer {
	total := 0
	for _, s := range segs {
		total += s.Len()
	}
	out := make(audio.Buffer, 0, total)
	for _, s := range segs {
		out = append(out, buf[s.Start:s.End]...)
	}
	return out
}
