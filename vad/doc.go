// Package vad narrows long recordings down to the spans that contain speech
// before they reach the local model.
//
// Segmentation never fails a transcription: every failure path returns the
// full input, and the reason is reported on the Result.
package vad
