// Package local runs transcription on-device.
//
// The model is loaded lazily on the first request and released right after
// each transcription so its memory is returned between recordings. Every
// load, transcribe, release cycle runs under one per-engine lock: a release
// scheduled by one cycle can never close the model under a later one, and it
// is skipped entirely when a later cycle has already started.
package local
