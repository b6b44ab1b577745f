// Package whispercpp backs the local engine with whisper.cpp ggml models.
//
// Source resolves a model file in a models directory, downloading it from
// the published catalog when allowed, and loads it through the whisper.cpp
// Go bindings. Each transcription runs in a fresh whisper context so the
// loaded model can be shared across requests.
package whispercpp
