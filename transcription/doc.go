// Package transcription defines the speech-to-text capability contract and
// dispatches requests to the backend a model descriptor names.
//
// # Backends
//
//   - transcription/local: on-device inference with lazy model lifecycle
//   - transcription/cloud: OpenAI-compatible HTTP transcription endpoints
//
// # Usage
//
//	router := transcription.NewRouter()
//	router.Register(transcription.BackendLocal, localEngine)
//	router.Register(transcription.BackendCloud, cloudEngine)
//	text, err := router.Transcribe(ctx, "/tmp/rec.wav", model)
package transcription
