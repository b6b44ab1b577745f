// Package cloud implements transcription.Engine against OpenAI-compatible
// HTTP transcription endpoints.
//
// The engine posts the recorded WAV file as multipart/form-data with the
// model name and a bearer token, and reads the "text" field of the JSON
// response. Every error it returns is an *errors.AppError from the
// transcription taxonomy, so callers can render it with errors.Describe.
package cloud
