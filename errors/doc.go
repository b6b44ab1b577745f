// Package errors provides the closed error taxonomy shared by every
// transcription backend.
//
// Each failure leaving an engine is an *AppError tagged with one ErrorCode
// and carrying a one-line remediation hint. Classify converts raw causes
// (HTTP status errors, transport failures, missing files) into the
// taxonomy; Describe renders the diagnostic string shown to users.
package errors
