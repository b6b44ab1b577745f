// Package customengine manages user-defined OpenAI-compatible cloud
// engines: validation, persistence and connectivity checks.
//
// The whole ordered list is stored as one JSON document under StoreKey in a
// storage.Storage, so any provider (local file, memory, S3) can hold it.
package customengine
