package transcription

import "strings"

// BackendKind names the engine family that serves a model.
type BackendKind string

const (
	BackendLocal BackendKind = "local"
	BackendCloud BackendKind = "cloud"
)

// ParseBackendKind converts a config string to a BackendKind.
func ParseBackendKind(s string) (BackendKind, bool) {
	switch BackendKind(strings.ToLower(strings.TrimSpace(s))) {
	case BackendLocal:
		return BackendLocal, true
	case BackendCloud:
		return BackendCloud, true
	}
	return "", false
}

// Model describes a transcription model. It is a plain value; engines own
// any state associated with it.
type Model struct {
	// ID identifies the model, a uuid for custom cloud engines.
	ID string `json:"id"`
	// DisplayName is shown to users.
	DisplayName string `json:"display_name"`
	// Backend selects the engine.
	Backend BackendKind `json:"backend"`
	// Endpoint is the transcription URL (cloud only).
	Endpoint string `json:"endpoint,omitempty"`
	// ModelName is the backend's model identifier, e.g. "whisper-1" or "base.en".
	ModelName string `json:"model_name"`
	// APIKey is sent as a bearer token (cloud only).
	APIKey string `json:"-"`
	// Language is an optional ISO-639-1 hint.
	Language string `json:"language,omitempty"`
	// Prompt is optional context passed to the model.
	Prompt string `json:"prompt,omitempty"`
}

// Name returns DisplayName, falling back to ModelName.
func (m Model) Name() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.ModelName
}
