package customengine

import (
	"github.com/google/uuid"

	"github.com/kbukum/speechkit/transcription"
)

// Config is a user-defined cloud engine.
type Config struct {
	ID          string `json:"id" validate:"required,uuid"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Endpoint    string `json:"apiEndpoint"`
	APIKey      string `json:"apiKey"`
	ModelName   string `json:"modelName"`
}

// NewConfig creates a Config with a fresh ID.
func NewConfig(name, displayName, endpoint, apiKey, modelName string) Config {
	return Config{
		ID:          uuid.NewString(),
		Name:        name,
		DisplayName: displayName,
		Endpoint:    endpoint,
		APIKey:      apiKey,
		ModelName:   modelName,
	}
}

// Model returns the descriptor used to transcribe with this engine.
func (c Config) Model() transcription.Model {
	return transcription.Model{
		ID:          c.ID,
		DisplayName: c.DisplayName,
		Backend:     transcription.BackendCloud,
		Endpoint:    c.Endpoint,
		ModelName:   c.ModelName,
		APIKey:      c.APIKey,
	}
}
