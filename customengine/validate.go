package customengine

import (
	"strings"

	"github.com/kbukum/speechkit/validation"
)

// Validation messages, in the order they are reported.
const (
	MsgNameEmpty        = "Name cannot be empty"
	MsgDisplayNameEmpty = "Display name cannot be empty"
	MsgEndpointEmpty    = "API endpoint cannot be empty"
	MsgEndpointInvalid  = "API endpoint must be a valid URL"
	MsgAPIKeyEmpty      = "API key cannot be empty"
	MsgModelNameEmpty   = "Model name cannot be empty"
	MsgNameTaken        = "A model with this name already exists"
)

// ValidationError lists every problem found with a Config.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "invalid custom engine: " + strings.Join(e.Messages, "; ")
}

// validate checks cfg against existing. Names are unique, compared
// case-sensitively; the entry with ID excludingID is ignored so an engine
// can keep its own name on update.
func validate(cfg Config, existing []Config, excludingID string) []string {
	v := validation.New().
		Required("name", cfg.Name, MsgNameEmpty).
		Required("display_name", cfg.DisplayName, MsgDisplayNameEmpty).
		Required("endpoint", cfg.Endpoint, MsgEndpointEmpty).
		URL("endpoint", cfg.Endpoint, MsgEndpointInvalid).
		Required("api_key", cfg.APIKey, MsgAPIKeyEmpty).
		Required("model_name", cfg.ModelName, MsgModelNameEmpty)

	taken := false
	for _, c := range existing {
		if c.Name == cfg.Name && (excludingID == "" || c.ID != excludingID) {
			taken = true
			break
		}
	}
	v.Check(!taken, "name", MsgNameTaken)

	return v.Messages()
}
