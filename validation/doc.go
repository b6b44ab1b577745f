// Package validation collects field-level validation failures.
//
// Programmatic checks keep the caller's exact wording, so messages can be
// shown to users verbatim:
//
//	v := validation.New()
//	v.Required("name", cfg.Name, "Name cannot be empty")
//	v.URL("endpoint", cfg.Endpoint, "API endpoint must be a valid URL")
//	if err := v.Err(); err != nil { ... }
//
// Struct tags are checked with go-playground/validator:
//
//	type Record struct {
//	    ID string `json:"id" validate:"required,uuid"`
//	}
//	err := validation.Validate(rec)
package validation
