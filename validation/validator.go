package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
)

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is returned when one or more checks failed.
type Error struct {
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Messages(), "; ")
}

// Messages returns the failure messages in check order.
func (e *Error) Messages() []string {
	out := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		out[i] = f.Message
	}
	return out
}

// Validator collects field errors. Checks are chainable.
type Validator struct {
	errors []FieldError
}

// New creates an empty Validator.
func New() *Validator {
	return &Validator{}
}

// AddError records a failure for field.
func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any check failed.
func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

// Errors returns the collected field errors.
func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Messages returns the collected messages in check order.
func (v *Validator) Messages() []string {
	if !v.HasErrors() {
		return nil
	}
	return (&Error{Fields: v.errors}).Messages()
}

// Err returns an *Error when any check failed, nil otherwise.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return &Error{Fields: append([]FieldError(nil), v.errors...)}
}

// Required fails when value is empty after trimming whitespace.
func (v *Validator) Required(field, value, message string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, message)
	}
	return v
}

// URL fails when a non-empty value does not parse as an absolute URL with a
// scheme and a host. Empty values are left to Required.
func (v *Validator) URL(field, value, message string) *Validator {
	value = strings.TrimSpace(value)
	if value == "" {
		return v
	}
	if !IsURL(value) {
		v.AddError(field, message)
	}
	return v
}

// RequiredUUID fails unless value is a valid, non-nil UUID.
func (v *Validator) RequiredUUID(field, value string) *Validator {
	parsed, err := uuid.Parse(strings.TrimSpace(value))
	switch {
	case strings.TrimSpace(value) == "":
		v.AddError(field, field+" is required")
	case err != nil:
		v.AddError(field, field+" must be a valid UUID")
	case parsed == uuid.Nil:
		v.AddError(field, field+" must not be empty")
	}
	return v
}

// OneOf fails when a non-empty value is not in allowed.
func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
	return v
}

// Check records message when ok is false.
func (v *Validator) Check(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}

// IsURL reports whether s parses with both a scheme and a host.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
