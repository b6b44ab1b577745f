package validation

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestValidatorRequired(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"groq", false},
		{"", true},
		{"   ", true},
		{"\t\n", true},
	}
	for _, tt := range tests {
		v := New().Required("name", tt.value, "Name cannot be empty")
		if v.HasErrors() != tt.wantErr {
			t.Errorf("Required(%q): HasErrors = %v, want %v", tt.value, v.HasErrors(), tt.wantErr)
		}
	}
}

func TestValidatorURL(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{"https://api.openai.com/v1/audio/transcriptions", false},
		{"http://localhost:8080/inference", false},
		{"", false},
		{"not a url", true},
		{"api.openai.com/v1", true},
		{"https://", true},
		{"/relative/path", true},
	}
	for _, tt := range tests {
		v := New().URL("endpoint", tt.value, "API endpoint must be a valid URL")
		if v.HasErrors() != tt.wantErr {
			t.Errorf("URL(%q): HasErrors = %v, want %v", tt.value, v.HasErrors(), tt.wantErr)
		}
	}
}

func TestValidatorMessagesKeepOrderAndWording(t *testing.T) {
	v := New().
		Required("name", "", "Name cannot be empty").
		Required("display_name", "", "Display name cannot be empty").
		Check(false, "name", "A model with this name already exists")

	want := []string{
		"Name cannot be empty",
		"Display name cannot be empty",
		"A model with this name already exists",
	}
	if got := v.Messages(); !slices.Equal(got, want) {
		t.Errorf("Messages() = %v, want %v", got, want)
	}

	err := v.Err()
	var vErr *Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if !slices.Equal(vErr.Messages(), want) {
		t.Errorf("Error.Messages() = %v", vErr.Messages())
	}
	if !strings.Contains(err.Error(), "Name cannot be empty; Display name cannot be empty") {
		t.Errorf("unexpected error string %q", err.Error())
	}
}

func TestValidatorNoErrors(t *testing.T) {
	v := New().Required("name", "x", "msg").Check(true, "f", "msg")
	if v.Err() != nil {
		t.Error("expected nil error")
	}
	if v.Messages() != nil {
		t.Error("expected nil messages")
	}
}

func TestValidatorRequiredUUID(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{uuid.New().String(), false},
		{"", true},
		{"not-a-uuid", true},
		{uuid.Nil.String(), true},
	}
	for _, tt := range tests {
		v := New().RequiredUUID("id", tt.value)
		if v.HasErrors() != tt.wantErr {
			t.Errorf("RequiredUUID(%q): HasErrors = %v, want %v", tt.value, v.HasErrors(), tt.wantErr)
		}
	}
}

func TestValidatorOneOf(t *testing.T) {
	if New().OneOf("backend", "cloud", []string{"local", "cloud"}).HasErrors() {
		t.Error("expected cloud to be allowed")
	}
	if !New().OneOf("backend", "remote", []string{"local", "cloud"}).HasErrors() {
		t.Error("expected remote to be rejected")
	}
}

type record struct {
	ID        string  `json:"id" validate:"required,uuid"`
	Endpoint  string  `json:"endpoint" validate:"required,url"`
	Threshold float64 `json:"threshold" validate:"gte=0,lte=1"`
	ModelName string  `validate:"required"`
}

func TestStructValidateValid(t *testing.T) {
	r := record{ID: uuid.New().String(), Endpoint: "https://example.com/v1", Threshold: 0.7, ModelName: "whisper-1"}
	if err := Validate(r); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	err := Validate(record{ID: "x", Threshold: 2})
	var vErr *Error
	if !errors.As(err, &vErr) {
		t.Fatalf("expected *Error, got %v", err)
	}

	fields := make(map[string]string)
	for _, f := range vErr.Fields {
		fields[f.Field] = f.Message
	}
	if fields["id"] != "id must be a valid UUID" {
		t.Errorf("id: %q", fields["id"])
	}
	if fields["endpoint"] != "endpoint is required" {
		t.Errorf("endpoint: %q", fields["endpoint"])
	}
	if fields["threshold"] != "threshold must be less than or equal to 1" {
		t.Errorf("threshold: %q", fields["threshold"])
	}
	if fields["model_name"] != "model_name is required" {
		t.Errorf("model_name: %q", fields["model_name"])
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"ModelName":   "model_name",
		"ID":          "i_d",
		"displayName": "display_name",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
