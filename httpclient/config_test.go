package httpclient

import (
	"testing"
	"time"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.UserAgent != "speechkit" {
		t.Errorf("expected default user agent, got %q", cfg.UserAgent)
	}
}

func TestConfig_ApplyDefaults_PreservesExisting(t *testing.T) {
	cfg := Config{Timeout: 10 * time.Second, UserAgent: "cli"}
	cfg.ApplyDefaults()
	if cfg.Timeout != 10*time.Second || cfg.UserAgent != "cli" {
		t.Errorf("defaults overwrote explicit values: %+v", cfg)
	}
}

func TestConfig_Validate_InvalidTimeout(t *testing.T) {
	cfg := Config{Timeout: -1}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative timeout")
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	if cfg.MaxAttempts <= 0 {
		t.Error("expected positive MaxAttempts")
	}
	if cfg.RetryIf == nil || cfg.RetryIf(NewValidationError("x")) {
		t.Error("expected RetryIf to reject validation errors")
	}
}
