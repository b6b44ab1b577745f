package encryption

import (
	"strings"
	"testing"
)

func TestSealOpen(t *testing.T) {
	for _, alg := range []Algorithm{AlgorithmAESGCM, AlgorithmChaCha20} {
		t.Run(string(alg), func(t *testing.T) {
			s, err := New("passphrase", WithAlgorithm(alg))
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			sealed, err := s.Seal("sk-test")
			if err != nil {
				t.Fatalf("Seal: %v", err)
			}
			if !strings.HasPrefix(sealed, "enc:"+string(alg)+":") {
				t.Errorf("sealed = %q", sealed)
			}
			if strings.Contains(sealed, "sk-test") {
				t.Error("sealed value contains plaintext")
			}
			got, err := s.Open(sealed)
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if got != "sk-test" {
				t.Errorf("Open = %q", got)
			}
		})
	}
}

func TestSealUsesFreshNonce(t *testing.T) {
	s, _ := New("passphrase")
	a, _ := s.Seal("same")
	b, _ := s.Seal("same")
	if a == b {
		t.Error("two seals of the same value are identical")
	}
}

func TestOpenAcrossAlgorithms(t *testing.T) {
	chacha, _ := New("passphrase", WithAlgorithm(AlgorithmChaCha20))
	sealed, _ := chacha.Seal("key")

	gcm, _ := New("passphrase")
	got, err := gcm.Open(sealed)
	if err != nil || got != "key" {
		t.Fatalf("Open = %q, %v", got, err)
	}
}

func TestOpenPlaintextPassesThrough(t *testing.T) {
	s, _ := New("passphrase")
	got, err := s.Open("sk-legacy")
	if err != nil || got != "sk-legacy" {
		t.Fatalf("Open = %q, %v", got, err)
	}
	if sealed, _ := s.Seal(""); sealed != "" {
		t.Errorf("Seal(\"\") = %q", sealed)
	}
}

func TestOpenErrors(t *testing.T) {
	s, _ := New("passphrase")
	other, _ := New("other")
	sealed, _ := other.Seal("key")

	tests := []struct {
		name  string
		value string
	}{
		{"wrong passphrase", sealed},
		{"malformed", "enc:nocolon"},
		{"unknown algorithm", "enc:rot13:aGVsbG8="},
		{"bad base64", "enc:aes-256-gcm:!!!"},
		{"too short", "enc:aes-256-gcm:AAE="},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Open(tt.value); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("empty passphrase accepted")
	}
	if _, err := New("p", WithAlgorithm("des")); err == nil {
		t.Error("unknown algorithm accepted")
	}
}
