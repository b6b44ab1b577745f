package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

// Algorithm names an AEAD cipher.
type Algorithm string

const (
	// AlgorithmAESGCM is AES-256-GCM, the default.
	AlgorithmAESGCM Algorithm = "aes-256-gcm"
	// AlgorithmChaCha20 is ChaCha20-Poly1305, faster without AES-NI.
	AlgorithmChaCha20 Algorithm = "chacha20-poly1305"
)

const prefix = "enc:"

// Sealer encrypts and decrypts stored secrets.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(stored string) (string, error)
}

// Option configures New.
type Option func(*options)

type options struct {
	algorithm Algorithm
}

// WithAlgorithm selects the cipher used by Seal.
func WithAlgorithm(alg Algorithm) Option {
	return func(o *options) { o.algorithm = alg }
}

// New derives a 256-bit key from passphrase with SHA-256.
func New(passphrase string, opts ...Option) (*AEADSealer, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("encryption: passphrase is required")
	}
	o := &options{algorithm: AlgorithmAESGCM}
	for _, opt := range opts {
		opt(o)
	}

	key := sha256.Sum256([]byte(passphrase))
	s := &AEADSealer{algorithm: o.algorithm, ciphers: make(map[Algorithm]cipher.AEAD, 2)}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	if s.ciphers[AlgorithmAESGCM], err = cipher.NewGCM(block); err != nil {
		return nil, fmt.Errorf("create GCM: %w", err)
	}
	if s.ciphers[AlgorithmChaCha20], err = chacha20poly1305.New(key[:]); err != nil {
		return nil, fmt.Errorf("create chacha20: %w", err)
	}
	if _, ok := s.ciphers[o.algorithm]; !ok {
		return nil, fmt.Errorf("encryption: unknown algorithm %q", o.algorithm)
	}
	return s, nil
}

// AEADSealer seals with one algorithm and opens values sealed by any
// supported algorithm under the same passphrase.
type AEADSealer struct {
	algorithm Algorithm
	ciphers   map[Algorithm]cipher.AEAD
}

// Seal encrypts plaintext. The empty string stays empty.
func (s *AEADSealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	aead := s.ciphers[s.algorithm]
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return prefix + string(s.algorithm) + ":" + base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a value produced by Seal. Values without the prefix are
// returned as they are.
func (s *AEADSealer) Open(stored string) (string, error) {
	if !IsSealed(stored) {
		return stored, nil
	}
	alg, payload, ok := strings.Cut(strings.TrimPrefix(stored, prefix), ":")
	if !ok {
		return "", fmt.Errorf("decrypt: malformed value")
	}
	aead, ok := s.ciphers[Algorithm(alg)]
	if !ok {
		return "", fmt.Errorf("decrypt: unknown algorithm %q", alg)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	n := aead.NonceSize()
	if len(data) < n {
		return "", fmt.Errorf("ciphertext too short")
	}
	plain, err := aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", fmt.Errorf("decrypt: %w", err)
	}
	return string(plain), nil
}

// IsSealed reports whether stored was produced by Seal.
func IsSealed(stored string) bool {
	return strings.HasPrefix(stored, prefix)
}
