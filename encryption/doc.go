// Package encryption seals secrets such as cloud API keys before they are
// written to the settings store.
//
// Sealed values carry a prefix naming the cipher, so plaintext written by
// older versions still opens unchanged:
//
//	s, err := encryption.New(passphrase, encryption.WithAlgorithm(encryption.AlgorithmChaCha20))
//	stored, err := s.Seal(apiKey)   // "enc:chacha20-poly1305:..."
//	apiKey, err = s.Open(stored)
package encryption
