package cipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
)

// ErrInvalidToken is an exported constant or variable used by the lifecycle engine.
var ErrInvalidToken = errors.New("invalid token")

// Cipher defines a public type used by dirauth APIs.
//
// Cipher instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Cipher struct {
	aead cipher.AEAD
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New(secretKey string) (*Cipher, error) {
	if secretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	// The configured secret is free-form; the AES-256 key is its SHA-256.
	key := sha256.Sum256([]byte(secretKey))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Cipher{aead: aead}, nil
}

// Encrypt describes the encrypt operation and its observable behavior.
//
// Encrypt may return an error when input validation, dependency calls, or security checks fail.
// Encrypt does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(sealed), nil
}

// Decrypt describes the decrypt operation and its observable behavior.
//
// Decrypt fails with [ErrInvalidToken] when the ciphertext is malformed,
// truncated, tampered with, or was produced under a different key. Callers must
// treat all of those identically to "token not found" and never surface the
// distinction to clients.
func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	raw, err := hex.DecodeString(ciphertext)
	if err != nil {
		return "", ErrInvalidToken
	}
	if len(raw) < c.aead.NonceSize() {
		return "", ErrInvalidToken
	}

	nonce := raw[:c.aead.NonceSize()]
	sealed := raw[c.aead.NonceSize():]

	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrInvalidToken
	}

	return string(plain), nil
}
