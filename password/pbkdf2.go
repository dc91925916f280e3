package password

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"

	"golang.org/x/crypto/pbkdf2"
)

const (
	minIterations = 10_000
	minKeyLength  = 16
)

// Config defines a public type used by dirauth APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Iterations int
	KeyLength  int

	// Salt is derived from the service secret key, not per-record random
	// bytes. Changing it invalidates every stored digest.
	Salt []byte
}

// PBKDF2 defines a public type used by dirauth APIs.
//
// PBKDF2 instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type PBKDF2 struct {
	config Config
}

// NewPBKDF2 describes the newpbkdf2 operation and its observable behavior.
//
// NewPBKDF2 may return an error when input validation, dependency calls, or security checks fail.
// NewPBKDF2 does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewPBKDF2(cfg Config) (*PBKDF2, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	salt := make([]byte, len(cfg.Salt))
	copy(salt, cfg.Salt)
	cfg.Salt = salt

	return &PBKDF2{config: cfg}, nil
}

// Hash describes the hash operation and its observable behavior.
//
// Hash is a pure function of (secret, configured salt): the same inputs always
// produce the same digest, so digests remain comparable across restarts.
func (p *PBKDF2) Hash(secret string) string {
	// Secret processing uses raw string bytes exactly as provided (no Unicode normalization).
	key := pbkdf2.Key(
		[]byte(secret),
		p.config.Salt,
		p.config.Iterations,
		p.config.KeyLength,
		sha256.New,
	)

	return base64.StdEncoding.EncodeToString(key)
}

// Verify describes the verify operation and its observable behavior.
//
// Verify recomputes the digest for the candidate secret and compares it in
// constant time against the stored digest. Plaintext values are never compared
// directly.
func (p *PBKDF2) Verify(secret string, digest string) bool {
	computed := p.Hash(secret)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}

// Iterations describes the iterations operation and its observable behavior.
//
// Iterations may return an error when input validation, dependency calls, or security checks fail.
// Iterations does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *PBKDF2) Iterations() int {
	return p.config.Iterations
}

// KeyLength describes the keylength operation and its observable behavior.
//
// KeyLength may return an error when input validation, dependency calls, or security checks fail.
// KeyLength does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (p *PBKDF2) KeyLength() int {
	return p.config.KeyLength
}

func validateConfig(cfg Config) error {
	if cfg.Iterations < minIterations {
		return errors.New("iterations below safe minimum")
	}
	if cfg.KeyLength < minKeyLength {
		return errors.New("key length below safe minimum")
	}
	if len(cfg.Salt) == 0 {
		return errors.New("salt must not be empty")
	}

	return nil
}
