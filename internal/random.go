package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	sessionTokenRawSize = 24
	verificationCodeLen = 6
)

// NewSessionToken returns an opaque, cryptographically random session token.
// The token carries no internal structure callers may rely on.
func NewSessionToken() (string, error) {
	var raw [sessionTokenRawSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}

	// base64url, no padding, compact
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// NewVerificationCode returns a short human-enterable code: the upper-cased
// tail of a fresh UUID, six characters, uppercase alphanumeric.
func NewVerificationCode() string {
	s := strings.ToUpper(uuid.New().String())
	return s[len(s)-verificationCodeLen:]
}

// ValidVerificationCode reports whether v has the shape of a generated code.
func ValidVerificationCode(v string) bool {
	if len(v) != verificationCodeLen {
		return false
	}
	for i := 0; i < len(v); i++ {
		c := v[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}

// NewPreregisterID returns a fresh preregistration record identifier.
func NewPreregisterID() string {
	return uuid.New().String()
}

// ParsePreregisterID validates a preregistration identifier.
func ParsePreregisterID(v string) (string, error) {
	parsed, err := uuid.Parse(v)
	if err != nil {
		return "", errors.New("invalid preregister id")
	}
	return parsed.String(), nil
}
