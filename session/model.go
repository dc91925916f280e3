package session

import (
	"time"

	"github.com/fgjtam/dirauth/internal"
)

// Fingerprint is the client identity captured at issuance: SHA-256 of the
// IP address and of the User-Agent string. Raw values are never retained.
type Fingerprint struct {
	IPHash        [32]byte
	UserAgentHash [32]byte
}

// NewFingerprint hashes the presented client attributes.
func NewFingerprint(ipAddress, userAgent string) Fingerprint {
	return Fingerprint{
		IPHash:        internal.HashBindingValue(ipAddress),
		UserAgentHash: internal.HashBindingValue(userAgent),
	}
}

// Session defines a public type used by dirauth APIs.
//
// Session instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Session struct {
	Token     string
	SubjectID string

	Fingerprint Fingerprint

	CreatedAt time.Time
	ExpiresAt time.Time // zero value: no hard expiry, only explicit end
	EndedAt   time.Time // zero value: not ended
}

// Ended reports whether the session was explicitly terminated.
func (s Session) Ended() bool {
	return !s.EndedAt.IsZero()
}

// Expired reports whether the session's hard expiry has passed at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
