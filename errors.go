package dirauth

import (
	"errors"

	"github.com/fgjtam/dirauth/cipher"
)

// ErrInvalidCredentials is an exported constant or variable used by the lifecycle engine.
//
// It is returned when an email/secret pair does not resolve to a directory
// person, or when the secret does not verify against the stored digest. The
// two cases are deliberately indistinguishable to callers.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrCodeInvalidOrExpired is an exported constant or variable used by the lifecycle engine.
//
// It is returned by the confirm half of a code-mediated flow when the
// presented code is unknown, past its time-to-live, superseded by a newer
// code, or bound to a different payload. Callers cannot tell which.
var ErrCodeInvalidOrExpired = errors.New("verification code invalid or expired")

// ErrSessionInvalid is an exported constant or variable used by the lifecycle engine.
//
// It is returned for every session validation failure: unknown token,
// expired, explicitly ended, or client fingerprint mismatch. The precise
// reason is recorded on the audit trail, never surfaced to the caller.
var ErrSessionInvalid = errors.New("session invalid")

// ErrOldPasswordMismatch is an exported constant or variable used by the lifecycle engine.
var ErrOldPasswordMismatch = errors.New("old password does not match")

// ErrPersonNotFound is an exported constant or variable used by the lifecycle engine.
var ErrPersonNotFound = errors.New("person not found")

// ErrEmailInUse is an exported constant or variable used by the lifecycle engine.
var ErrEmailInUse = errors.New("email already in use")

// ErrDeliveryFailed is an exported constant or variable used by the lifecycle engine.
//
// It wraps the transport error from the configured EmailSender. State
// changes made before the send (such as an issued code) are not rolled back.
var ErrDeliveryFailed = errors.New("message delivery failed")

// ErrDirectoryUnavailable is an exported constant or variable used by the lifecycle engine.
//
// It wraps unexpected failures from the DirectoryProvider so callers can
// distinguish infrastructure trouble from domain outcomes.
var ErrDirectoryUnavailable = errors.New("directory provider unavailable")

// ErrEngineNotReady is an exported constant or variable used by the lifecycle engine.
var ErrEngineNotReady = errors.New("engine not ready")

// ErrInvalidToken is an exported constant or variable used by the lifecycle engine.
//
// It aliases the cipher package sentinel so callers matching opaque-token
// failures only need this package.
var ErrInvalidToken = cipher.ErrInvalidToken
