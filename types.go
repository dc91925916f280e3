package dirauth

import "context"

// PersonRecord defines a public type used by dirauth APIs.
//
// PersonRecord instances are intended to be configured during initialization
// and then treated as immutable unless documented otherwise.
//
// A PersonRecord is the engine's read model of a directory person: only the
// fields the lifecycle flows need. The backing directory almost certainly
// stores much more; none of it crosses this boundary.
type PersonRecord struct {
	// ID is the stable subject identifier verification codes and sessions
	// are keyed by. It must not change when the person's email does.
	ID string

	// FullName is used only to personalize outbound messages.
	FullName string

	// Email is the person's current contact address.
	Email string

	// PasswordHash is the stored credential digest, in the encoding
	// produced by the engine's hasher.
	PasswordHash string
}

// DirectoryProvider defines a public type used by dirauth APIs.
//
// DirectoryProvider is the engine's only window onto the person directory.
// Implementations own persistence entirely; the engine never caches records
// across calls and re-reads on every operation. All methods must be safe for
// concurrent use.
//
// Methods return an error satisfying errors.Is(err, ErrPersonNotFound) when
// the subject does not exist; any other error is treated as an
// infrastructure failure and surfaced wrapped in ErrDirectoryUnavailable.
type DirectoryProvider interface {
	// GetPersonByEmail resolves a person by contact address.
	GetPersonByEmail(ctx context.Context, email string) (PersonRecord, error)

	// GetPersonByID resolves a person by subject identifier.
	GetPersonByID(ctx context.Context, subjectID string) (PersonRecord, error)

	// UpdatePasswordHash replaces the stored credential digest.
	UpdatePasswordHash(ctx context.Context, subjectID, passwordHash string) error

	// UpdateEmail replaces the person's contact address.
	UpdateEmail(ctx context.Context, subjectID, newEmail string) error

	// EmailInUse reports whether any person or pending preregistration
	// already claims the address.
	EmailInUse(ctx context.Context, email string) (bool, error)

	// UpsertPreregistration records a pending signup for the address and
	// returns its identifier. Calling it again for the same address
	// replaces the pending record and returns the same identifier.
	UpsertPreregistration(ctx context.Context, email, passwordHash string) (string, error)
}

// EmailSender defines a public type used by dirauth APIs.
//
// EmailSender delivers the engine's outbound messages. The returned message
// identifier is recorded on the audit trail and otherwise unused; senders
// without one may return "".
type EmailSender interface {
	Send(ctx context.Context, destination, subject, htmlBody string) (messageID string, err error)
}

// PreregisterIdentity defines a public type used by dirauth APIs.
//
// PreregisterIdentity is the decoded content of a preregistration token:
// the pending record's identifier and the address it was minted for.
type PreregisterIdentity struct {
	PreregisterID string
	Email         string
}
