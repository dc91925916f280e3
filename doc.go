// Package dirauth provides the credential and verification-code lifecycle
// engine for the personnel directory: fingerprint-bound session tokens,
// single-active-per-subject verification codes for password reset and email
// change, PBKDF2 credential digests, and opaque preregistration tokens.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// dirauth is the public surface. It exposes [Engine], [Builder], [Config],
// the [DirectoryProvider] and [EmailSender] ports, and value types
// (MetricsSnapshot, SecurityReport, AuditEvent). Primitive building blocks
// live in the password, cipher, session, and jwt sub-packages; shared
// helpers under internal/ are never exported.
//
// # What this package must NOT do
//
//   - Persist anything itself. Sessions and codes live in process memory;
//     the person directory is reached only through DirectoryProvider.
//   - Expose raw verification codes, session internals, or digests in its
//     public API beyond the values callers must relay.
//   - Import any sub-package that re-imports dirauth (no import cycles).
//
// # Performance contract
//
// ValidateSession and ResolveSession are the hot path: a single mutex
// acquisition and two SHA-256 hashes, no I/O. Flow operations are allowed
// one DirectoryProvider round-trip plus one outbound email per call.
package dirauth
