// Package password implements deterministic credential hashing with
// PBKDF2-HMAC-SHA256.
//
// # Output format
//
// Digests are the raw base64 (standard encoding) of the derived key:
//
//	base64(PBKDF2-HMAC-SHA256(secret, salt, iterations, keyLength))
//
// The salt is fixed per service deployment — it is derived from the configured
// secret key rather than generated per record. This matches the digests already
// stored by existing deployments; switching to per-record salts would
// invalidate every stored credential and is therefore an explicit migration,
// not a drop-in change.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. Password policy (length,
// reuse) is enforced by the Engine.
//
// # What this package must NOT do
//
//   - Store or retrieve secrets — callers supply plaintext and receive digests.
//   - Import any other dirauth package.
//   - Log plaintext secrets or derived keys at runtime.
package password
