// Package cipher implements the symmetric token cipher used for opaque,
// tamper-resistant payload tokens (preregistration links and similar).
//
// # Encoding
//
// Ciphertexts are hex-encoded AES-256-GCM: a random 12-byte nonce followed by
// the sealed payload. The AES key is the SHA-256 of the configured service
// secret, so the secret itself may be any non-empty string.
//
// Earlier deployments used an unauthenticated fixed-IV mode; the authenticated
// mode keeps the Decrypt(Encrypt(x)) == x contract while rejecting tampered or
// foreign ciphertexts outright instead of returning garbage.
//
// # What this package must NOT do
//
//   - Distinguish "wrong key" from "corrupt token" in its error surface.
//   - Import any other dirauth package.
package cipher
