// Package session provides the in-memory session registry: issuance of opaque
// random tokens, validation bound to the issuing client's fingerprint, and
// explicit termination.
//
// # Validity
//
// A session is valid while it has not been ended, its hard expiry (if any) has
// not passed, and the presented (IP address, User-Agent) pair hashes to the
// fingerprint captured at issuance. Expiry is evaluated lazily on access;
// [Store.Sweep] exists purely for memory hygiene.
//
// # Architecture boundaries
//
// This package owns session state and validity rules. Folding the
// distinguishable failure reasons into a uniform external answer is the
// Engine's job.
//
// # What this package must NOT do
//
//   - Persist state or touch the network.
//   - Retain raw IP addresses or User-Agent strings.
//   - Import any dirauth package other than internal.
package session
