// Package jwt implements the HS256 link-token manager behind the link-based
// password-reset strategy: short-lived signed tokens carrying the subject id
// and email, delivered as a URL query parameter instead of a typed code.
//
// # What this package must NOT do
//
//   - Accept any signing algorithm other than HS256.
//   - Expose why a token failed to parse.
//   - Import any other dirauth package.
package jwt
