// Package internal contains helper utilities that are intentionally private to
// dirauth, including secure random generation and client fingerprint helpers.
//
// # What this package must NOT do
//
//   - Export types that appear in the public dirauth API.
//   - Be imported by any package outside the dirauth module.
package internal
