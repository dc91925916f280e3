// Package middleware exposes HTTP middleware adapters that enforce session
// validation on top of dirauth.Engine.
//
// # Guards
//
//   - [Guard] — rejects requests whose bearer token is not a live session
//     bound to the caller's IP and User-Agent.
//
// The guard reads the Authorization header, attaches the client IP and
// User-Agent to the request context, calls Engine.ResolveSession, and
// injects the resolved subject identifier for downstream handlers.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement session logic itself — all decisions are delegated to
// Engine.ResolveSession.
//
// # What this package must NOT do
//
//   - Inspect or mint session tokens directly (delegates to Engine).
//   - Make authorization decisions beyond pass/reject from the Engine.
package middleware
