package dirauth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/fgjtam/dirauth/session"
)

// ValidateSession describes the validatesession operation and its observable behavior.
//
// ValidateSession may return an error when input validation, dependency calls, or security checks fail.
// ValidateSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Every failure mode (unknown token, expired, ended, fingerprint mismatch)
// surfaces as ErrSessionInvalid; the distinction is kept on the audit trail.
func (e *Engine) ValidateSession(ctx context.Context, token string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	start := time.Now()
	err := e.sessions.Validate(token, clientIPFromContext(ctx), userAgentFromContext(ctx))
	e.metricObserve(MetricValidateLatency, time.Since(start))

	if err != nil {
		e.metricInc(MetricSessionRejected)
		e.emitAudit(ctx, auditEventSessionRejected, false, "", token, ErrSessionInvalid, func() map[string]string {
			return map[string]string{"reason": sessionRejectReason(err)}
		})
		return ErrSessionInvalid
	}

	return nil
}

// ResolveSession describes the resolvesession operation and its observable behavior.
//
// ResolveSession may return an error when input validation, dependency calls, or security checks fail.
// ResolveSession does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// It is ValidateSession plus the subject identifier the session belongs to.
func (e *Engine) ResolveSession(ctx context.Context, token string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	start := time.Now()
	subjectID, err := e.sessions.Resolve(token, clientIPFromContext(ctx), userAgentFromContext(ctx))
	e.metricObserve(MetricValidateLatency, time.Since(start))

	if err != nil {
		e.metricInc(MetricSessionRejected)
		e.emitAudit(ctx, auditEventSessionRejected, false, "", token, ErrSessionInvalid, func() map[string]string {
			return map[string]string{"reason": sessionRejectReason(err)}
		})
		return "", ErrSessionInvalid
	}

	return subjectID, nil
}

// Logout describes the logout operation and its observable behavior.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Ending an already-ended session succeeds; only an unknown token fails.
func (e *Engine) Logout(ctx context.Context, token string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	if err := e.sessions.End(token); err != nil {
		return ErrSessionInvalid
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogoutSession, true, "", token, nil, nil)

	return nil
}

// LogoutAll describes the logoutall operation and its observable behavior.
//
// LogoutAll may return an error when input validation, dependency calls, or security checks fail.
// LogoutAll does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// It ends every live session the subject holds and returns how many were
// ended. A subject with no live sessions is not an error.
func (e *Engine) LogoutAll(ctx context.Context, subjectID string) (int, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}

	ended := e.sessions.EndAllForSubject(subjectID)

	e.metricInc(MetricLogoutAll)
	e.emitAudit(ctx, auditEventLogoutAll, true, subjectID, "", nil, func() map[string]string {
		return map[string]string{"ended": strconv.Itoa(ended)}
	})

	return ended, nil
}

func sessionRejectReason(err error) string {
	switch {
	case errors.Is(err, session.ErrNotFound):
		return "not_found"
	case errors.Is(err, session.ErrExpired):
		return "expired"
	case errors.Is(err, session.ErrEnded):
		return "ended"
	case errors.Is(err, session.ErrFingerprintMismatch):
		return "fingerprint_mismatch"
	default:
		return "unknown"
	}
}
