package dirauth

import (
	"context"
	"errors"
	"fmt"
)

// ChangePassword describes the changepassword operation and its observable behavior.
//
// ChangePassword may return an error when input validation, dependency calls, or security checks fail.
// ChangePassword does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The caller is already authenticated, so proof of the old password stands
// in for a verification code. Existing sessions survive; only the reset
// flow forces a global logout.
func (e *Engine) ChangePassword(ctx context.Context, subjectID, oldPassword, newPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	person, err := e.directory.GetPersonByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, ErrPersonNotFound) {
			return ErrPersonNotFound
		}
		return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	if !e.hasher.Verify(oldPassword, person.PasswordHash) {
		e.metricInc(MetricPasswordChangeInvalidOld)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, subjectID, "", ErrOldPasswordMismatch, nil)
		return ErrOldPasswordMismatch
	}

	if err := e.directory.UpdatePasswordHash(ctx, subjectID, e.hasher.Hash(newPassword)); err != nil {
		return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, auditEventPasswordChangeSuccess, true, subjectID, "", nil, nil)

	return nil
}
