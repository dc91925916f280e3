package dirauth

import (
	"context"
	"errors"
	"fmt"
)

// RequestEmailChange describes the requestemailchange operation and its observable behavior.
//
// RequestEmailChange may return an error when input validation, dependency calls, or security checks fail.
// RequestEmailChange does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The code is delivered to the candidate address, proving the person can
// read mail there before the directory record moves. A second request for
// the same subject replaces the outstanding code, new address and all.
func (e *Engine) RequestEmailChange(ctx context.Context, subjectID, newEmail string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	inUse, err := e.directory.EmailInUse(ctx, newEmail)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	if inUse {
		e.emitAudit(ctx, auditEventEmailChangeRequest, false, subjectID, "", ErrEmailInUse, nil)
		return ErrEmailInUse
	}

	person, err := e.directory.GetPersonByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, ErrPersonNotFound) {
			return ErrPersonNotFound
		}
		return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	code := e.changeCodes.IssueOrReplace(subjectID, e.config.EmailChange.CodeTTL, emailChangePayload{NewEmail: newEmail})

	subject, body := emailChangeEmail(person.FullName, code, e.config.EmailChange.CodeTTL)
	if _, err := e.emailSender.Send(ctx, newEmail, subject, body); err != nil {
		e.metricInc(MetricEmailDeliveryFailure)
		e.emitAudit(ctx, auditEventEmailDeliveryFailure, false, subjectID, "", ErrDeliveryFailed, func() map[string]string {
			return map[string]string{"flow": "email_change"}
		})
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	e.metricInc(MetricEmailChangeRequest)
	e.emitAudit(ctx, auditEventEmailChangeRequest, true, subjectID, "", nil, nil)

	return nil
}

// ConfirmEmailChange describes the confirmemailchange operation and its observable behavior.
//
// ConfirmEmailChange may return an error when input validation, dependency calls, or security checks fail.
// ConfirmEmailChange does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The presented code must be the subject's current one and must have been
// issued for exactly this newEmail; a code minted for a different address
// does not validate.
func (e *Engine) ConfirmEmailChange(ctx context.Context, code, newEmail string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	subjectID, ok := e.changeCodes.Validate(code, func(p emailChangePayload) bool {
		return p.NewEmail == newEmail
	})
	if !ok {
		e.metricInc(MetricEmailChangeConfirmFailure)
		e.emitAudit(ctx, auditEventEmailChangeConfirm, false, "", "", ErrCodeInvalidOrExpired, nil)
		return ErrCodeInvalidOrExpired
	}

	if err := e.directory.UpdateEmail(ctx, subjectID, newEmail); err != nil {
		if errors.Is(err, ErrPersonNotFound) {
			e.metricInc(MetricEmailChangeConfirmFailure)
			e.emitAudit(ctx, auditEventEmailChangeConfirm, false, subjectID, "", ErrPersonNotFound, nil)
			return ErrPersonNotFound
		}
		return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	e.changeCodes.Remove(subjectID)

	e.metricInc(MetricEmailChangeConfirmSuccess)
	e.emitAudit(ctx, auditEventEmailChangeConfirm, true, subjectID, "", nil, nil)

	return nil
}
