package dirauth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// RequestPasswordReset describes the requestpasswordreset operation and its observable behavior.
//
// RequestPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// RequestPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// Depending on the configured strategy it either issues a one-time code for
// the person (replacing any outstanding one) or mints a signed link, then
// delivers it to the person's current address. A delivery failure does not
// revoke an already-issued code.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	person, err := e.directory.GetPersonByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrPersonNotFound) {
			e.emitAudit(ctx, auditEventPasswordResetRequest, false, "", "", ErrPersonNotFound, func() map[string]string {
				return map[string]string{"email": email}
			})
			return ErrPersonNotFound
		}
		return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	var subject, body string
	switch e.config.PasswordReset.Strategy {
	case ResetStrategyLink:
		token, err := e.resetLinks.CreateResetToken(person.ID, person.Email, e.config.PasswordReset.CodeTTL)
		if err != nil {
			return fmt.Errorf("create reset link: %w", err)
		}
		link := e.config.PasswordReset.DestinationURL + "?t=" + url.QueryEscape(token)
		subject, body = resetLinkEmail(person.FullName, link, e.config.PasswordReset.CodeTTL)
	default:
		code := e.resetCodes.IssueOrReplace(person.ID, e.config.PasswordReset.CodeTTL, struct{}{})
		subject, body = resetCodeEmail(person.FullName, code, e.config.PasswordReset.CodeTTL)
	}

	if _, err := e.emailSender.Send(ctx, person.Email, subject, body); err != nil {
		e.metricInc(MetricEmailDeliveryFailure)
		e.emitAudit(ctx, auditEventEmailDeliveryFailure, false, person.ID, "", ErrDeliveryFailed, func() map[string]string {
			return map[string]string{"flow": "password_reset"}
		})
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	e.metricInc(MetricPasswordResetRequest)
	e.emitAudit(ctx, auditEventPasswordResetRequest, true, person.ID, "", nil, nil)

	return nil
}

// ConfirmPasswordReset describes the confirmpasswordreset operation and its observable behavior.
//
// ConfirmPasswordReset may return an error when input validation, dependency calls, or security checks fail.
// ConfirmPasswordReset does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// The proof argument is the one-time code or, under the link strategy, the
// signed token carried by the emailed URL. On success the stored digest is
// replaced, the proof is consumed, and every live session the person holds
// is ended.
func (e *Engine) ConfirmPasswordReset(ctx context.Context, proof, newPassword string) error {
	if e == nil {
		return ErrEngineNotReady
	}

	subjectID, err := e.resolveResetProof(proof)
	if err != nil {
		e.metricInc(MetricPasswordResetConfirmFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", "", err, nil)
		return err
	}

	if err := e.directory.UpdatePasswordHash(ctx, subjectID, e.hasher.Hash(newPassword)); err != nil {
		if errors.Is(err, ErrPersonNotFound) {
			e.metricInc(MetricPasswordResetConfirmFailure)
			e.emitAudit(ctx, auditEventPasswordResetConfirm, false, subjectID, "", ErrPersonNotFound, nil)
			return ErrPersonNotFound
		}
		return fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	e.resetCodes.Remove(subjectID)
	ended := e.sessions.EndAllForSubject(subjectID)

	e.metricInc(MetricPasswordResetConfirmSuccess)
	e.emitAudit(ctx, auditEventPasswordResetConfirm, true, subjectID, "", nil, func() map[string]string {
		return map[string]string{"sessions_ended": strconv.Itoa(ended)}
	})

	return nil
}

func (e *Engine) resolveResetProof(proof string) (string, error) {
	if e.config.PasswordReset.Strategy == ResetStrategyLink {
		claims, err := e.resetLinks.ParseResetToken(proof)
		if err != nil {
			return "", ErrCodeInvalidOrExpired
		}
		return claims.Subject, nil
	}

	subjectID, ok := e.resetCodes.Validate(proof, nil)
	if !ok {
		return "", ErrCodeInvalidOrExpired
	}
	return subjectID, nil
}
