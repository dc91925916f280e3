package dirauth

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fgjtam/dirauth/internal"
)

// CreatePreregistration describes the createpreregistration operation and its observable behavior.
//
// CreatePreregistration may return an error when input validation, dependency calls, or security checks fail.
// CreatePreregistration does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// It records a pending signup in the directory, mints an opaque token
// carrying the pending record's identity, and emails a confirmation link.
// A delivery failure is audited but does not fail the call: the pending
// record exists either way and the link can be re-sent.
func (e *Engine) CreatePreregistration(ctx context.Context, email, secret string) (string, error) {
	if e == nil {
		return "", ErrEngineNotReady
	}

	inUse, err := e.directory.EmailInUse(ctx, email)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}
	if inUse {
		e.emitAudit(ctx, auditEventPreregisterCreated, false, "", "", ErrEmailInUse, nil)
		return "", ErrEmailInUse
	}

	preregisterID, err := e.directory.UpsertPreregistration(ctx, email, e.hasher.Hash(secret))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDirectoryUnavailable, err)
	}

	token, err := e.tokenCipher.Encrypt(preregisterID + "|" + email)
	if err != nil {
		return "", fmt.Errorf("mint preregistration token: %w", err)
	}

	link := e.config.Preregister.DestinationURL + "?t=" + url.QueryEscape(token)
	subject, body := preregisterEmail(link)
	if _, err := e.emailSender.Send(ctx, email, subject, body); err != nil {
		e.metricInc(MetricEmailDeliveryFailure)
		e.emitAudit(ctx, auditEventEmailDeliveryFailure, false, "", "", ErrDeliveryFailed, func() map[string]string {
			return map[string]string{"flow": "preregister"}
		})
	}

	e.metricInc(MetricPreregisterCreated)
	e.emitAudit(ctx, auditEventPreregisterCreated, true, "", "", nil, func() map[string]string {
		return map[string]string{"preregister_id": preregisterID}
	})

	return preregisterID, nil
}

// ValidatePreregisterToken describes the validatepreregistertoken operation and its observable behavior.
//
// ValidatePreregisterToken may return an error when input validation, dependency calls, or security checks fail.
// ValidatePreregisterToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
//
// It decrypts the opaque token back into the pending record's identity.
// Any malformed, tampered, or foreign token yields ErrInvalidToken.
func (e *Engine) ValidatePreregisterToken(ctx context.Context, token string) (PreregisterIdentity, error) {
	if e == nil {
		return PreregisterIdentity{}, ErrEngineNotReady
	}

	plain, err := e.tokenCipher.Decrypt(token)
	if err != nil {
		return PreregisterIdentity{}, ErrInvalidToken
	}

	id, email, ok := strings.Cut(plain, "|")
	if !ok || email == "" {
		return PreregisterIdentity{}, ErrInvalidToken
	}
	if _, err := internal.ParsePreregisterID(id); err != nil {
		return PreregisterIdentity{}, ErrInvalidToken
	}

	e.metricInc(MetricPreregisterValidated)
	e.emitAudit(ctx, auditEventPreregisterValidated, true, "", "", nil, func() map[string]string {
		return map[string]string{"preregister_id": id}
	})

	return PreregisterIdentity{PreregisterID: id, Email: email}, nil
}
