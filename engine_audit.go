package dirauth

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventLoginSuccess           = "login_success"
	auditEventLoginFailure           = "login_failure"
	auditEventSessionRejected        = "session_rejected"
	auditEventLogoutSession          = "logout_session"
	auditEventLogoutAll              = "logout_all"
	auditEventPasswordResetRequest   = "password_reset_request"
	auditEventPasswordResetConfirm   = "password_reset_confirm"
	auditEventEmailChangeRequest     = "email_change_request"
	auditEventEmailChangeConfirm     = "email_change_confirm"
	auditEventPasswordChangeSuccess  = "password_change_success"
	auditEventPasswordChangeFailure  = "password_change_failure"
	auditEventPreregisterCreated     = "preregister_created"
	auditEventPreregisterValidated   = "preregister_validated"
	auditEventEmailDeliveryFailure   = "email_delivery_failure"
)

// AuditErrorCode defines a public type used by dirauth APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrInvalidCredentials AuditErrorCode = "invalid_credentials"
	auditErrCodeInvalid        AuditErrorCode = "code_invalid_or_expired"
	auditErrSessionInvalid     AuditErrorCode = "session_invalid"
	auditErrOldPassword        AuditErrorCode = "old_password_mismatch"
	auditErrPersonNotFound     AuditErrorCode = "person_not_found"
	auditErrEmailInUse         AuditErrorCode = "email_in_use"
	auditErrInvalidToken       AuditErrorCode = "invalid_token"
	auditErrDeliveryFailed     AuditErrorCode = "delivery_failed"
	auditErrUnavailable        AuditErrorCode = "directory_unavailable"
	auditErrInternal           AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	subjectID string,
	sessionID string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		SubjectID: subjectID,
		SessionID: sessionID,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return auditErrInvalidCredentials
	case errors.Is(err, ErrCodeInvalidOrExpired):
		return auditErrCodeInvalid
	case errors.Is(err, ErrSessionInvalid):
		return auditErrSessionInvalid
	case errors.Is(err, ErrOldPasswordMismatch):
		return auditErrOldPassword
	case errors.Is(err, ErrPersonNotFound):
		return auditErrPersonNotFound
	case errors.Is(err, ErrEmailInUse):
		return auditErrEmailInUse
	case errors.Is(err, ErrInvalidToken):
		return auditErrInvalidToken
	case errors.Is(err, ErrDeliveryFailed):
		return auditErrDeliveryFailed
	case errors.Is(err, ErrDirectoryUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
